package chime

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	toneSampleRate = 44100
	toneDuration   = 0.15 // seconds
	toneAmplitude  = 16000
	wavFormatPCM   = 1
)

// defaultTones renders the built-in chimes once: an ascending tone for
// activations (A4 -> C5) and a descending one for failures (C5 -> A4).
var defaultTones = sync.OnceValues(func() ([2][]byte, error) {
	var out [2][]byte
	for i, f := range [2][2]float64{{440, 523}, {523, 440}} {
		data, err := EncodeWAV(generateChime(toneSampleRate, toneDuration, f[0], f[1]), toneSampleRate)
		if err != nil {
			return out, err
		}
		out[i] = data
	}
	return out, nil
})

// generateChime renders a linear frequency sweep shaped by a half-sine
// envelope so it starts and ends silent.
func generateChime(sampleRate int, duration, startFreq, endFreq float64) []int16 {
	n := int(float64(sampleRate) * duration)
	samples := make([]int16, n)
	var phase float64
	for i := range samples {
		progress := float64(i) / float64(n)
		freq := startFreq + (endFreq-startFreq)*progress
		samples[i] = int16(math.Sin(phase) * math.Sin(math.Pi*progress) * toneAmplitude)
		phase += 2 * math.Pi * freq / float64(sampleRate)
	}
	return samples
}

// memFile is an in-memory io.WriteSeeker. The WAV encoder seeks back to
// patch chunk sizes on Close.
type memFile struct {
	buf []byte
	off int64
}

func (f *memFile) Write(p []byte) (int, error) {
	if end := int(f.off) + len(p); end > len(f.buf) {
		f.buf = append(f.buf, make([]byte, end-len(f.buf))...)
	}
	n := copy(f.buf[f.off:], p)
	f.off += int64(n)
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	base := map[int]int64{io.SeekStart: 0, io.SeekCurrent: f.off, io.SeekEnd: int64(len(f.buf))}
	start, ok := base[whence]
	if !ok {
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	if pos := start + offset; pos >= 0 && pos <= int64(len(f.buf)) {
		f.off = pos
		return pos, nil
	}
	return 0, fmt.Errorf("seek: offset %d out of range", start+offset)
}

// EncodeWAV encodes mono 16-bit PCM as a WAV file.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(v)
	}
	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}

	f := &memFile{}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finish wav: %w", err)
	}
	return f.buf, nil
}

// validWAV reports whether data parses as a WAV file with at least one
// sample.
func validWAV(data []byte) error {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return errors.New("not a WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	if len(buf.Data) == 0 {
		return errors.New("WAV file has no samples")
	}
	return nil
}
