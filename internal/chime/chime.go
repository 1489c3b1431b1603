// Package chime plays short feedback sounds when hotkeys fire.
package chime

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Player manages audio chime playback.
type Player struct {
	activateData []byte
	errorData    []byte
	enabled      bool
	logger       *log.Logger
	initOnce     sync.Once
	initErr      error
}

// New creates a Player. If activatePath is empty, the built-in tone is used.
// Custom files are checked up front so a bad path fails at startup rather
// than on the first activation. If enabled is false, playback is a no-op.
func New(activatePath string, enabled bool, logger *log.Logger) (*Player, error) {
	tones, err := defaultTones()
	if err != nil {
		return nil, fmt.Errorf("render default chimes: %w", err)
	}
	p := &Player{
		activateData: tones[0],
		errorData:    tones[1],
		enabled:      enabled,
		logger:       logger,
	}

	if activatePath != "" {
		data, err := os.ReadFile(activatePath)
		if err != nil {
			return nil, fmt.Errorf("read chime %s: %w", activatePath, err)
		}
		if err := validWAV(data); err != nil {
			return nil, fmt.Errorf("chime %s: %w", activatePath, err)
		}
		p.activateData = data
	}

	return p, nil
}

// Enabled reports whether playback is on.
func (p *Player) Enabled() bool {
	return p.enabled
}

func (p *Player) initSpeaker(format beep.Format) {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
}

func (p *Player) play(data []byte) {
	if !p.enabled || len(data) == 0 {
		return
	}

	go func() {
		streamer, format, err := wav.Decode(bytes.NewReader(data))
		if err != nil {
			if p.logger != nil {
				p.logger.Printf("chime: wav decode error: %v", err)
			}
			return
		}
		defer streamer.Close()

		p.initSpeaker(format)
		if p.initErr != nil {
			if p.logger != nil {
				p.logger.Printf("chime: speaker init error: %v", p.initErr)
			}
			return
		}

		done := make(chan struct{})
		speaker.Play(beep.Seq(streamer, beep.Callback(func() {
			close(done)
		})))
		<-done
	}()
}

// PlayActivate plays the activation chime (non-blocking).
func (p *Player) PlayActivate() {
	p.play(p.activateData)
}

// PlayError plays the failure chime (non-blocking).
func (p *Player) PlayError() {
	p.play(p.errorData)
}
