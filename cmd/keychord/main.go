package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Danondso/keychord/internal/config"
)

const usage = `usage: keychord [command] [flags]

commands:
  run        listen for configured hotkeys and run their actions (default)
  monitor    show live input events and hotkey activations
  parse      check hotkey strings and print their canonical form
  backends   list input backends and which one would be used
  init       write an example config file

flags:
`

// options are the flags shared by every command.
type options struct {
	debug   bool
	config  string
	backend string
	args    []string
}

// splitCommand separates the leading subcommand from the flags.
func splitCommand(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "run", args
}

func parseFlags(cmd string, args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("keychord "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging to stderr")
	fs.StringVar(&o.config, "config", "", "config file, TOML or YAML by extension (default ~/.config/keychord/config.toml)")
	fs.StringVar(&o.backend, "backend", "", "input backend, overrides the config file and PYNPUT_BACKEND*")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.args = fs.Args()
	return o, nil
}

func run() {
	cmd, args := splitCommand(os.Args[1:])
	if cmd == "help" {
		cmd, args = "run", []string{"-h"}
	}
	o, err := parseFlags(cmd, args, os.Stderr)
	if err == flag.ErrHelp {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if o.config == "" {
		o.config = config.DefaultPath()
	}

	// Set up debug logger
	var dbg *log.Logger
	if o.debug {
		dbg = log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	} else {
		dbg = log.New(io.Discard, "", 0)
	}

	switch cmd {
	case "run":
		err = runDaemon(o, dbg)
	case "monitor":
		err = runMonitor(o, dbg)
	case "parse":
		err = runParse(o.args, os.Stdout)
	case "backends":
		err = runBackends(o, os.Stdout, os.Getenv)
	case "init":
		err = runInit(o.config, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "keychord: unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("keychord %s: %v", cmd, err)
	}
}
