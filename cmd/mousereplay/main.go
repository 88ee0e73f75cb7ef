// Package main is the entry point for the mouse event replay harness.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/mouseproc/internal/app"
	"github.com/dshills/mouseproc/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	script     string
	events     string
	trace      string
	logLevel   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Flags override the file and the environment.
	if opts.script != "" {
		cfg.Script.Path = opts.script
	}
	if opts.events != "" {
		cfg.Replay.Events = opts.events
	}
	if opts.trace != "" {
		cfg.Replay.Trace = opts.trace
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logCfg := app.DefaultLoggerConfig()
	logCfg.Level = app.ParseLogLevel(cfg.Logging.Level)
	logger := app.NewLogger(logCfg)

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := app.Run(ctx, app.Options{Config: cfg, Logger: logger})
	if err != nil {
		logger.Error("replay failed", "error", err)
		return 1
	}
	if sum.Replay.Malformed > 0 || sum.Replay.UnknownConn > 0 {
		return 2
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.script, "script", "", "Lua file defining procs")
	flag.StringVar(&opts.events, "events", "", "Event log to replay (- for stdin)")
	flag.StringVar(&opts.trace, "trace", "", "Write invocations as JSON lines (- for stdout)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "mousereplay - replay pointer events through the mouse router\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mousereplay [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  %sSCRIPT, %sEVENTS, %sTRACE, %sLOG_LEVEL, %sQUEUE_SIZE\n",
			config.EnvPrefix, config.EnvPrefix, config.EnvPrefix, config.EnvPrefix, config.EnvPrefix)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  mousereplay -c world.toml -events clicks.jsonl -trace -\n")
		fmt.Fprintf(os.Stderr, "  cat clicks.jsonl | mousereplay -c world.toml -script procs.lua\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("mousereplay %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
