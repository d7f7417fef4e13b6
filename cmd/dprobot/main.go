package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/command"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/config"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A broken or missing config never blocks the CLI.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.NewConfig()
	}
	setupLogging(cfg)

	registry := command.NewRegistry()
	helpCmd := command.NewHelpCommand(registry)
	registry.Register(helpCmd)
	registry.Register(command.NewVersionCommand(version))
	registry.Register(command.NewConfigCommand(cfg))
	registry.Register(command.NewInitCommand(cfg))
	registry.Register(command.NewRunCommand(cfg))
	registry.Register(command.NewInspectCommand(cfg))

	if len(os.Args) < 2 {
		// No command specified, show help
		return helpCmd.Execute([]string{}, os.Stdout, os.Stderr)
	}

	cmdName := os.Args[1]
	if cmdName == "-h" || cmdName == "--help" {
		return helpCmd.Execute([]string{}, os.Stdout, os.Stderr)
	}

	cmd, err := registry.Get(cmdName)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmdName)
		_, _ = fmt.Fprintln(os.Stderr, "Use 'dprobot help' to see available commands.")
		return err
	}

	// Create flag set for this command
	fs := flag.NewFlagSet(cmd.Name(), flag.ExitOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s\n", cmd.Usage())
		_, _ = fmt.Fprintf(os.Stderr, "\n%s\n\n", cmd.Description())
		_, _ = fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}
	cmd.SetupFlags(fs)
	if err := fs.Parse(os.Args[2:]); err != nil {
		return err
	}

	return cmd.Execute(fs.Args(), os.Stdout, os.Stderr)
}

// setupLogging points slog at stderr with the configured level. Trial output
// is captured in per-trial logs; the process logger carries batch progress
// and warnings only.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch config.DefaultSchema().Resolve(cfg, "log.level") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
