package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/room"
	"github.com/cardroom/holdem/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"holdem-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Address to bind to, host:port (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     int64  `short:"s" help:"Deterministic shuffle seed (0 seeds from the OS)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		host, port, err := net.SplitHostPort(CLI.Addr)
		if err != nil {
			fmt.Printf("Invalid addr %q: %v\n", CLI.Addr, err)
			kctx.Exit(1)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			fmt.Printf("Invalid port %q: %v\n", port, err)
			kctx.Exit(1)
		}
		cfg.Server.Address = host
		cfg.Server.Port = p
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("starting holdem server",
		"addr", cfg.Addr(),
		"smallBlind", cfg.Defaults.SmallBlind,
		"bigBlind", cfg.Defaults.BigBlind)

	var opts []room.Option
	if CLI.Seed != 0 {
		opts = append(opts, room.WithSeed(CLI.Seed))
	}

	srv := server.New(cfg, quartz.NewReal(), logger, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited", "error", err)
		kctx.Exit(1)
	}
	logger.Info("server shutdown complete")
	kctx.Exit(0)
}
