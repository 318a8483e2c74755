package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chat-relay/internal"
	"chat-relay/runtime"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer executes before the
// process exits and the entry point stays testable.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.NewLogger(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Start the relay
	server := runtime.NewServer(log, runtime.ServerConfig{
		Addr:            fmt.Sprintf("%s:%d", config.Host, config.Port),
		HeartbeatPeriod: config.HeartbeatPeriod,
		ShutdownGrace:   config.ShutdownGrace,
		RestartInterval: config.RestartInterval,
	})
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("relay failed to start: %w", err)
	}

	// 4. Wait for a stop signal, then shut down gracefully
	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	server.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
