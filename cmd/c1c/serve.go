package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ziolkown/cb-5/server"
)

// cmdServe loads a server.Config from an optional TOML file plus flags and
// environment variables, then serves the compile service's HTTP API until
// interrupted.
func cmdServe(configPath string) int {
	cfg, err := loadServeConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		return exitInitError
	}

	srv, err := server.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start server: %s\n", err)
		return exitInitError
	}
	defer srv.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.ListenAndServe(ctx, cfg.ListenAddress); err != nil {
		log.Printf("ERROR server exited: %s", err)
		return exitInitError
	}
	return exitSuccess
}
