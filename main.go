// Package main is the entry point for the Dreamer's Cave API server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"

	"tdcweb/src/app/server"
	"tdcweb/src/infra/config"
	"tdcweb/src/infra/db"
	"tdcweb/src/infra/logger"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables (and .env, if any)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info("starting tdcweb backend",
		"version", config.AppVersion,
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	// Initialize the database pool. A failure here must not prevent the
	// process from starting; the health endpoints report the outage and
	// first real use surfaces the error.
	pool := db.NewPool(cfg.Database, logger.WithComponent(log, "db"))
	if err := pool.Init(context.Background()); err != nil {
		log.Error("failed to initialize database pool", "error", err)
	}
	defer pool.Close()

	// Create and run HTTP server; Run blocks until shutdown signal
	srv := server.New(cfg, log, pool)
	return srv.Run()
}
