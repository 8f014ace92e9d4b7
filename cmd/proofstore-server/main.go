// Copyright 2025 Certen Protocol
//
// Entry point for the proof store HTTP service. Wires config, the
// default verifier bundle, the core store, and the REST transport, then
// serves until SIGINT/SIGTERM, mirroring the validator's main.go
// graceful-shutdown sequence (listen in a goroutine, wait on a signal
// channel, Shutdown with a bounded context).

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/certen/proofstore/internal/config"
	"github.com/certen/proofstore/internal/proofstore"
	"github.com/certen/proofstore/internal/server"
	"github.com/certen/proofstore/internal/verifiers"
)

func main() {
	listenAddr := flag.String("listen-addr", "", "override PROOFSTORE_LISTEN_ADDR")
	shutdownTimeout := flag.Duration("shutdown-timeout", 30*time.Second, "graceful shutdown deadline")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	bundle := verifiers.NewBundle()
	store, err := proofstore.New(cfg.StoreConfig(), bundle)
	if err != nil {
		log.Fatalf("failed to construct proof store: %v", err)
	}

	logger := log.New(os.Stdout, "[proofstore] ", log.LstdFlags)
	handlers := server.NewHandlers(store, logger)
	mux := server.NewMux(handlers)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	go func() {
		logger.Printf("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}

	logger.Printf("stopped")
}
