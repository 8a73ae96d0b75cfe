// path: cmd/server/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcraver1021/flex-chess/internal/httpx"
	"github.com/jcraver1021/flex-chess/internal/script"
	"github.com/jcraver1021/flex-chess/internal/storage"
	"github.com/jcraver1021/flex-chess/internal/storage/sqlite"
	"github.com/jcraver1021/flex-chess/internal/telemetry"
	"github.com/jcraver1021/flex-chess/internal/variant"
)

func main() {
	cfg, err := ParseConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, "flex-chess")
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}

	var store storage.MatchStore
	if cfg.DB != "" {
		st, err := sqlite.Open(cfg.DB)
		if err != nil {
			log.Fatalf("open store %s: %v", cfg.DB, err)
		}
		store = st
		log.Printf("matches persisted to %s", cfg.DB)
	} else {
		log.Printf("no database configured; matches live in memory only")
	}

	reg := variant.NewRegistry()
	if cfg.VariantDir != "" {
		n, err := script.LoadDir(cfg.VariantDir, reg)
		if err != nil {
			log.Fatalf("load variants from %s: %v", cfg.VariantDir, err)
		}
		log.Printf("loaded %d scripted variants from %s", n, cfg.VariantDir)
	}

	var secret []byte
	if cfg.TokenSecret != "" {
		secret = []byte(cfg.TokenSecret)
	}
	srv := httpx.NewServer(reg, store, secret).
		WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout)

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(cfg.Addr) }()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatalf("http: %v", err)
		}
	case <-ctx.Done():
		log.Printf("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Close(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if store != nil {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
}
