package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/loglift/loglift/internal/config"
	"github.com/loglift/loglift/internal/handler"
	"github.com/loglift/loglift/internal/logger"
	"github.com/loglift/loglift/internal/metrics"
	"github.com/loglift/loglift/internal/queue"
	"github.com/loglift/loglift/internal/relay"
	"github.com/loglift/loglift/internal/server"
	"github.com/loglift/loglift/internal/sink"
	"github.com/loglift/loglift/internal/source"
)

func main() {
	// Local development convenience; absent .env is fine.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := logger.New(&cfg.Log, cfg.Primary.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	q := queue.New()
	sc := sink.New(&cfg.Sink, log)

	reader, err := source.NewReader(&cfg.Source, q, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open log source")
	}
	go reader.Run(ctx)

	rl := relay.New(&cfg.Scaler, q, sc, m, log)
	rl.Start(ctx)

	h := &handler.StatusHandler{Queue: q, Relay: rl, Started: time.Now()}
	srv := server.New(cfg, h, m)
	go func() {
		if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server exited")
		}
	}()

	log.Info().
		Str("source", cfg.Source.Kind).
		Str("sink", cfg.Sink.URL).
		Int("min_workers", cfg.Scaler.MinWorkers).
		Int("max_workers", cfg.Scaler.MaxWorkers).
		Msg("loglift started")

	<-ctx.Done()
	log.Info().Msg("shutting down")
	rl.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server shutdown")
	}
}
