package source

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"

	"github.com/loglift/loglift/internal/config"
	"github.com/loglift/loglift/internal/metrics"
	"github.com/loglift/loglift/internal/queue"
)

const (
	reopenAttempts = 5
	reopenDelay    = 500 * time.Millisecond
)

// Reader pumps lines from the source into the queue. It owns the only
// goroutine in the process allowed to block on external I/O; everything
// downstream of the queue stays non-blocking.
type Reader struct {
	cfg *config.SourceConfig
	src LineSource
	q   *queue.Queue
	m   *metrics.Metrics
	log zerolog.Logger
}

// NewReader opens the configured source and returns a reader feeding q.
func NewReader(cfg *config.SourceConfig, q *queue.Queue, m *metrics.Metrics, log zerolog.Logger) (*Reader, error) {
	src, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Reader{
		cfg: cfg,
		src: src,
		q:   q,
		m:   m,
		log: log.With().Str("component", "reader").Str("source", cfg.Kind).Logger(),
	}, nil
}

// Run reads until ctx is cancelled. Source errors and exhaustion are
// logged and answered with a reopen-and-retry loop; they never escape.
func (r *Reader) Run(ctx context.Context) {
	defer func() { _ = r.src.Close() }()
	for ctx.Err() == nil {
		line, err := r.src.Next(ctx)
		switch {
		case err == nil:
			r.q.Enqueue(line)
			r.m.LinesRead.Inc()
		case errors.Is(err, ErrNoData):
			wait(ctx, r.cfg.PollWait())
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return
		default:
			if errors.Is(err, io.EOF) {
				r.log.Warn().Msg("log stream ended, reopening")
			} else {
				r.log.Warn().Err(err).Msg("log stream read failed, reopening")
			}
			r.reopen(ctx)
		}
	}
}

// reopen closes the current source and re-creates it with backoff. If
// every attempt fails the outer Run loop brings us back here; the
// reader never gives up and never takes the process down.
func (r *Reader) reopen(ctx context.Context) {
	_ = r.src.Close()
	err := retry.Do(
		func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := New(r.cfg)
			if err != nil {
				return err
			}
			r.src = src
			return nil
		},
		retry.Attempts(reopenAttempts),
		retry.Delay(reopenDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil && ctx.Err() == nil {
		r.log.Error().Err(err).Msg("could not reopen log stream, will retry")
		wait(ctx, r.cfg.PollWait())
	}
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
