// Package source acquires raw log lines from the configured external
// stream and pumps them into the ingestion queue.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/loglift/loglift/internal/config"
)

// maxLineBytes bounds a single log line read from any source.
const maxLineBytes = 1024 * 1024

// ErrNoData reports that the source has no line available right now.
// Callers should wait briefly and retry rather than busy-spin.
var ErrNoData = errors.New("no data available")

// LineSource yields raw log lines from an external stream. Next blocks
// until a line is available, returns ErrNoData on a transient empty
// read, and io.EOF when the stream ended.
type LineSource interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// factory builds a LineSource from the source configuration.
// Each source kind registers its factory in init().
type factory func(cfg *config.SourceConfig) (LineSource, error)

var factories = map[string]factory{}

func register(kind string, f factory) { factories[kind] = f }

// New creates the LineSource selected by cfg.Kind.
func New(cfg *config.SourceConfig) (LineSource, error) {
	f, ok := factories[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown source kind: %s", cfg.Kind)
	}
	return f(cfg)
}
