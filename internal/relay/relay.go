// Package relay runs the pool of sender workers and the scaling
// controller that grows it during bursts. The Relay is the explicit
// context object shared by both: queue handle, sink client, config and
// the live worker count all live here, never in package globals.
package relay

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/loglift/loglift/internal/config"
	"github.com/loglift/loglift/internal/metrics"
	"github.com/loglift/loglift/internal/queue"
	"github.com/loglift/loglift/internal/sink"
)

// Relay owns the sender pool. Workers pop lines from the queue, parse
// them and send matched records to the sink; the controller adds
// workers while backlog grows and workers retire themselves after a
// sustained idle streak.
type Relay struct {
	cfg  *config.ScalerConfig
	q    *queue.Queue
	sink *sink.Client
	m    *metrics.Metrics
	log  zerolog.Logger

	workers atomic.Int64
	wg      sync.WaitGroup
}

// New wires a relay. Nothing runs until Start.
func New(cfg *config.ScalerConfig, q *queue.Queue, s *sink.Client, m *metrics.Metrics, log zerolog.Logger) *Relay {
	return &Relay{
		cfg:  cfg,
		q:    q,
		sink: s,
		m:    m,
		log:  log,
	}
}

// Start launches the worker floor and the scaling controller. All
// goroutines stop when ctx is cancelled; Wait blocks until the workers
// have drained out.
func (r *Relay) Start(ctx context.Context) {
	for i := 0; i < r.cfg.MinWorkers; i++ {
		r.spawnWorker(ctx)
	}

	c := newController(r.cfg,
		r.q.Depth,
		func() bool { return r.trySpawn(ctx) },
		r.Workers,
		r.m,
		r.log,
	)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		c.Run(ctx)
	}()
}

// Wait blocks until every worker and the controller have returned.
func (r *Relay) Wait() {
	r.wg.Wait()
}

// Workers reports the current live worker count.
func (r *Relay) Workers() int {
	return int(r.workers.Load())
}

// trySpawn adds one worker unless the pool is at its cap.
func (r *Relay) trySpawn(ctx context.Context) bool {
	if int(r.workers.Load()) >= r.cfg.MaxWorkers {
		return false
	}
	r.spawnWorker(ctx)
	return true
}
