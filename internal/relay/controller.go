package relay

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/loglift/loglift/internal/config"
	"github.com/loglift/loglift/internal/metrics"
)

// controller samples queue depth on a tick and grows the pool while the
// backlog is both over threshold and still climbing. Growth, not
// magnitude, gates scale-up: a large but flat backlog spawns nothing.
// The controller never removes workers; they retire on their own.
type controller struct {
	cfg     *config.ScalerConfig
	depth   func() int
	spawn   func() bool
	workers func() int
	m       *metrics.Metrics
	log     zerolog.Logger

	prevDepth int
	delay     time.Duration
}

func newController(cfg *config.ScalerConfig, depth func() int, spawn func() bool, workers func() int, m *metrics.Metrics, log zerolog.Logger) *controller {
	return &controller{
		cfg:     cfg,
		depth:   depth,
		spawn:   spawn,
		workers: workers,
		m:       m,
		log:     log.With().Str("component", "scaler").Logger(),
		delay:   cfg.BaseDelay(),
	}
}

// Run evaluates one tick per inter-check delay until ctx is cancelled.
func (c *controller) Run(ctx context.Context) {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		timer.Reset(c.step(c.depth()))
	}
}

// step evaluates a single sample and returns the wait before the next
// one. During a sustained burst the delay shrinks one step per
// qualifying tick (floored at the minimum) so workers are added faster;
// any non-burst tick resets it to the base.
func (c *controller) step(depth int) time.Duration {
	bursting := depth > c.cfg.DepthThreshold && depth > c.prevDepth
	if bursting {
		if c.spawn() {
			c.log.Info().
				Int("queue_depth", depth).
				Int("prev_depth", c.prevDepth).
				Int("workers", c.workers()).
				Msg("backlog growing, spawned worker")
		} else {
			c.log.Warn().
				Int("queue_depth", depth).
				Int("workers", c.workers()).
				Msg("backlog growing but worker cap reached")
		}
		c.delay -= c.cfg.DelayStep()
		if c.delay < c.cfg.MinDelay() {
			c.delay = c.cfg.MinDelay()
		}
	} else {
		c.delay = c.cfg.BaseDelay()
	}
	c.prevDepth = depth

	c.m.QueueDepth.Set(float64(depth))
	c.log.Info().
		Int("queue_depth", depth).
		Int("workers", c.workers()).
		Dur("next_check", c.delay).
		Msg("scaler tick")
	return c.delay
}
