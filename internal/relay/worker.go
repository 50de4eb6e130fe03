package relay

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/loglift/loglift/internal/parse"
)

// maxLoggedLine caps how much of a dropped line ends up in the log.
const maxLoggedLine = 200

func (r *Relay) spawnWorker(ctx context.Context) {
	id := uuid.NewString()[:8]
	r.workers.Add(1)
	r.m.ActiveWorkers.Inc()
	r.m.WorkersSpawned.Inc()
	r.wg.Add(1)
	go r.runWorker(ctx, id)
}

// runWorker is the sender loop: dequeue, parse, send, repeat. Empty
// queue and malformed lines both end in a bounded wait, never a busy
// spin. Failures are contained here; nothing a single record does can
// stop the worker.
func (r *Relay) runWorker(ctx context.Context, id string) {
	defer r.wg.Done()
	log := r.log.With().Str("component", "worker").Str("worker", id).Logger()
	log.Debug().Msg("worker started")

	idleStreak := 0
	for {
		if ctx.Err() != nil {
			return
		}

		line, ok := r.q.TryDequeue()
		if !ok {
			idleStreak++
			if idleStreak >= r.cfg.RetireAfterIdle && r.tryRetire() {
				log.Debug().Int("idle_streak", idleStreak).Msg("worker retired")
				return
			}
			wait(ctx, r.cfg.IdleWait())
			continue
		}
		idleStreak = 0

		rec, ok := parse.Line(line)
		if !ok {
			r.m.ParseFailures.Inc()
			log.Debug().Str("line", truncate(line, maxLoggedLine)).Msg("line did not match grammar, dropped")
			// Yield briefly so a run of malformed lines cannot
			// monopolize the scheduler.
			wait(ctx, r.cfg.NoMatchYield())
			continue
		}

		r.m.SendsTotal.Inc()
		if err := r.sink.Index(ctx, rec); err != nil {
			r.m.SendFailures.Inc()
			log.Warn().Err(err).
				Str("ip", rec.IP).
				Int("status", rec.Status).
				Msg("send failed, record dropped")
			continue
		}
		log.Debug().Str("ip", rec.IP).Int("status", rec.Status).Msg("record indexed")
	}
}

// tryRetire decrements the worker count unless that would drop the pool
// below its floor. Two idle workers can race here; the CAS keeps the
// count honest.
func (r *Relay) tryRetire() bool {
	for {
		n := r.workers.Load()
		if int(n) <= r.cfg.MinWorkers {
			return false
		}
		if r.workers.CompareAndSwap(n, n-1) {
			r.m.ActiveWorkers.Dec()
			r.m.WorkersRetired.Inc()
			return true
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
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
