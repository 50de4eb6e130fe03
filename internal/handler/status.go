package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/loglift/loglift/internal/queue"
	"github.com/loglift/loglift/internal/relay"
	"github.com/loglift/loglift/internal/response"
)

// StatusHandler serves the operational endpoints: liveness and a
// snapshot of the relay (worker count, queue depth).
type StatusHandler struct {
	Queue   *queue.Queue
	Relay   *relay.Relay
	Started time.Time
}

// Health answers liveness probes (GET /healthz).
func (h *StatusHandler) Health(c echo.Context) error {
	return response.OK(c, map[string]any{"status": "ok"}, "")
}

// Status reports the relay snapshot (GET /status).
func (h *StatusHandler) Status(c echo.Context) error {
	return response.OK(c, map[string]any{
		"workers":     h.Relay.Workers(),
		"queue_depth": h.Queue.Depth(),
		"uptime":      time.Since(h.Started).Round(time.Second).String(),
	}, "")
}
