package handlers

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/probelab/probesvc/internal/metrics"
)

// SurvivorCounter is the external store that persists the health-check
// count across restarts. Implementations must never fail the caller.
type SurvivorCounter interface {
	Increment(ctx context.Context) int64
}

// Probe carries every dependency the endpoint handlers need. One Probe
// is built at startup and shared by all requests.
type Probe struct {
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	Survivor SurvivorCounter
	Hostname string

	// Load test bounds, from config.
	DefaultLoadSeconds int
	MaxLoadSeconds     int

	// Chaos kill plumbing. Exit is swappable so tests survive the call.
	ExitDelay time.Duration
	Exit      func(code int)

	started time.Time
}

// New builds a Probe with the process start time pinned to now.
func New(log *zap.Logger, m *metrics.Metrics, sc SurvivorCounter, hostname string) *Probe {
	return &Probe{
		Log:                log,
		Metrics:            m,
		Survivor:           sc,
		Hostname:           hostname,
		DefaultLoadSeconds: 5,
		MaxLoadSeconds:     30,
		ExitDelay:          100 * time.Millisecond,
		Exit:               os.Exit,
		started:            time.Now(),
	}
}

// Endpoints lists the routable surface, used by / and the 404 body.
func Endpoints() []string {
	return []string{
		"GET /health",
		"GET /ready",
		"GET /load?duration=N",
		"GET /metrics",
		"POST /chaos/kill",
	}
}

func (p *Probe) uptime() float64 {
	return time.Since(p.started).Seconds()
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
