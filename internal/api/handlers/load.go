package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/probelab/probesvc/internal/loadgen"
	"github.com/probelab/probesvc/pkg/model"
)

// Load burns CPU for the requested number of seconds and reports what
// it did. The request goroutine blocks for the whole burn; there is no
// cancellation, so callers needing a bound must set their own timeout.
func (p *Probe) Load(c *gin.Context) {
	p.Metrics.LoadTestsTotal.Inc()

	requested := p.clampDuration(c.Query("duration"))

	p.Log.Info("starting load test",
		zap.Int("duration_seconds", requested),
		zap.String("client", c.ClientIP()),
	)

	res := loadgen.Burn(time.Duration(requested) * time.Second)

	c.JSON(http.StatusOK, model.LoadTestResult{
		Status:                   "completed",
		Hostname:                 p.Hostname,
		RequestedDurationSeconds: requested,
		ActualDurationSeconds:    res.Elapsed.Seconds(),
		Iterations:               res.Iterations,
		Message: fmt.Sprintf("completed %d work batches in %.2fs",
			res.Iterations, res.Elapsed.Seconds()),
	})
}

// clampDuration parses the duration query value. Missing, non-numeric,
// zero and negative values all fall back to the default; anything over
// the maximum is clamped down to it.
func (p *Probe) clampDuration(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return p.DefaultLoadSeconds
	}
	if n > p.MaxLoadSeconds {
		return p.MaxLoadSeconds
	}
	return n
}
