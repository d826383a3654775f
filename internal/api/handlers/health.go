package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"

	"github.com/probelab/probesvc/pkg/model"
)

// memoryWarnMB is the heap-used threshold that flips the memory check
// to "warning". Passive flag only, never changes the HTTP status.
const memoryWarnMB = 500

// Health answers the liveness probe. It always returns 200; the
// survivor counter is best-effort and reads 0 when the store is down.
func (p *Probe) Health(c *gin.Context) {
	count := p.Survivor.Increment(c.Request.Context())

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usedMB := ms.HeapAlloc / 1024 / 1024
	totalMB := ms.HeapSys / 1024 / 1024

	memCheck := "ok"
	if usedMB >= memoryWarnMB {
		memCheck = "warning"
	}

	c.JSON(http.StatusOK, model.HealthReport{
		Status:        "healthy",
		Hostname:      p.Hostname,
		Timestamp:     nowUTC(),
		UptimeSeconds: p.uptime(),
		SurvivorCount: count,
		Memory: model.MemoryUsage{
			UsedMB:  usedMB,
			TotalMB: totalMB,
		},
		Checks: model.HealthChecks{
			Server: "running",
			Memory: memCheck,
		},
	})
}

// Ready answers the readiness probe. No live dependency checks yet:
// the survivor store is optional and the service has nothing else to
// wait for, so ready is unconditionally true.
func (p *Probe) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, model.ReadyResponse{
		Ready:     true,
		Hostname:  p.Hostname,
		Timestamp: nowUTC(),
	})
}
