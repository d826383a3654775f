package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/probelab/probesvc/internal/api/handlers"
	"github.com/probelab/probesvc/internal/api/middleware"
	"github.com/probelab/probesvc/internal/metrics"
)

// NewRouter wires the probe endpoints behind the tracking middleware.
// The tracker sits outside recovery so a panicking handler is still
// counted with its final 500 status.
func NewRouter(probe *handlers.Probe, m *metrics.Metrics, log *zap.Logger, env string, chaosEnabled bool) *gin.Engine {
	if env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Trace("probesvc"))
	r.Use(middleware.Tracker(m))
	r.Use(middleware.Recovery(log, env))

	r.GET("/", probe.Index)
	r.GET("/health", probe.Health)
	r.GET("/ready", probe.Ready)
	r.GET("/load", probe.Load)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	if chaosEnabled {
		r.POST("/chaos/kill", probe.Kill)
	}

	r.NoRoute(probe.NotFound)

	return r
}
