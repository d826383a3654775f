package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Kill acknowledges the request and then exits the process with code 1
// after a short delay so the response can flush. Recovery is the
// orchestrator's job, not ours.
func (p *Probe) Kill(c *gin.Context) {
	p.Log.Warn("chaos kill requested, terminating process",
		zap.Duration("exit_delay", p.ExitDelay),
		zap.String("client", c.ClientIP()),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":  "dying",
		"message": "process will exit shortly, orchestrator restart expected",
	})

	time.AfterFunc(p.ExitDelay, func() {
		p.Exit(1)
	})
}
