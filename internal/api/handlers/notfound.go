package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Index identifies the service and lists its endpoints.
func (p *Probe) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "probesvc",
		"hostname":  p.Hostname,
		"endpoints": Endpoints(),
	})
}

// NotFound is the catch-all for unknown routes.
func (p *Probe) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":              "Not Found",
		"message":            fmt.Sprintf("no handler for %s %s", c.Request.Method, c.Request.URL.Path),
		"availableEndpoints": Endpoints(),
	})
}
