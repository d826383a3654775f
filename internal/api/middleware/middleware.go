package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/probelab/probesvc/internal/metrics"
)

// RequestIDKey is the gin context key carrying the request ID.
const RequestIDKey = "request_id"

// RequestID assigns each request a UUID, exposed via the X-Request-ID
// response header and the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// Tracker records every request into the shared registry: in-flight
// gauge up on entry, duration histogram + request counter keyed by the
// final status on the way out. The defer fires exactly once per
// request no matter how the handler chain terminates.
func Tracker(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.ActiveConnections.Inc()

		path := c.FullPath()
		if path == "" {
			// unmatched route, keep the raw path so 404s are visible
			path = c.Request.URL.Path
		}

		defer func() {
			elapsed := time.Since(start).Seconds()
			status := strconv.Itoa(c.Writer.Status())
			m.RequestDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed)
			m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
			m.ActiveConnections.Dec()
		}()

		c.Next()
	}
}

// Trace opens an OTEL span per request using the global provider.
func Trace(serviceName string) gin.HandlerFunc {
	tracer := otel.Tracer(serviceName)
	return func(c *gin.Context) {
		name := c.Request.Method + " " + c.Request.URL.Path
		ctx, span := tracer.Start(c.Request.Context(), name)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		span.SetAttributes(
			attribute.Int("http.status_code", c.Writer.Status()),
			attribute.String("http.method", c.Request.Method),
		)
	}
}

// Recovery converts a panicking handler into a 500 response. In
// development the panic value is echoed back as a debug aid; in any
// other environment the client gets a generic message.
func Recovery(log *zap.Logger, env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("handler panicked",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				msg := "Internal Server Error"
				if env == "development" {
					msg = fmt.Sprint(r)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal Server Error",
					"message": msg,
				})
			}
		}()
		c.Next()
	}
}
