// Package console exposes the attendance Controller over a small JSON API
// plus a server-sent event stream of operator notices.
package console

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"faceattend/internal/attendance"
	"faceattend/internal/httpmiddleware"
	"faceattend/internal/store"
)

// Prober checks that the recognition backend answers.
type Prober interface {
	Health(ctx context.Context) error
}

// Deps are the collaborators the router is built from. Controller is required.
// Redis is nil when notices stay in memory; Limiter is nil to disable rate
// limiting. A nil Hub gets an idle one, so /api/notices streams nothing.
type Deps struct {
	Controller  *attendance.Controller
	Hub         *Hub
	Backend     Prober
	Redis       *store.Redis
	Limiter     *httpmiddleware.TokenBucket
	CORSOrigins []string
}

type handler struct {
	ctrl    *attendance.Controller
	hub     *Hub
	backend Prober
	redis   *store.Redis
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Hub == nil {
		d.Hub = NewHub()
	}
	h := &handler{ctrl: d.Controller, hub: d.Hub, backend: d.Backend, redis: d.Redis}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware(d.CORSOrigins))
	r.Use(securityHeaders())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.healthz)

	api := r.Group("/api")
	api.GET("/state", h.state)
	api.GET("/notices", h.notices)

	mut := api.Group("")
	if d.Limiter != nil {
		mut.Use(d.Limiter.GinMiddleware())
	}
	mut.PUT("/registration/name", h.setRegistrationName)
	mut.PUT("/attendance/name", h.setAttendanceName)
	mut.POST("/registration/file", h.selectFile)
	mut.DELETE("/registration/file", h.clearFile)
	mut.POST("/registration", h.submitRegistration)
	mut.POST("/attendance", h.submitAttendance)
	mut.POST("/records/refresh", h.refreshRecords)
	mut.POST("/faces/refresh", h.refreshFaces)
	mut.POST("/video/error", h.videoFailed)
	mut.POST("/video/retry", h.retryVideo)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

func (h *handler) healthz(c *gin.Context) {
	ctx := c.Request.Context()
	backendOK := h.backend == nil || h.backend.Health(ctx) == nil

	notices := "memory"
	noticesOK := true
	if h.redis != nil {
		notices = "redis"
		noticesOK = h.redis.Healthy(ctx)
	}

	status := http.StatusOK
	if !backendOK || !noticesOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"backend":   backendOK,
		"notices":   notices,
		"notice_ok": noticesOK,
		"listeners": h.hub.Listeners(),
	})
}
