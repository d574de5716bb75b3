// Package httpapi exposes search, act lookup, history and export over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"CaseLawSearch/internal/acts"
	"CaseLawSearch/internal/infrastructure/export"
	"CaseLawSearch/internal/infrastructure/metrics"
	"CaseLawSearch/internal/session"
	"CaseLawSearch/internal/usecase"
)

// Deps wires the use cases behind the router.
type Deps struct {
	Pipeline  *usecase.Pipeline
	Acts      *usecase.ActSearch
	Registry  *acts.Registry
	Exporters *export.Registry
	Sessions  *session.Store
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Handler serves the JSON API.
type Handler struct {
	pipeline  *usecase.Pipeline
	acts      *usecase.ActSearch
	registry  *acts.Registry
	exporters *export.Registry
	sessions  *session.Store
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	h := &Handler{
		pipeline:  deps.Pipeline,
		acts:      deps.Acts,
		registry:  deps.Registry,
		exporters: deps.Exporters,
		sessions:  deps.Sessions,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
	if h.sessions == nil {
		h.sessions = session.NewStore(0, 0)
	}
	if h.exporters == nil {
		h.exporters = export.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), h.observe())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/filters", h.Filters)
	api.GET("/acts", h.SearchActs)
	api.POST("/export/:format", h.Export)

	// Only routes that read or change per-user state open a session.
	stateful := api.Group("", h.withSession())
	stateful.GET("/search", h.Search)
	stateful.GET("/history", h.History)
	stateful.DELETE("/history", h.ClearHistory)

	return r
}

// observe logs each request and records its latency.
func (h *Handler) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		if h.metrics != nil {
			h.metrics.RequestDuration.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Observe(elapsed.Seconds())
		}
		if h.logger != nil {
			h.logger.Debug("request served", "method", c.Request.Method, "route", route, "status", c.Writer.Status(), "elapsed", elapsed)
		}
	}
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
