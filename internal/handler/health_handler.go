package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything the health check can probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

// Ping implements Pinger
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// KeepaliveReporter exposes the result of the background store keepalive
type KeepaliveReporter interface {
	Healthy() bool
}

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// HealthHandler reports liveness and the state of the store and cache
type HealthHandler struct {
	build BuildInfo
	store Pinger
	cache Pinger // nil when the cache is disabled

	keepalive KeepaliveReporter
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(build BuildInfo, store, cache Pinger) *HealthHandler {
	return &HealthHandler{build: build, store: store, cache: cache}
}

// WithKeepalive adds the keepalive worker's last ping to the report
func (h *HealthHandler) WithKeepalive(k KeepaliveReporter) *HealthHandler {
	h.keepalive = k
	return h
}

// Health returns 200 while the store answers and 503 otherwise. The cache and
// the keepalive state are informational only.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	storeState := "ok"
	if err := h.store.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		storeState = err.Error()
	}

	cacheState := "disabled"
	if h.cache != nil {
		cacheState = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			cacheState = err.Error()
		}
	}

	keepaliveState := "disabled"
	if h.keepalive != nil {
		keepaliveState = "ok"
		if !h.keepalive.Healthy() {
			keepaliveState = "failing"
		}
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status":     state,
		"version":    h.build.Version,
		"commit":     h.build.Commit,
		"build_time": h.build.BuildTime,
		"time":       time.Now().Unix(),
		"store":      storeState,
		"cache":      cacheState,
		"keepalive":  keepaliveState,
	})
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
}
