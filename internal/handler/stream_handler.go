package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/strategy-ledger/internal/service"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler pushes strategy status snapshots over a websocket
type StreamHandler struct {
	strategyService *service.StrategyService
	interval        time.Duration
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(strategyService *service.StrategyService, interval time.Duration) *StreamHandler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &StreamHandler{
		strategyService: strategyService,
		interval:        interval,
	}
}

type streamError struct {
	Error string `json:"error"`
}

// StreamStatus sends the strategy status immediately and then on every tick
// until the client goes away
// GET /ws/strategy/status?strategy=
func (h *StreamHandler) StreamStatus(c *gin.Context) {
	name := c.Query("strategy")

	// Reject unknown strategies before upgrading so the client gets a plain HTTP error
	status, err := h.strategyService.GetStatus(c.Request.Context(), name)
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[StatusStream] upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Drain client frames; a read error means the peer closed
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, status); err != nil {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var payload interface{}
			status, err := h.strategyService.GetStatus(ctx, name)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("[StatusStream] %s: %v", name, err)
				payload = streamError{Error: err.Error()}
			} else {
				payload = status
			}
			if err := h.write(conn, payload); err != nil {
				return
			}
		}
	}
}

func (h *StreamHandler) write(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(v); err != nil {
		log.Printf("[StatusStream] write error: %v", err)
		return err
	}
	return nil
}

// RegisterRoutes registers the websocket route
func (h *StreamHandler) RegisterRoutes(router gin.IRouter, authMiddleware gin.HandlerFunc) {
	ws := router.Group("/ws")
	ws.Use(authMiddleware)
	{
		ws.GET("/strategy/status", h.StreamStatus)
	}
}
