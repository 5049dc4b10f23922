package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/strategy-ledger/internal/service"
	"github.com/strategy-ledger/pkg/response"
)

// TradeHandler serves single-record lookups down the trade hierarchy
type TradeHandler struct {
	strategyService *service.StrategyService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(strategyService *service.StrategyService) *TradeHandler {
	return &TradeHandler{
		strategyService: strategyService,
	}
}

// GetTrade returns a trade with its legs and fills
// GET /api/v1/trades/:trade_id
func (h *TradeHandler) GetTrade(c *gin.Context) {
	tradeID, err := uintParam(c, "trade_id")
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	trade, err := h.strategyService.GetTrade(c.Request.Context(), tradeID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, trade)
}

// GetLeg returns one leg of a trade with its fills
// GET /api/v1/trades/:trade_id/legs/:leg_no
func (h *TradeHandler) GetLeg(c *gin.Context) {
	tradeID, err := uintParam(c, "trade_id")
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	legNo, err := strconv.Atoi(c.Param("leg_no"))
	if err != nil || legNo < 1 {
		response.BadRequest(c, "leg_no must be a positive integer")
		return
	}

	leg, err := h.strategyService.GetLeg(c.Request.Context(), tradeID, legNo)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, leg)
}

// GetFill returns a single fill
// GET /api/v1/fills/:fill_id
func (h *TradeHandler) GetFill(c *gin.Context) {
	fillID, err := uintParam(c, "fill_id")
	if err != nil {
		handleLedgerError(c, err)
		return
	}

	fill, err := h.strategyService.GetFill(c.Request.Context(), fillID)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, fill)
}

// RegisterRoutes registers trade routes
func (h *TradeHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	trades := rg.Group("/trades")
	trades.Use(authMiddleware)
	{
		trades.GET("/:trade_id", h.GetTrade)
		trades.GET("/:trade_id/legs/:leg_no", h.GetLeg)
	}

	fills := rg.Group("/fills")
	fills.Use(authMiddleware)
	{
		fills.GET("/:fill_id", h.GetFill)
	}
}
