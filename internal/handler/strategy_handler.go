package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/strategy-ledger/internal/service"
	"github.com/strategy-ledger/pkg/response"
)

// StrategyHandler serves per-strategy ledger queries
type StrategyHandler struct {
	strategyService    *service.StrategyService
	performanceService *service.PerformanceService
}

// NewStrategyHandler creates a new StrategyHandler
func NewStrategyHandler(strategyService *service.StrategyService, performanceService *service.PerformanceService) *StrategyHandler {
	return &StrategyHandler{
		strategyService:    strategyService,
		performanceService: performanceService,
	}
}

// GetStatus returns name, id, active trades and capital usage
// GET /api/v1/strategy/status?strategy=
func (h *StrategyHandler) GetStatus(c *gin.Context) {
	status, err := h.strategyService.GetStatus(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, status)
}

// GetInfo returns strategy metadata, or every strategy for strategy=*
// GET /api/v1/strategy/info?strategy=
func (h *StrategyHandler) GetInfo(c *gin.Context) {
	info, err := h.strategyService.GetInfo(c.Request.Context(), c.DefaultQuery("strategy", "*"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, info)
}

// GetOpenTrades returns the open positions of a strategy
// GET /api/v1/strategy/open_trades?strategy=
func (h *StrategyHandler) GetOpenTrades(c *gin.Context) {
	positions, err := h.strategyService.GetOpenPositions(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, positions)
}

// GetHistoricalTrades returns closed trades within the lookback window
// GET /api/v1/strategy/hist_trades?strategy=&lookback=
func (h *StrategyHandler) GetHistoricalTrades(c *gin.Context) {
	lookback, err := strconv.Atoi(c.DefaultQuery("lookback", "0"))
	if err != nil {
		response.BadRequest(c, "lookback must be an integer number of months")
		return
	}

	trades, err := h.strategyService.GetHistoricalTrades(c.Request.Context(), c.Query("strategy"), lookback)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, trades)
}

// GetDailyPnL returns the strategy's realized P&L per day
// GET /api/v1/strategy/pnl?strategy=
func (h *StrategyHandler) GetDailyPnL(c *gin.Context) {
	series, err := h.performanceService.DailyPnL(c.Request.Context(), c.Query("strategy"))
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, series)
}

// GetStatistics returns performance statistics rounded to two decimals.
// With strict=true an undefined ratio fails the request.
// GET /api/v1/strategy/statistics?strategy=&strict=
func (h *StrategyHandler) GetStatistics(c *gin.Context) {
	strict, err := strconv.ParseBool(c.DefaultQuery("strict", "false"))
	if err != nil {
		response.BadRequest(c, "strict must be a boolean")
		return
	}

	report, err := h.performanceService.Statistics(c.Request.Context(), c.Query("strategy"), strict)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, report)
}

// GetRisk returns drawdown, VaR and expected shortfall
// GET /api/v1/strategy/risk?strategy=
func (h *StrategyHandler) GetRisk(c *gin.Context) {
	strategy := c.Query("strategy")
	if strategy == "" {
		handleLedgerError(c, service.ErrMissingStrategy)
		return
	}

	report, err := h.performanceService.Risk(c.Request.Context(), strategy)
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, report)
}

// RegisterRoutes registers strategy routes
func (h *StrategyHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	strategy := rg.Group("/strategy")
	strategy.Use(authMiddleware)
	{
		strategy.GET("/status", h.GetStatus)
		strategy.GET("/info", h.GetInfo)
		strategy.GET("/open_trades", h.GetOpenTrades)
		strategy.GET("/hist_trades", h.GetHistoricalTrades)
		strategy.GET("/pnl", h.GetDailyPnL)
		strategy.GET("/statistics", h.GetStatistics)
		strategy.GET("/risk", h.GetRisk)
	}
}
