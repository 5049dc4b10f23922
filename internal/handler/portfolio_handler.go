package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/strategy-ledger/internal/service"
	"github.com/strategy-ledger/pkg/response"
)

// PortfolioHandler serves queries spanning every strategy
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// GetActiveStrategies lists strategies without a termination date
// GET /api/v1/port/active_strategies
func (h *PortfolioHandler) GetActiveStrategies(c *gin.Context) {
	strategies, err := h.portfolioService.ActiveStrategies(c.Request.Context())
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, strategies)
}

// GetDailyPnL returns the portfolio's realized P&L per day
// GET /api/v1/port/daily_pnl
func (h *PortfolioHandler) GetDailyPnL(c *gin.Context) {
	series, err := h.portfolioService.DailyPnL(c.Request.Context())
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, series)
}

// GetTopOfBook returns open exposure per active strategy with totals
// GET /api/v1/port/top_of_book
func (h *PortfolioHandler) GetTopOfBook(c *gin.Context) {
	book, err := h.portfolioService.TopOfBook(c.Request.Context())
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, book)
}

// GetRisk returns risk metrics of the portfolio P&L series
// GET /api/v1/port/risk
func (h *PortfolioHandler) GetRisk(c *gin.Context) {
	report, err := h.portfolioService.Risk(c.Request.Context())
	if err != nil {
		handleLedgerError(c, err)
		return
	}
	response.Success(c, report)
}

// RegisterRoutes registers portfolio routes
func (h *PortfolioHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	port := rg.Group("/port")
	port.Use(authMiddleware)
	{
		port.GET("/active_strategies", h.GetActiveStrategies)
		port.GET("/daily_pnl", h.GetDailyPnL)
		port.GET("/top_of_book", h.GetTopOfBook)
		port.GET("/risk", h.GetRisk)
	}
}
