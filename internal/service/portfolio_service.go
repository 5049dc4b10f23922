package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/strategy-ledger/internal/analytics"
	"github.com/strategy-ledger/internal/models"
	"github.com/strategy-ledger/internal/repository"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentBooks bounds the per-strategy queries issued by TopOfBook
const maxConcurrentBooks = 4

// PortfolioService answers questions spanning every strategy
type PortfolioService struct {
	strategies  *repository.StrategyRepository
	strategy    *StrategyService
	performance *PerformanceService
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(
	strategies *repository.StrategyRepository,
	strategy *StrategyService,
	performance *PerformanceService,
) *PortfolioService {
	return &PortfolioService{
		strategies:  strategies,
		strategy:    strategy,
		performance: performance,
	}
}

// StrategyBook is one active strategy's open exposure
type StrategyBook struct {
	Strategy string `json:"strategy"`
	analytics.OpenPositions
}

// TopOfBook is the open exposure of every active strategy with portfolio totals
type TopOfBook struct {
	Strategies        []StrategyBook  `json:"strategies"`
	ActiveTrades      int             `json:"active_trades"`
	TotalCapitalUsage decimal.Decimal `json:"total_capital_usage"`
}

// ActiveStrategies lists strategies that have not been terminated
func (s *PortfolioService) ActiveStrategies(ctx context.Context) ([]models.Strategy, error) {
	strategies, err := s.strategies.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if strategies == nil {
		strategies = []models.Strategy{}
	}
	return strategies, nil
}

// DailyPnL is the realized P&L series of the whole portfolio
func (s *PortfolioService) DailyPnL(ctx context.Context) ([]analytics.DailyPnL, error) {
	return s.performance.DailyPnL(ctx, repository.AllStrategies)
}

// Risk computes risk metrics on the portfolio series
func (s *PortfolioService) Risk(ctx context.Context) (*RiskReport, error) {
	return s.performance.Risk(ctx, repository.AllStrategies)
}

// TopOfBook aggregates open positions of all active strategies concurrently.
// The first failure cancels the remaining queries.
func (s *PortfolioService) TopOfBook(ctx context.Context) (*TopOfBook, error) {
	active, err := s.ActiveStrategies(ctx)
	if err != nil {
		return nil, err
	}

	books := make([]StrategyBook, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBooks)

	for i := range active {
		i, name := i, active[i].Name
		g.Go(func() error {
			positions, err := s.strategy.GetOpenPositions(gctx, name)
			if err != nil {
				return err
			}
			books[i] = StrategyBook{Strategy: name, OpenPositions: *positions}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &TopOfBook{Strategies: books, TotalCapitalUsage: decimal.Zero}
	for _, b := range books {
		out.ActiveTrades += b.ActiveTrades
		out.TotalCapitalUsage = out.TotalCapitalUsage.Add(b.TotalCapitalUsage)
	}
	return out, nil
}
