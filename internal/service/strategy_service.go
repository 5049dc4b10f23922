package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strategy-ledger/internal/analytics"
	"github.com/strategy-ledger/internal/models"
	"github.com/strategy-ledger/internal/repository"
)

var (
	ErrInvalidLookback = errors.New("lookback must be a non-negative number of months")
	ErrMissingStrategy = errors.New("strategy is required")
)

// runningOnUnknown is reported until the ledger records where a strategy runs
const runningOnUnknown = "unknown"

// StrategyService answers per-strategy exposure and history questions
type StrategyService struct {
	strategies *repository.StrategyRepository
	trades     *repository.TradeRepository
	now        func() time.Time
}

// NewStrategyService creates a new StrategyService
func NewStrategyService(
	strategies *repository.StrategyRepository,
	trades *repository.TradeRepository,
) *StrategyService {
	return &StrategyService{
		strategies: strategies,
		trades:     trades,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for lookback windows
func (s *StrategyService) WithClock(now func() time.Time) *StrategyService {
	s.now = now
	return s
}

// ensureStrategy fails fast with ErrStrategyNotFound before any heavy query.
// The portfolio wildcard always exists.
func ensureStrategy(ctx context.Context, strategies *repository.StrategyRepository, name string) error {
	if name == "" {
		return ErrMissingStrategy
	}
	if name == repository.AllStrategies {
		return nil
	}
	ok, err := strategies.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%q: %w", name, repository.ErrStrategyNotFound)
	}
	return nil
}

// GetInfo returns the named strategy, or all of them for "*"
func (s *StrategyService) GetInfo(ctx context.Context, name string) ([]models.Strategy, error) {
	if name == "" {
		return nil, ErrMissingStrategy
	}
	return s.strategies.GetInfo(ctx, name)
}

// GetOpenPositions summarises every open trade of a strategy
func (s *StrategyService) GetOpenPositions(ctx context.Context, name string) (*analytics.OpenPositions, error) {
	if err := ensureStrategy(ctx, s.strategies, name); err != nil {
		return nil, err
	}

	rows, err := s.trades.ListFills(ctx, name, repository.TradeFilter{Status: repository.TradeStatusOpen})
	if err != nil {
		return nil, fmt.Errorf("failed to load open trades: %w", err)
	}

	positions := analytics.AggregateOpenPositions(analytics.GroupTrades(rows))
	return &positions, nil
}

// GetStatus reports the strategy's identity and current exposure
func (s *StrategyService) GetStatus(ctx context.Context, name string) (*models.StrategyStatus, error) {
	if name == "" {
		return nil, ErrMissingStrategy
	}
	strategy, err := s.strategies.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	positions, err := s.GetOpenPositions(ctx, name)
	if err != nil {
		return nil, err
	}

	return &models.StrategyStatus{
		StrategyName: strategy.Name,
		StrategyID:   strategy.ID,
		ActiveTrades: positions.ActiveTrades,
		CapitalUsage: positions.TotalCapitalUsage.StringFixed(2),
		RunningOn:    runningOnUnknown,
	}, nil
}

// GetHistoricalTrades lists closed trades opened strictly after now minus
// lookbackMonths calendar months. Zero means the whole history.
func (s *StrategyService) GetHistoricalTrades(ctx context.Context, name string, lookbackMonths int) ([]analytics.ClosedTrade, error) {
	if lookbackMonths < 0 {
		return nil, ErrInvalidLookback
	}
	if err := ensureStrategy(ctx, s.strategies, name); err != nil {
		return nil, err
	}

	filter := repository.TradeFilter{Status: repository.TradeStatusClosed}
	if cutoff, ok := analytics.LookbackCutoff(s.now().UTC(), lookbackMonths); ok {
		filter.OpenedAfter = &cutoff
	}

	rows, err := s.trades.ListFills(ctx, name, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load historical trades: %w", err)
	}
	return analytics.SummariseClosedTrades(analytics.GroupTrades(rows)), nil
}

// GetTrade returns a trade with its legs and fills
func (s *StrategyService) GetTrade(ctx context.Context, tradeID uint) (*models.Trade, error) {
	return s.trades.GetTradeTree(ctx, tradeID)
}

// GetLeg returns one leg of a trade with its fills
func (s *StrategyService) GetLeg(ctx context.Context, tradeID uint, legNo int) (*models.TradeLeg, error) {
	return s.trades.GetLeg(ctx, tradeID, legNo)
}

// GetFill returns a single fill
func (s *StrategyService) GetFill(ctx context.Context, fillID uint) (*models.Fill, error) {
	return s.trades.GetFill(ctx, fillID)
}
