package service

import (
	"context"
	"fmt"
	"time"

	"github.com/strategy-ledger/internal/analytics"
	"github.com/strategy-ledger/internal/cache"
	"github.com/strategy-ledger/internal/repository"
)

// PerformanceService builds realized P&L series and the metrics derived from them
type PerformanceService struct {
	strategies *repository.StrategyRepository
	trades     *repository.TradeRepository
	cache      cache.Cache
	now        func() time.Time
}

// NewPerformanceService creates a new PerformanceService. A nil cache
// recomputes every series from the ledger.
func NewPerformanceService(
	strategies *repository.StrategyRepository,
	trades *repository.TradeRepository,
	resultCache cache.Cache,
) *PerformanceService {
	if resultCache == nil {
		resultCache = cache.Nop{}
	}
	return &PerformanceService{
		strategies: strategies,
		trades:     trades,
		cache:      resultCache,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for year-to-date figures
func (s *PerformanceService) WithClock(now func() time.Time) *PerformanceService {
	s.now = now
	return s
}

// StatisticsReport is the response form of a strategy's statistics
type StatisticsReport struct {
	Strategy   string    `json:"strategy"`
	LaunchDate time.Time `json:"launch_date"`
	analytics.Rounded
}

// RiskReport labels risk metrics with the series they were computed on
type RiskReport struct {
	Strategy string `json:"strategy"`
	*analytics.RiskMetrics
}

// DailyPnL returns the ascending realized P&L series of a strategy, or of the
// whole portfolio for "*".
func (s *PerformanceService) DailyPnL(ctx context.Context, name string) ([]analytics.DailyPnL, error) {
	if err := ensureStrategy(ctx, s.strategies, name); err != nil {
		return nil, err
	}
	return s.dailyPnL(ctx, name)
}

// dailyPnL builds the series for a name already known to exist
func (s *PerformanceService) dailyPnL(ctx context.Context, name string) ([]analytics.DailyPnL, error) {
	return cache.Lookup(ctx, s.cache, cache.Key("pnl", name), func() ([]analytics.DailyPnL, error) {
		rows, err := s.trades.ListFills(ctx, name, repository.TradeFilter{Status: repository.TradeStatusClosed})
		if err != nil {
			return nil, fmt.Errorf("failed to load closed trades: %w", err)
		}
		return analytics.BucketDaily(analytics.GroupTrades(rows))
	})
}

// Statistics computes a strategy's performance metrics. In strict mode a
// metric with a zero divisor fails the call instead of being reported as zero.
func (s *PerformanceService) Statistics(ctx context.Context, name string, strict bool) (*StatisticsReport, error) {
	if name == "" || name == repository.AllStrategies {
		return nil, ErrMissingStrategy
	}
	strategy, err := s.strategies.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	series, err := s.dailyPnL(ctx, strategy.Name)
	if err != nil {
		return nil, err
	}

	stats, err := analytics.ComputeStatistics(series, s.now(), strict)
	if err != nil {
		return nil, fmt.Errorf("statistics for %q: %w", name, err)
	}

	return &StatisticsReport{
		Strategy:   strategy.Name,
		LaunchDate: strategy.LaunchDate,
		Rounded:    stats.Round(),
	}, nil
}

// Risk computes drawdown, VaR and expected shortfall of a strategy or of the
// portfolio for "*".
func (s *PerformanceService) Risk(ctx context.Context, name string) (*RiskReport, error) {
	series, err := s.DailyPnL(ctx, name)
	if err != nil {
		return nil, err
	}

	metrics, err := analytics.ComputeRisk(series, analytics.DefaultConfidence)
	if err != nil {
		return nil, fmt.Errorf("risk for %q: %w", name, err)
	}
	return &RiskReport{Strategy: name, RiskMetrics: metrics}, nil
}
