package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/strategy-ledger/internal/ledgertest"
	"github.com/strategy-ledger/internal/repository"
	"github.com/strategy-ledger/internal/service"
)

type services struct {
	store       *repository.Store
	fx          *ledgertest.Fixture
	strategy    *service.StrategyService
	performance *service.PerformanceService
	portfolio   *service.PortfolioService
}

func newServices(t *testing.T, now time.Time) *services {
	t.Helper()
	store := ledgertest.NewStore(t)
	fx := ledgertest.Seed(t, store)

	strategies := repository.NewStrategyRepository(store)
	trades := repository.NewTradeRepository(store)
	clock := func() time.Time { return now }

	strategy := service.NewStrategyService(strategies, trades).WithClock(clock)
	performance := service.NewPerformanceService(strategies, trades, nil).WithClock(clock)

	return &services{
		store:       store,
		fx:          fx,
		strategy:    strategy,
		performance: performance,
		portfolio:   service.NewPortfolioService(strategies, strategy, performance),
	}
}

// memCache is an in-process cache.Cache for tests
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *memCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dst)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = data
	return nil
}
