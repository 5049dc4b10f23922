// Package ledgertest builds throwaway in-memory ledgers for tests.
package ledgertest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/strategy-ledger/internal/models"
	"github.com/strategy-ledger/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewStore opens a private in-memory sqlite ledger with the schema applied
func NewStore(t testing.TB) *repository.Store {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	store := repository.NewStore(db)
	require.NoError(t, store.AutoMigrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// At returns the given UTC instant
func At(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// Dec parses a decimal literal, failing loudly on typos in fixtures
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Price wraps a decimal literal as a recorded fill price
func Price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(Dec(s))
}

// Builder seeds ledger rows with sequential ids
type Builder struct {
	t      testing.TB
	db     *gorm.DB
	nextID uint
}

// NewBuilder returns a Builder writing into store
func NewBuilder(t testing.TB, store *repository.Store) *Builder {
	return &Builder{t: t, db: store.DB(), nextID: 1}
}

func (b *Builder) id() uint {
	id := b.nextID
	b.nextID++
	return id
}

// Skip advances the id sequence, so a second Builder on a seeded store does
// not collide with the fixture
func (b *Builder) Skip(n uint) {
	b.nextID += n
}

// Strategy inserts a strategy row
func (b *Builder) Strategy(name string, launch time.Time, terminated *time.Time) *models.Strategy {
	b.t.Helper()
	s := &models.Strategy{
		ID:                b.id(),
		Name:              name,
		DocumentationLink: "github.com/ledger/" + name,
		LaunchDate:        launch,
		TerminationDate:   terminated,
	}
	require.NoError(b.t, b.db.Create(s).Error)
	return s
}

// Trade inserts a trade owned by strategy
func (b *Builder) Trade(strategy *models.Strategy, open time.Time, closed *time.Time) *models.Trade {
	b.t.Helper()
	tr := &models.Trade{ID: b.id(), StrategyID: strategy.ID, OpenTime: open, CloseTime: closed}
	require.NoError(b.t, b.db.Create(tr).Error)
	return tr
}

// Leg inserts a leg of trade
func (b *Builder) Leg(trade *models.Trade, legNo int, contract string) *models.TradeLeg {
	b.t.Helper()
	leg := &models.TradeLeg{
		TradeID:   trade.ID,
		LegNo:     legNo,
		Contract:  contract,
		OpenTime:  trade.OpenTime,
		CloseTime: trade.CloseTime,
	}
	require.NoError(b.t, b.db.Create(leg).Error)
	return leg
}

// Fill inserts a fill against leg, placed at the given time
func (b *Builder) Fill(leg *models.TradeLeg, qty string, avg decimal.NullDecimal, placed time.Time) *models.Fill {
	b.t.Helper()
	f := &models.Fill{
		ID:            b.id(),
		TradeID:       leg.TradeID,
		LegNo:         leg.LegNo,
		Contract:      leg.Contract,
		Qty:           Dec(qty),
		Avg:           avg,
		PlacementTime: placed,
		FillTime:      placed.Add(time.Second),
	}
	require.NoError(b.t, b.db.Create(f).Error)
	return f
}

// Fixture is the shared ledger used across package tests:
//
//	MeanReversion: closed trade 2021-01-01 (+100@10.00, -100@10.50 → pnl +50)
//	               closed trade 2021-01-01 (+10@20, -10@19 → pnl -10)
//	               closed trade 2021-01-05, two legs (pnl +30)
//	               open trade 2021-02-01, two legs, three fills
//	               open trade 2021-02-02, one leg, one fill
//	Idle:          no trades at all
//	Retired:       terminated strategy with one closed trade
type Fixture struct {
	MeanReversion *models.Strategy
	Idle          *models.Strategy
	Retired       *models.Strategy
	ClosedTrades  []*models.Trade
	OpenTrades    []*models.Trade
}

// Seed writes the shared fixture
func Seed(t testing.TB, store *repository.Store) *Fixture {
	t.Helper()
	b := NewBuilder(t, store)
	fx := &Fixture{}

	fx.MeanReversion = b.Strategy("MeanReversion", Date(2021, 1, 1), nil)
	fx.Idle = b.Strategy("Idle", Date(2021, 6, 1), nil)
	ended := Date(2022, 1, 1)
	fx.Retired = b.Strategy("Retired", Date(2020, 1, 1), &ended)

	close1 := At(2021, 1, 1, 15, 0)
	t1 := b.Trade(fx.MeanReversion, At(2021, 1, 1, 9, 30), &close1)
	l1 := b.Leg(t1, 1, "GME")
	b.Fill(l1, "100", Price("10.00"), At(2021, 1, 1, 9, 30))
	b.Fill(l1, "-100", Price("10.50"), At(2021, 1, 1, 14, 59))

	close2 := At(2021, 1, 2, 10, 0)
	t2 := b.Trade(fx.MeanReversion, At(2021, 1, 1, 11, 0), &close2)
	l2 := b.Leg(t2, 1, "AMC")
	b.Fill(l2, "10", Price("20"), At(2021, 1, 1, 11, 0))
	b.Fill(l2, "-10", Price("19"), At(2021, 1, 2, 9, 59))

	close3 := At(2021, 1, 6, 16, 0)
	t3 := b.Trade(fx.MeanReversion, At(2021, 1, 5, 10, 0), &close3)
	l3a := b.Leg(t3, 1, "SPY")
	b.Fill(l3a, "5", Price("300"), At(2021, 1, 5, 10, 0))
	b.Fill(l3a, "-5", Price("310"), At(2021, 1, 6, 15, 0))
	l3b := b.Leg(t3, 2, "QQQ")
	b.Fill(l3b, "-2", Price("250"), At(2021, 1, 5, 10, 1))
	b.Fill(l3b, "2", Price("260"), At(2021, 1, 6, 15, 1))
	fx.ClosedTrades = []*models.Trade{t1, t2, t3}

	t4 := b.Trade(fx.MeanReversion, At(2021, 2, 1, 9, 30), nil)
	l4a := b.Leg(t4, 1, "TSLA")
	b.Fill(l4a, "3", Price("800"), At(2021, 2, 1, 9, 30))
	b.Fill(l4a, "1", Price("810"), At(2021, 2, 1, 9, 45))
	l4b := b.Leg(t4, 2, "NIO")
	b.Fill(l4b, "-10", Price("50"), At(2021, 2, 1, 9, 31))

	t5 := b.Trade(fx.MeanReversion, At(2021, 2, 2, 9, 30), nil)
	l5 := b.Leg(t5, 1, "GME")
	b.Fill(l5, "50", Price("90"), At(2021, 2, 2, 9, 30))
	fx.OpenTrades = []*models.Trade{t4, t5}

	closeR := At(2021, 3, 1, 12, 0)
	tr := b.Trade(fx.Retired, At(2021, 3, 1, 10, 0), &closeR)
	lr := b.Leg(tr, 1, "BB")
	b.Fill(lr, "1000", Price("8"), At(2021, 3, 1, 10, 0))
	b.Fill(lr, "-1000", Price("7.5"), At(2021, 3, 1, 11, 59))

	return fx
}
