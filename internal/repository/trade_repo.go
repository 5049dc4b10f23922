package repository

import (
	"context"
	"errors"
	"time"

	"github.com/strategy-ledger/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTradeNotFound = errors.New("trade not found")
	ErrLegNotFound   = errors.New("trade leg not found")
	ErrFillNotFound  = errors.New("fill not found")
)

// TradeStatus restricts a ledger query to open or closed trades
type TradeStatus int

const (
	TradeStatusAny TradeStatus = iota
	TradeStatusOpen
	TradeStatusClosed
)

// TradeFilter narrows ListFills
type TradeFilter struct {
	Status      TradeStatus
	OpenedAfter *time.Time // strictly after
}

const fillRowColumns = "strategy.strategy_id, strategy.strategy_name, " +
	"trade.trade_id, trade.open_time AS open_time, trade.close_time AS close_time, " +
	"trade_leg.leg_no, trade_leg.contract, " +
	"fill.fill_id, fill.qty, fill.avg, fill.placement_time"

// openRowColumns backs the outer join used for open trades, where a trade may
// not have legs or fills yet. A missing fill scans as fill_id 0.
const openRowColumns = "strategy.strategy_id, strategy.strategy_name, " +
	"trade.trade_id, trade.open_time AS open_time, trade.close_time AS close_time, " +
	"COALESCE(trade_leg.leg_no, 0) AS leg_no, COALESCE(trade_leg.contract, '') AS contract, " +
	"COALESCE(fill.fill_id, 0) AS fill_id, COALESCE(fill.qty, 0) AS qty, fill.avg, fill.placement_time"

// TradeRepository reads the trade → leg → fill hierarchy
type TradeRepository struct {
	store *Store
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(store *Store) *TradeRepository {
	return &TradeRepository{store: store}
}

// ListFills returns the flattened strategy→trade→leg→fill join for a strategy
// (or AllStrategies), ordered by trade open time, trade, leg and fill placement.
// Open trades are outer-joined so a trade without fills still yields one row
// with FillID 0; closed trades only appear through their fills.
func (r *TradeRepository) ListFills(ctx context.Context, strategy string, filter TradeFilter) ([]models.FillRow, error) {
	var rows []models.FillRow
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		q := tx.Table("strategy").Joins("JOIN trade ON trade.strategy_id = strategy.strategy_id")
		if filter.Status == TradeStatusOpen {
			q = q.Select(openRowColumns).
				Joins("LEFT JOIN trade_leg ON trade_leg.trade_id = trade.trade_id").
				Joins("LEFT JOIN fill ON fill.trade_id = trade_leg.trade_id AND fill.leg_no = trade_leg.leg_no")
		} else {
			q = q.Select(fillRowColumns).
				Joins("JOIN trade_leg ON trade_leg.trade_id = trade.trade_id").
				Joins("JOIN fill ON fill.trade_id = trade_leg.trade_id AND fill.leg_no = trade_leg.leg_no")
		}

		if strategy != AllStrategies {
			q = q.Where("strategy.strategy_name = ?", strategy)
		}

		switch filter.Status {
		case TradeStatusOpen:
			q = q.Where("trade.close_time IS NULL")
		case TradeStatusClosed:
			q = q.Where("trade.close_time IS NOT NULL")
		}

		if filter.OpenedAfter != nil {
			q = q.Where("trade.open_time > ?", *filter.OpenedAfter)
		}

		return q.Order("trade.open_time, trade.trade_id, trade_leg.leg_no, fill.placement_time, fill.fill_id").
			Scan(&rows).Error
	})
	return rows, err
}

// GetTradeTree retrieves a trade with its legs and their fills
func (r *TradeRepository) GetTradeTree(ctx context.Context, tradeID uint) (*models.Trade, error) {
	var trade models.Trade
	var legs []models.TradeLeg
	var fills []models.Fill

	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("trade_id = ?", tradeID).First(&trade).Error; err != nil {
			return err
		}
		if err := tx.Where("trade_id = ?", tradeID).Order("leg_no").Find(&legs).Error; err != nil {
			return err
		}
		return tx.Where("trade_id = ?", tradeID).
			Order("leg_no, placement_time, fill_id").
			Find(&fills).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}

	byLeg := make(map[int]int, len(legs))
	for i := range legs {
		byLeg[legs[i].LegNo] = i
	}
	for _, fill := range fills {
		if i, ok := byLeg[fill.LegNo]; ok {
			legs[i].Fills = append(legs[i].Fills, fill)
		}
	}
	trade.Legs = legs

	return &trade, nil
}

// GetLeg retrieves one leg of a trade with its fills ordered by placement time
func (r *TradeRepository) GetLeg(ctx context.Context, tradeID uint, legNo int) (*models.TradeLeg, error) {
	var leg models.TradeLeg
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("trade_id = ? AND leg_no = ?", tradeID, legNo).First(&leg).Error; err != nil {
			return err
		}
		return tx.Where("trade_id = ? AND leg_no = ?", tradeID, legNo).
			Order("placement_time, fill_id").
			Find(&leg.Fills).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLegNotFound
		}
		return nil, err
	}
	return &leg, nil
}

// GetFill retrieves a fill by ID
func (r *TradeRepository) GetFill(ctx context.Context, fillID uint) (*models.Fill, error) {
	var fill models.Fill
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where("fill_id = ?", fillID).First(&fill).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFillNotFound
		}
		return nil, err
	}
	return &fill, nil
}
