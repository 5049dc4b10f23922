package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade represents a strategy-level position spanning one or more legs
type Trade struct {
	ID         uint       `gorm:"column:trade_id;primaryKey" json:"trade_id"`
	StrategyID uint       `gorm:"column:strategy_id;index;not null" json:"strategy_id"`
	OpenTime   time.Time  `gorm:"column:open_time;index;not null" json:"open_time"`
	CloseTime  *time.Time `gorm:"column:close_time;index" json:"close_time"`

	// Relations
	Legs []TradeLeg `gorm:"-" json:"trade_leg,omitempty"`
}

// TableName specifies the table name for Trade model
func (Trade) TableName() string {
	return "trade"
}

// IsOpen reports whether the trade still has outstanding exposure
func (t *Trade) IsOpen() bool {
	return t.CloseTime == nil
}

// TradeLeg is one instrument's position within a trade
type TradeLeg struct {
	TradeID   uint       `gorm:"column:trade_id;primaryKey;autoIncrement:false" json:"trade_id"`
	LegNo     int        `gorm:"column:leg_no;primaryKey;autoIncrement:false" json:"leg_no"`
	Contract  string     `gorm:"column:contract;size:50;not null" json:"contract"`
	OpenTime  time.Time  `gorm:"column:open_time" json:"open_time"`
	CloseTime *time.Time `gorm:"column:close_time" json:"close_time"`

	Fills []Fill `gorm:"-" json:"fill,omitempty"`
}

// TableName specifies the table name for TradeLeg model
func (TradeLeg) TableName() string {
	return "trade_leg"
}

// Fill is a single execution event against one leg. Qty is signed: buys are
// positive, sells negative. Avg is null while the execution price is unknown.
type Fill struct {
	ID            uint                `gorm:"column:fill_id;primaryKey" json:"fill_id"`
	TradeID       uint                `gorm:"column:trade_id;index:idx_fill_leg;not null" json:"trade_id"`
	LegNo         int                 `gorm:"column:leg_no;index:idx_fill_leg;not null" json:"leg_no"`
	Contract      string              `gorm:"column:contract;size:50" json:"contract"`
	Qty           decimal.Decimal     `gorm:"column:qty;type:decimal(20,8);not null" json:"qty"`
	Avg           decimal.NullDecimal `gorm:"column:avg;type:decimal(20,8)" json:"avg"`
	PlacementTime time.Time           `gorm:"column:placement_time" json:"placement_time"`
	FillTime      time.Time           `gorm:"column:fill_time" json:"fill_time"`
}

// TableName specifies the table name for Fill model
func (Fill) TableName() string {
	return "fill"
}

// CashFlow returns the signed cost of the fill (qty × price). The boolean is
// false when the fill has no recorded price.
func (f *Fill) CashFlow() (decimal.Decimal, bool) {
	if !f.Avg.Valid {
		return decimal.Zero, false
	}
	return f.Qty.Mul(f.Avg.Decimal), true
}

// FillRow is one row of the strategy→trade→leg→fill join. For an open trade
// with no fills yet FillID is 0 and PlacementTime is nil.
type FillRow struct {
	StrategyID     uint                `gorm:"column:strategy_id"`
	StrategyName   string              `gorm:"column:strategy_name"`
	TradeID        uint                `gorm:"column:trade_id"`
	TradeOpenTime  time.Time           `gorm:"column:open_time"`
	TradeCloseTime *time.Time          `gorm:"column:close_time"`
	LegNo          int                 `gorm:"column:leg_no"`
	Contract       string              `gorm:"column:contract"`
	FillID         uint                `gorm:"column:fill_id"`
	Qty            decimal.Decimal     `gorm:"column:qty"`
	Avg            decimal.NullDecimal `gorm:"column:avg"`
	PlacementTime  *time.Time          `gorm:"column:placement_time"`
}

// HasFill reports whether the row carries a fill
func (r *FillRow) HasFill() bool {
	return r.FillID != 0
}

// CashFlow returns qty × price for the row's fill
func (r *FillRow) CashFlow() (decimal.Decimal, bool) {
	if !r.Avg.Valid {
		return decimal.Zero, false
	}
	return r.Qty.Mul(r.Avg.Decimal), true
}
