// Package analytics turns ledger join rows into exposure summaries, daily
// realized P&L series and performance statistics. Everything here is pure
// in-memory arithmetic on decimal values; no function touches the store.
package analytics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/strategy-ledger/internal/models"
)

var (
	ErrInsufficientData  = errors.New("insufficient data")
	ErrDivisionUndefined = errors.New("division undefined")
)

// TradeFills is one trade with every fill of every leg
type TradeFills struct {
	TradeID   uint
	Strategy  string
	OpenTime  time.Time
	CloseTime *time.Time
	Contract  string // contract of the first leg seen
	Legs      int    // highest leg number seen, with or without fills
	Fills     []models.FillRow
}

// CashFlow sums qty × price over the trade's fills. The boolean is false if
// any fill is missing its price; the partial sum is still returned.
func (t *TradeFills) CashFlow() (decimal.Decimal, bool) {
	total := decimal.Zero
	complete := true
	for i := range t.Fills {
		flow, ok := t.Fills[i].CashFlow()
		if !ok {
			complete = false
			continue
		}
		total = total.Add(flow)
	}
	return total, complete
}

// LegsCount is the highest leg number in the trade
func (t *TradeFills) LegsCount() int {
	highest := t.Legs
	for i := range t.Fills {
		if t.Fills[i].LegNo > highest {
			highest = t.Fills[i].LegNo
		}
	}
	return highest
}

// GroupTrades folds join rows into per-trade groups, keeping the order in
// which each trade first appears. Rows without a fill register the trade and
// its leg but add nothing to Fills.
func GroupTrades(rows []models.FillRow) []TradeFills {
	trades := make([]TradeFills, 0)
	index := make(map[uint]int)

	for _, row := range rows {
		i, ok := index[row.TradeID]
		if !ok {
			i = len(trades)
			index[row.TradeID] = i
			trades = append(trades, TradeFills{
				TradeID:   row.TradeID,
				Strategy:  row.StrategyName,
				OpenTime:  row.TradeOpenTime,
				CloseTime: row.TradeCloseTime,
				Contract:  row.Contract,
			})
		}
		if row.LegNo > trades[i].Legs {
			trades[i].Legs = row.LegNo
		}
		if row.HasFill() {
			trades[i].Fills = append(trades[i].Fills, row)
		}
	}

	return trades
}
