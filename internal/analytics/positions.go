package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// OpenTrade is the exposure summary of one open trade
type OpenTrade struct {
	TradeID               uint            `json:"trade_id"`
	OpenTime              time.Time       `json:"open_time"`
	Contract              string          `json:"contract"`
	LegsCount             int             `json:"legs_count"`
	FillsCount            int             `json:"fills_count"`
	CapitalUsage          decimal.Decimal `json:"capital_usage"`
	CapitalUsageAvailable bool            `json:"capital_usage_available"`
}

// OpenPositions is a strategy's open exposure
type OpenPositions struct {
	Trades            []OpenTrade     `json:"trades"`
	ActiveTrades      int             `json:"active_trades"`
	TotalCapitalUsage decimal.Decimal `json:"total_capital_usage"`
}

// AggregateOpenPositions summarises open trades. Trades whose capital usage
// cannot be computed contribute zero and are flagged, they do not fail the call.
func AggregateOpenPositions(trades []TradeFills) OpenPositions {
	out := OpenPositions{
		Trades:            make([]OpenTrade, 0, len(trades)),
		TotalCapitalUsage: decimal.Zero,
	}

	for i := range trades {
		t := &trades[i]
		usage, ok := t.CashFlow()
		if !ok {
			usage = decimal.Zero
		}
		out.Trades = append(out.Trades, OpenTrade{
			TradeID:               t.TradeID,
			OpenTime:              t.OpenTime,
			Contract:              t.Contract,
			LegsCount:             t.LegsCount(),
			FillsCount:            len(t.Fills),
			CapitalUsage:          usage,
			CapitalUsageAvailable: ok,
		})
		out.TotalCapitalUsage = out.TotalCapitalUsage.Add(usage)
	}

	sort.SliceStable(out.Trades, func(i, j int) bool {
		a, b := out.Trades[i], out.Trades[j]
		if !a.OpenTime.Equal(b.OpenTime) {
			return a.OpenTime.Before(b.OpenTime)
		}
		return a.TradeID < b.TradeID
	})
	out.ActiveTrades = len(out.Trades)

	return out
}

// ClosedTrade is a historical trade with its realized P&L
type ClosedTrade struct {
	TradeID      uint            `json:"trade_id"`
	OpenTime     time.Time       `json:"open_time"`
	CloseTime    *time.Time      `json:"close_time"`
	Contract     string          `json:"contract"`
	LegsCount    int             `json:"legs_count"`
	FillsCount   int             `json:"fills_count"`
	PnL          decimal.Decimal `json:"pnl"`
	PnLAvailable bool            `json:"pnl_available"`
}

// SummariseClosedTrades mirrors AggregateOpenPositions for closed trades,
// reporting the negated cash flow as realized P&L.
func SummariseClosedTrades(trades []TradeFills) []ClosedTrade {
	out := make([]ClosedTrade, 0, len(trades))
	for i := range trades {
		t := &trades[i]
		flow, ok := t.CashFlow()
		pnl := decimal.Zero
		if ok {
			pnl = flow.Neg()
		}
		out = append(out, ClosedTrade{
			TradeID:      t.TradeID,
			OpenTime:     t.OpenTime,
			CloseTime:    t.CloseTime,
			Contract:     t.Contract,
			LegsCount:    t.LegsCount(),
			FillsCount:   len(t.Fills),
			PnL:          pnl,
			PnLAvailable: ok,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OpenTime.Equal(out[j].OpenTime) {
			return out[i].OpenTime.Before(out[j].OpenTime)
		}
		return out[i].TradeID < out[j].TradeID
	})
	return out
}
