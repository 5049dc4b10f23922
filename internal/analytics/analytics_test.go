package analytics

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/strategy-ledger/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func at(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}

// row builds one join row; fill ids increase with call order
type rowBuilder struct {
	nextFill uint
}

func (b *rowBuilder) row(tradeID uint, open time.Time, legNo int, contract, qty string, avg decimal.NullDecimal) models.FillRow {
	b.nextFill++
	return models.FillRow{
		StrategyID:    1,
		StrategyName:  "MeanReversion",
		TradeID:       tradeID,
		TradeOpenTime: open,
		LegNo:         legNo,
		Contract:      contract,
		FillID:        b.nextFill,
		Qty:           dec(qty),
		Avg:           avg,
		PlacementTime: &open,
	}
}

func series(values ...string) []DailyPnL {
	out := make([]DailyPnL, len(values))
	for i, v := range values {
		out[i] = DailyPnL{Date: day(2021, 1, 1).AddDate(0, 0, i), PnL: dec(v)}
	}
	return out
}
