package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DailyPnL is the realized P&L attributed to one calendar day
type DailyPnL struct {
	Date time.Time       `json:"-"`
	PnL  decimal.Decimal `json:"pnl"`
}

// Day formats the bucket date as YYYY-MM-DD
func (d DailyPnL) Day() string {
	return d.Date.Format(dateLayout)
}

// MarshalJSON emits {"date": "YYYY-MM-DD", "pnl": "..."}
func (d DailyPnL) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"date":%q,"pnl":%q}`, d.Day(), d.PnL.String())), nil
}

// UnmarshalJSON reads the form written by MarshalJSON
func (d *DailyPnL) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date string          `json:"date"`
		PnL  decimal.Decimal `json:"pnl"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(dateLayout, raw.Date)
	if err != nil {
		return err
	}
	d.Date, d.PnL = date, raw.PnL
	return nil
}

// Truncate returns midnight UTC of t's calendar day
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BucketDaily builds the realized P&L series. Each trade contributes the
// negation of its summed cash flow to the day it was opened. Days without
// trades are absent from the result, not zero.
func BucketDaily(trades []TradeFills) ([]DailyPnL, error) {
	buckets := make(map[time.Time]decimal.Decimal)

	for i := range trades {
		t := &trades[i]
		flow, ok := t.CashFlow()
		if !ok {
			return nil, fmt.Errorf("trade %d has an unpriced fill: %w", t.TradeID, ErrInsufficientData)
		}
		day := Truncate(t.OpenTime)
		buckets[day] = buckets[day].Add(flow.Neg())
	}

	series := make([]DailyPnL, 0, len(buckets))
	for day, pnl := range buckets {
		series = append(series, DailyPnL{Date: day, PnL: pnl})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series, nil
}
