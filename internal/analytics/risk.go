package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultConfidence is the VaR / expected shortfall confidence level
var DefaultConfidence = decimal.RequireFromString("0.95")

// RiskMetrics summarises downside risk of a daily P&L series
type RiskMetrics struct {
	MaxDrawdown       decimal.Decimal `json:"max_drawdown"`
	MaxDrawdownDate   *time.Time      `json:"max_drawdown_date"`
	VaR               decimal.Decimal `json:"var"`
	ExpectedShortfall decimal.Decimal `json:"expected_shortfall"`
	Confidence        decimal.Decimal `json:"confidence"`
	Observations      int             `json:"observations"`
}

// ComputeRisk measures the largest peak-to-trough fall of the cumulative P&L
// curve, and the historical VaR and expected shortfall of daily P&L at the
// given confidence. Losses are reported as positive amounts.
func ComputeRisk(series []DailyPnL, confidence decimal.Decimal) (*RiskMetrics, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("empty P&L series: %w", ErrInsufficientData)
	}

	out := &RiskMetrics{
		MaxDrawdown:  decimal.Zero,
		Confidence:   confidence,
		Observations: len(series),
	}

	// The curve starts flat at zero before the first bucket.
	equity, peak := decimal.Zero, decimal.Zero
	for _, d := range series {
		equity = equity.Add(d.PnL)
		if equity.GreaterThan(peak) {
			peak = equity
		}
		if dd := peak.Sub(equity); dd.GreaterThan(out.MaxDrawdown) {
			out.MaxDrawdown = dd
			date := d.Date
			out.MaxDrawdownDate = &date
		}
	}

	pnls := make([]decimal.Decimal, len(series))
	for i, d := range series {
		pnls[i] = d.PnL
	}
	sort.Slice(pnls, func(i, j int) bool { return pnls[i].LessThan(pnls[j]) })

	// tail holds the worst (1 - confidence) share of days, at least one
	tailShare := decimal.NewFromInt(1).Sub(confidence)
	tail := int(tailShare.Mul(decimal.NewFromInt(int64(len(pnls)))).Ceil().IntPart())
	if tail < 1 {
		tail = 1
	}
	if tail > len(pnls) {
		tail = len(pnls)
	}

	out.VaR = lossOf(pnls[tail-1])

	sum := decimal.Zero
	for _, p := range pnls[:tail] {
		sum = sum.Add(p)
	}
	out.ExpectedShortfall = lossOf(sum.DivRound(decimal.NewFromInt(int64(tail)), divPrecision))

	return out, nil
}

func lossOf(pnl decimal.Decimal) decimal.Decimal {
	if pnl.Sign() >= 0 {
		return decimal.Zero
	}
	return pnl.Neg()
}
