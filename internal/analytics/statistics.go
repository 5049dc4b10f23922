package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// TradingDaysPerYear annualises the average daily return
const TradingDaysPerYear = 252

// precision used for intermediate divisions and the square root
const divPrecision = 24

// Statistics holds full-precision performance metrics for one P&L series
type Statistics struct {
	CumulativePnL   decimal.Decimal
	YTDPnL          decimal.Decimal
	TradingDays     int
	AvgDailyReturn  decimal.Decimal
	AvgAnnualReturn decimal.Decimal
	AvgTradesPerDay decimal.Decimal
	Sharpe          decimal.Decimal

	// Undefined names the metrics reported as zero because their divisor was zero
	Undefined []string
}

// Metric names used in Statistics.Undefined
const (
	MetricAvgTradesPerDay = "avg_trades_per_day"
	MetricSharpe          = "sharpe"
)

// ComputeStatistics derives the performance metrics of an ascending series.
// now fixes the start of the current year for the YTD figure. In strict mode a
// zero divisor fails the whole call with ErrDivisionUndefined; otherwise the
// metric is zeroed and listed in Undefined.
func ComputeStatistics(series []DailyPnL, now time.Time, strict bool) (*Statistics, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("empty P&L series: %w", ErrInsufficientData)
	}

	stats := &Statistics{
		CumulativePnL: Cumulative(series),
		YTDPnL:        YearToDate(series, now),
		TradingDays:   len(series),
	}

	days := decimal.NewFromInt(int64(stats.TradingDays))
	stats.AvgDailyReturn = stats.CumulativePnL.DivRound(days, divPrecision)
	stats.AvgAnnualReturn = stats.AvgDailyReturn.Mul(decimal.NewFromInt(TradingDaysPerYear))

	perDay, err := TradesPerDay(series)
	if err != nil {
		if strict {
			return nil, err
		}
		stats.Undefined = append(stats.Undefined, MetricAvgTradesPerDay)
	}
	stats.AvgTradesPerDay = perDay

	sharpe, err := Sharpe(series)
	if err != nil {
		if strict {
			return nil, err
		}
		stats.Undefined = append(stats.Undefined, MetricSharpe)
	}
	stats.Sharpe = sharpe

	return stats, nil
}

// Cumulative sums every bucket of the series
func Cumulative(series []DailyPnL) decimal.Decimal {
	total := decimal.Zero
	for _, d := range series {
		total = total.Add(d.PnL)
	}
	return total
}

// YearToDate sums buckets dated on or after January 1 of now's year
func YearToDate(series []DailyPnL, now time.Time) decimal.Decimal {
	start := time.Date(now.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	total := decimal.Zero
	for _, d := range series {
		if !d.Date.Before(start) {
			total = total.Add(d.PnL)
		}
	}
	return total
}

// TradesPerDay divides the number of trading days by the calendar span of
// the series in days. A single-day span has no defined rate.
func TradesPerDay(series []DailyPnL) (decimal.Decimal, error) {
	if len(series) == 0 {
		return decimal.Zero, ErrInsufficientData
	}
	first, last := series[0].Date, series[len(series)-1].Date
	span := int64(last.Sub(first).Hours() / 24)
	if span <= 0 {
		return decimal.Zero, fmt.Errorf("%s over a zero-day span: %w", MetricAvgTradesPerDay, ErrDivisionUndefined)
	}
	return decimal.NewFromInt(int64(len(series))).DivRound(decimal.NewFromInt(span), divPrecision), nil
}

// Sharpe is cumulative P&L over the sample standard deviation of daily P&L
func Sharpe(series []DailyPnL) (decimal.Decimal, error) {
	sd, err := StdDev(series)
	if err != nil {
		return decimal.Zero, err
	}
	return Cumulative(series).DivRound(sd, divPrecision), nil
}

// StdDev is the sample standard deviation of the daily P&L values. It fails
// with ErrDivisionUndefined when the series has no variance.
func StdDev(series []DailyPnL) (decimal.Decimal, error) {
	if len(series) < 2 {
		return decimal.Zero, fmt.Errorf("%s needs two distinct daily values: %w", MetricSharpe, ErrDivisionUndefined)
	}

	distinct := false
	for _, d := range series[1:] {
		if !d.PnL.Equal(series[0].PnL) {
			distinct = true
			break
		}
	}
	if !distinct {
		return decimal.Zero, fmt.Errorf("%s over a zero-variance series: %w", MetricSharpe, ErrDivisionUndefined)
	}

	n := decimal.NewFromInt(int64(len(series)))
	mean := Cumulative(series).DivRound(n, divPrecision)

	sumSq := decimal.Zero
	for _, d := range series {
		diff := d.PnL.Sub(mean)
		sumSq = sumSq.Add(diff.Mul(diff))
	}

	variance := sumSq.DivRound(n.Sub(decimal.NewFromInt(1)), divPrecision)
	return sqrt(variance), nil
}

// sqrt runs Newton's method seeded from the float64 root
func sqrt(v decimal.Decimal) decimal.Decimal {
	if v.Sign() <= 0 {
		return decimal.Zero
	}
	x := v
	if f, _ := v.Float64(); f > 0 && !math.IsInf(f, 0) {
		if root := math.Sqrt(f); root > 0 {
			x = decimal.NewFromFloat(root)
		}
	}
	two := decimal.NewFromInt(2)
	for i := 0; i < 64; i++ {
		next := x.Add(v.DivRound(x, divPrecision)).DivRound(two, divPrecision)
		if next.Equal(x) {
			break
		}
		x = next
	}
	return x
}

// Rounded is the response form of Statistics: every metric fixed to 2 dp
type Rounded struct {
	CumulativePnL   string   `json:"cumulative_pnl"`
	YTDPnL          string   `json:"ytd_pnl"`
	TradingDays     int      `json:"trading_days"`
	AvgDailyReturn  string   `json:"avg_daily_return"`
	AvgAnnualReturn string   `json:"avg_annual_return"`
	AvgTradesPerDay string   `json:"avg_trades_per_day"`
	Sharpe          string   `json:"sharpe"`
	Undefined       []string `json:"undefined,omitempty"`
}

// Round fixes every metric to two decimal places
func (s *Statistics) Round() Rounded {
	return Rounded{
		CumulativePnL:   s.CumulativePnL.StringFixed(2),
		YTDPnL:          s.YTDPnL.StringFixed(2),
		TradingDays:     s.TradingDays,
		AvgDailyReturn:  s.AvgDailyReturn.StringFixed(2),
		AvgAnnualReturn: s.AvgAnnualReturn.StringFixed(2),
		AvgTradesPerDay: s.AvgTradesPerDay.StringFixed(2),
		Sharpe:          s.Sharpe.StringFixed(2),
		Undefined:       s.Undefined,
	}
}
