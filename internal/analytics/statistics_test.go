package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatistics(t *testing.T) {
	s := []DailyPnL{
		{Date: day(2021, 1, 1), PnL: dec("40")},
		{Date: day(2021, 1, 5), PnL: dec("30")},
	}

	stats, err := ComputeStatistics(s, day(2021, 6, 30), true)
	require.NoError(t, err)

	r := stats.Round()
	assert.Equal(t, "70.00", r.CumulativePnL)
	assert.Equal(t, "70.00", r.YTDPnL)
	assert.Equal(t, 2, r.TradingDays)
	assert.Equal(t, "35.00", r.AvgDailyReturn)
	assert.Equal(t, "8820.00", r.AvgAnnualReturn)
	assert.Equal(t, "0.50", r.AvgTradesPerDay)
	// 70 / sqrt(50)
	assert.Equal(t, "9.90", r.Sharpe)
	assert.Empty(t, r.Undefined)
}

func TestComputeStatisticsYTD(t *testing.T) {
	s := []DailyPnL{
		{Date: day(2020, 12, 31), PnL: dec("100")},
		{Date: day(2021, 1, 1), PnL: dec("-25")},
		{Date: day(2021, 3, 1), PnL: dec("10")},
	}

	stats, err := ComputeStatistics(s, day(2021, 12, 31), false)
	require.NoError(t, err)
	assert.True(t, stats.YTDPnL.Equal(dec("-15")), "got %s", stats.YTDPnL)

	stats, err = ComputeStatistics(s, day(2022, 1, 1), false)
	require.NoError(t, err)
	assert.True(t, stats.YTDPnL.IsZero())
}

func TestComputeStatisticsEmpty(t *testing.T) {
	_, err := ComputeStatistics(nil, day(2021, 1, 1), false)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestComputeStatisticsSingleDay(t *testing.T) {
	s := series("50")

	_, err := ComputeStatistics(s, day(2021, 1, 1), true)
	assert.ErrorIs(t, err, ErrDivisionUndefined)

	stats, err := ComputeStatistics(s, day(2021, 1, 1), false)
	require.NoError(t, err)
	assert.True(t, stats.AvgTradesPerDay.IsZero())
	assert.True(t, stats.Sharpe.IsZero())
	assert.ElementsMatch(t, []string{MetricAvgTradesPerDay, MetricSharpe}, stats.Undefined)
	assert.Equal(t, "50.00", stats.Round().CumulativePnL)
}

func TestComputeStatisticsZeroVariance(t *testing.T) {
	s := series("10", "10", "10")

	_, err := ComputeStatistics(s, day(2021, 1, 1), true)
	assert.ErrorIs(t, err, ErrDivisionUndefined)

	stats, err := ComputeStatistics(s, day(2021, 1, 1), false)
	require.NoError(t, err)
	assert.Equal(t, []string{MetricSharpe}, stats.Undefined)
	// three days over a two-day span
	assert.Equal(t, "1.50", stats.Round().AvgTradesPerDay)
}

func TestStdDev(t *testing.T) {
	sd, err := StdDev(series("2", "4", "4", "4", "5", "5", "7", "9"))
	require.NoError(t, err)
	// sample variance 32/7
	assert.Equal(t, "2.138090", sd.StringFixed(6))
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	stats := &Statistics{
		CumulativePnL:  dec("1.005"),
		YTDPnL:         dec("-1.005"),
		AvgDailyReturn: dec("0.1249"),
	}
	r := stats.Round()
	assert.Equal(t, "1.01", r.CumulativePnL)
	assert.Equal(t, "-1.01", r.YTDPnL)
	assert.Equal(t, "0.12", r.AvgDailyReturn)
}
