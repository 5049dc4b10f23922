package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/strategy-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketDailySingleRoundTrip(t *testing.T) {
	b := &rowBuilder{}
	open := at(2021, 1, 1, 9)
	rows := []models.FillRow{
		b.row(1, open, 1, "GME", "100", price("10.00")),
		b.row(1, open, 1, "GME", "-100", price("10.50")),
	}

	got, err := BucketDaily(GroupTrades(rows))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2021-01-01", got[0].Day())
	assert.True(t, got[0].PnL.Equal(dec("50")), "got %s", got[0].PnL)
}

func TestBucketDailyFillOrderDoesNotMatter(t *testing.T) {
	b := &rowBuilder{}
	open := at(2021, 1, 1, 9)
	rows := []models.FillRow{
		b.row(1, open, 1, "GME", "100", price("10.00")),
		b.row(1, open, 1, "GME", "-40", price("10.25")),
		b.row(1, open, 1, "GME", "-60", price("10.75")),
	}
	reversed := []models.FillRow{rows[2], rows[1], rows[0]}

	forward, err := BucketDaily(GroupTrades(rows))
	require.NoError(t, err)
	backward, err := BucketDaily(GroupTrades(reversed))
	require.NoError(t, err)

	require.Len(t, forward, 1)
	require.Len(t, backward, 1)
	assert.True(t, forward[0].PnL.Equal(backward[0].PnL))
	assert.True(t, forward[0].PnL.Equal(dec("55")), "got %s", forward[0].PnL)
}

func TestBucketDailyUsesOpenDayAndSkipsGaps(t *testing.T) {
	b := &rowBuilder{}
	rows := []models.FillRow{
		// opened late on the 1st, closed on the 2nd: still the 1st
		b.row(1, at(2021, 1, 1, 23), 1, "GME", "1", price("10")),
		b.row(1, at(2021, 1, 1, 23), 1, "GME", "-1", price("12")),
		b.row(2, at(2021, 1, 1, 10), 1, "AMC", "1", price("5")),
		b.row(2, at(2021, 1, 1, 10), 1, "AMC", "-1", price("4")),
		b.row(3, at(2021, 1, 5, 10), 1, "SPY", "1", price("300")),
		b.row(3, at(2021, 1, 5, 10), 1, "SPY", "-1", price("303")),
	}

	got, err := BucketDaily(GroupTrades(rows))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2021-01-01", got[0].Day())
	assert.True(t, got[0].PnL.Equal(dec("1")), "got %s", got[0].PnL)
	assert.Equal(t, "2021-01-05", got[1].Day())
	assert.True(t, got[1].PnL.Equal(dec("3")), "got %s", got[1].PnL)
}

func TestBucketDailyTruncatesToUTC(t *testing.T) {
	b := &rowBuilder{}
	tokyo := time.FixedZone("JST", 9*60*60)
	open := time.Date(2021, 1, 2, 8, 0, 0, 0, tokyo) // 2021-01-01 23:00 UTC
	rows := []models.FillRow{
		b.row(1, open, 1, "GME", "1", price("10")),
		b.row(1, open, 1, "GME", "-1", price("11")),
	}

	got, err := BucketDaily(GroupTrades(rows))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2021-01-01", got[0].Day())
}

func TestBucketDailyUnpricedFill(t *testing.T) {
	b := &rowBuilder{}
	open := at(2021, 1, 1, 9)
	rows := []models.FillRow{
		b.row(1, open, 1, "GME", "100", price("10.00")),
		b.row(1, open, 1, "GME", "-100", decimal.NullDecimal{}),
	}

	_, err := BucketDaily(GroupTrades(rows))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestBucketDailyEmpty(t *testing.T) {
	got, err := BucketDaily(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDailyPnLJSON(t *testing.T) {
	raw, err := json.Marshal([]DailyPnL{{Date: day(2021, 1, 5), PnL: dec("30.5")}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2021-01-05","pnl":"30.5"}]`, string(raw))
}

func TestDailyPnLJSONRoundTrip(t *testing.T) {
	in := DailyPnL{Date: day(2021, 1, 5), PnL: dec("-12.25")}
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out DailyPnL
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.True(t, in.Date.Equal(out.Date))
	assert.True(t, in.PnL.Equal(out.PnL))
}
