package service_test

import (
	"context"
	"testing"

	"github.com/strategy-ledger/internal/ledgertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveStrategies(t *testing.T) {
	s := newServices(t, ledgertest.Date(2021, 6, 30))

	active, err := s.portfolio.ActiveStrategies(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "MeanReversion", active[0].Name)
	assert.Equal(t, "Idle", active[1].Name)
}

func TestTopOfBook(t *testing.T) {
	s := newServices(t, ledgertest.Date(2021, 6, 30))

	book, err := s.portfolio.TopOfBook(context.Background())
	require.NoError(t, err)
	require.Len(t, book.Strategies, 2)
	assert.Equal(t, "MeanReversion", book.Strategies[0].Strategy)
	assert.Equal(t, 2, book.Strategies[0].ActiveTrades)
	assert.Equal(t, "Idle", book.Strategies[1].Strategy)
	assert.Empty(t, book.Strategies[1].Trades)
	assert.Equal(t, 2, book.ActiveTrades)
	assert.True(t, book.TotalCapitalUsage.Equal(ledgertest.Dec("7210")))
}

func TestTopOfBookCancelled(t *testing.T) {
	s := newServices(t, ledgertest.Date(2021, 6, 30))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.portfolio.TopOfBook(ctx)
	assert.Error(t, err)
}
