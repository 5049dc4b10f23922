package repository_test

import (
	"context"
	"testing"

	"github.com/strategy-ledger/internal/ledgertest"
	"github.com/strategy-ledger/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyRepositoryGetInfo(t *testing.T) {
	store := ledgertest.NewStore(t)
	fx := ledgertest.Seed(t, store)
	repo := repository.NewStrategyRepository(store)
	ctx := context.Background()

	one, err := repo.GetInfo(ctx, "MeanReversion")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, fx.MeanReversion.ID, one[0].ID)
	assert.Equal(t, "github.com/ledger/MeanReversion", one[0].DocumentationLink)

	all, err := repo.GetInfo(ctx, repository.AllStrategies)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.GetInfo(ctx, "meanreversion")
	assert.ErrorIs(t, err, repository.ErrStrategyNotFound)
}

func TestStrategyRepositoryGetInfoEmptyLedger(t *testing.T) {
	repo := repository.NewStrategyRepository(ledgertest.NewStore(t))
	ctx := context.Background()

	all, err := repo.GetInfo(ctx, repository.AllStrategies)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	_, err = repo.GetInfo(ctx, "MeanReversion")
	assert.ErrorIs(t, err, repository.ErrStrategyNotFound)
}

func TestStrategyRepositoryGetByName(t *testing.T) {
	store := ledgertest.NewStore(t)
	fx := ledgertest.Seed(t, store)
	repo := repository.NewStrategyRepository(store)

	s, err := repo.GetByName(context.Background(), "Retired")
	require.NoError(t, err)
	assert.Equal(t, fx.Retired.ID, s.ID)
	assert.False(t, s.IsActive())

	_, err = repo.GetByName(context.Background(), "Nope")
	assert.ErrorIs(t, err, repository.ErrStrategyNotFound)
}

func TestStrategyRepositoryExists(t *testing.T) {
	store := ledgertest.NewStore(t)
	ledgertest.Seed(t, store)
	repo := repository.NewStrategyRepository(store)

	ok, err := repo.Exists(context.Background(), "Idle")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), "Nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStrategyRepositoryListActive(t *testing.T) {
	store := ledgertest.NewStore(t)
	ledgertest.Seed(t, store)
	repo := repository.NewStrategyRepository(store)

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "MeanReversion", active[0].Name)
	assert.Equal(t, "Idle", active[1].Name)
}
