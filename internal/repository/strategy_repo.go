package repository

import (
	"context"
	"errors"

	"github.com/strategy-ledger/internal/models"
	"gorm.io/gorm"
)

// AllStrategies is the wildcard accepted wherever a strategy name is expected
const AllStrategies = "*"

var (
	ErrStrategyNotFound = errors.New("strategy not found")
)

// StrategyRepository reads strategy metadata
type StrategyRepository struct {
	store *Store
}

// NewStrategyRepository creates a new StrategyRepository
func NewStrategyRepository(store *Store) *StrategyRepository {
	return &StrategyRepository{store: store}
}

// GetInfo returns the named strategy, or every strategy for AllStrategies.
// The match is exact and case-sensitive. Only a name can be not found; the
// wildcard over an empty table is an empty list.
func (r *StrategyRepository) GetInfo(ctx context.Context, name string) ([]models.Strategy, error) {
	strategies := make([]models.Strategy, 0)
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		q := tx.Model(&models.Strategy{})
		if name != AllStrategies {
			q = q.Where("strategy_name = ?", name)
		}
		return q.Order("strategy_id").Find(&strategies).Error
	})
	if err != nil {
		return nil, err
	}
	if len(strategies) == 0 && name != AllStrategies {
		return nil, ErrStrategyNotFound
	}
	return strategies, nil
}

// GetByName retrieves a single strategy by name
func (r *StrategyRepository) GetByName(ctx context.Context, name string) (*models.Strategy, error) {
	var strategy models.Strategy
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where("strategy_name = ?", name).First(&strategy).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStrategyNotFound
		}
		return nil, err
	}
	return &strategy, nil
}

// Exists is the cheap existence check run before heavier queries
func (r *StrategyRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return tx.Model(&models.Strategy{}).
			Where("strategy_name = ?", name).
			Limit(1).
			Count(&count).Error
	})
	return count > 0, err
}

// ListActive retrieves all strategies without a termination date
func (r *StrategyRepository) ListActive(ctx context.Context) ([]models.Strategy, error) {
	var strategies []models.Strategy
	err := r.store.Do(ctx, func(tx *gorm.DB) error {
		return tx.Where("termination_date IS NULL").Order("strategy_id").Find(&strategies).Error
	})
	return strategies, err
}
