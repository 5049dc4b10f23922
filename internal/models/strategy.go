package models

import (
	"time"
)

// Strategy is a trading strategy registered in the ledger
type Strategy struct {
	ID                uint       `gorm:"column:strategy_id;primaryKey" json:"strategy_id"`
	Name              string     `gorm:"column:strategy_name;size:100;uniqueIndex;not null" json:"strategy_name"`
	DocumentationLink string     `gorm:"column:documentation_link;size:255" json:"documentation_link"`
	LaunchDate        time.Time  `gorm:"column:launch_date" json:"launch_date"`
	TerminationDate   *time.Time `gorm:"column:termination_date" json:"termination_date"`
}

// TableName specifies the table name for Strategy model
func (Strategy) TableName() string {
	return "strategy"
}

// IsActive reports whether the strategy is still running
func (s *Strategy) IsActive() bool {
	return s.TerminationDate == nil
}

// StrategyStatus is a snapshot of a strategy's current state
type StrategyStatus struct {
	StrategyName string `json:"strategy_name"`
	StrategyID   uint   `json:"strategy_id"`
	ActiveTrades int    `json:"active_trades"`
	CapitalUsage string `json:"capital_usage"`
	RunningOn    string `json:"running_on"`
}
