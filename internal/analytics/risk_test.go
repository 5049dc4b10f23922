package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRisk(t *testing.T) {
	s := series("100", "-30", "-50", "40", "-10", "20")

	got, err := ComputeRisk(s, DefaultConfidence)
	require.NoError(t, err)

	// equity 100, 70, 20, 60, 50, 70: deepest trough is day three
	assert.True(t, got.MaxDrawdown.Equal(dec("80")), "got %s", got.MaxDrawdown)
	require.NotNil(t, got.MaxDrawdownDate)
	assert.True(t, got.MaxDrawdownDate.Equal(day(2021, 1, 3)))

	// 5% of six days rounds up to the single worst day
	assert.True(t, got.VaR.Equal(dec("50")), "got %s", got.VaR)
	assert.True(t, got.ExpectedShortfall.Equal(dec("50")), "got %s", got.ExpectedShortfall)
	assert.Equal(t, 6, got.Observations)
}

func TestComputeRiskWiderTail(t *testing.T) {
	s := series("100", "-30", "-50", "40", "-10", "20")

	got, err := ComputeRisk(s, dec("0.5"))
	require.NoError(t, err)
	// worst three days: -50, -30, -10
	assert.True(t, got.VaR.Equal(dec("10")), "got %s", got.VaR)
	assert.True(t, got.ExpectedShortfall.Equal(dec("30")), "got %s", got.ExpectedShortfall)
}

func TestComputeRiskOnlyGains(t *testing.T) {
	got, err := ComputeRisk(series("5", "10", "15"), DefaultConfidence)
	require.NoError(t, err)
	assert.True(t, got.MaxDrawdown.IsZero())
	assert.Nil(t, got.MaxDrawdownDate)
	assert.True(t, got.VaR.IsZero())
	assert.True(t, got.ExpectedShortfall.IsZero())
}

func TestComputeRiskEmpty(t *testing.T) {
	_, err := ComputeRisk(nil, DefaultConfidence)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
