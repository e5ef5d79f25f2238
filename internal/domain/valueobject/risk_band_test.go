package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaultpay/fraud-inference/internal/domain/valueobject"
)

func TestRiskBandFromProbability(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		expected    valueobject.RiskBand
	}{
		{name: "zero probability is low", probability: 0.0, expected: valueobject.RiskBandLow},
		{name: "just below medium boundary", probability: 0.349, expected: valueobject.RiskBandLow},
		{name: "medium boundary", probability: 0.35, expected: valueobject.RiskBandMedium},
		{name: "high boundary", probability: 0.60, expected: valueobject.RiskBandHigh},
		{name: "just below critical", probability: 0.849, expected: valueobject.RiskBandHigh},
		{name: "critical boundary", probability: 0.85, expected: valueobject.RiskBandCritical},
		{name: "certain fraud", probability: 1.0, expected: valueobject.RiskBandCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band := valueobject.RiskBandFromProbability(tt.probability)
			assert.True(t, band.Equal(tt.expected), "got %s, want %s", band, tt.expected)
		})
	}
}

func TestRiskBandFromString(t *testing.T) {
	for _, s := range []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"} {
		band, err := valueobject.RiskBandFromString(s)
		assert.NoError(t, err)
		assert.Equal(t, s, band.String())
	}

	_, err := valueobject.RiskBandFromString("SEVERE")
	assert.Error(t, err)
}

func TestRiskBandIsZero(t *testing.T) {
	var band valueobject.RiskBand
	assert.True(t, band.IsZero())
	assert.False(t, valueobject.RiskBandLow.IsZero())
}
