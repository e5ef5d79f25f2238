package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaultpay/fraud-inference/internal/domain/valueobject"
)

func TestLabelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.Label
		wantErr  bool
	}{
		{input: "LEGITIMATE", expected: valueobject.LabelLegitimate},
		{input: "FRAUD", expected: valueobject.LabelFraud},
		{input: "fraud", wantErr: true},
		{input: "", wantErr: true},
		{input: "UNKNOWN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			label, err := valueobject.LabelFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, label.Equal(tt.expected))
		})
	}
}

func TestLabelFromProbability(t *testing.T) {
	assert.True(t, valueobject.LabelFromProbability(0.5, 0.5).IsFraud())
	assert.True(t, valueobject.LabelFromProbability(0.99, 0.5).IsFraud())
	assert.False(t, valueobject.LabelFromProbability(0.49, 0.5).IsFraud())
	assert.False(t, valueobject.LabelFromProbability(0.0, 0.5).IsFraud())

	// Threshold is configurable; the boundary moves with it.
	assert.False(t, valueobject.LabelFromProbability(0.5, 0.8).IsFraud())
	assert.True(t, valueobject.LabelFromProbability(0.8, 0.8).IsFraud())
}

func TestLabelClass(t *testing.T) {
	assert.Equal(t, 0, valueobject.LabelLegitimate.Class())
	assert.Equal(t, 1, valueobject.LabelFraud.Class())
}

func TestLabelIsZero(t *testing.T) {
	var label valueobject.Label
	assert.True(t, label.IsZero())
	assert.False(t, valueobject.LabelFraud.IsZero())
}
