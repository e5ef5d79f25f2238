package artifact_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/vaultpay/fraud-inference/internal/infrastructure/artifact"
)

// Two stumps over a 5-wide vector: one splits on the scaled amount,
// the other on the first state indicator. base_score 0.5 keeps the
// base margin at zero so leaf sums are easy to check by hand.
const trainedBooster = `{
	"model_version": "fraud-xgb-2024-11",
	"objective": "binary:logistic",
	"base_score": 0.5,
	"num_features": 5,
	"trees": [
		{"nodes": [
			{"feature": 0, "threshold": 1.5, "left": 1, "right": 2, "default_left": true},
			{"leaf": -1.0},
			{"leaf": 1.0}
		]},
		{"nodes": [
			{"feature": 1, "threshold": 0.5, "left": 1, "right": 2, "default_left": false},
			{"leaf": -0.4},
			{"leaf": 0.6}
		]}
	]
}`

func TestParseBooster(t *testing.T) {
	b, err := artifact.ParseBooster([]byte(trainedBooster))

	require.NoError(t, err)
	assert.Equal(t, 5, b.NumFeatures())
	assert.Equal(t, "fraud-xgb-2024-11", b.Version())
}

func TestParseBooster_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "not json",
			doc:     "pickle",
			wantErr: "decode model",
		},
		{
			name:    "unsupported objective",
			doc:     `{"model_version":"v1","objective":"reg:squarederror","base_score":0.5,"num_features":1,"trees":[{"nodes":[{"leaf":0.1}]}]}`,
			wantErr: `unsupported objective "reg:squarederror"`,
		},
		{
			name:    "base score out of range",
			doc:     `{"model_version":"v1","objective":"binary:logistic","base_score":1.0,"num_features":1,"trees":[{"nodes":[{"leaf":0.1}]}]}`,
			wantErr: "base score must be in (0, 1)",
		},
		{
			name:    "no trees",
			doc:     `{"model_version":"v1","objective":"binary:logistic","base_score":0.5,"num_features":1,"trees":[]}`,
			wantErr: "model has no trees",
		},
		{
			name:    "missing model version",
			doc:     `{"objective":"binary:logistic","base_score":0.5,"num_features":1,"trees":[{"nodes":[{"leaf":0.1}]}]}`,
			wantErr: "model_version is required",
		},
		{
			name:    "split references feature beyond vector",
			doc:     `{"model_version":"v1","objective":"binary:logistic","base_score":0.5,"num_features":1,"trees":[{"nodes":[{"feature":3,"threshold":0.5,"left":1,"right":2},{"leaf":0.1},{"leaf":0.2}]}]}`,
			wantErr: "references feature 3 of 1",
		},
		{
			name:    "child index out of range",
			doc:     `{"model_version":"v1","objective":"binary:logistic","base_score":0.5,"num_features":1,"trees":[{"nodes":[{"feature":0,"threshold":0.5,"left":1,"right":9},{"leaf":0.1}]}]}`,
			wantErr: "out-of-range children",
		},
		{
			name:    "self-referential split",
			doc:     `{"model_version":"v1","objective":"binary:logistic","base_score":0.5,"num_features":1,"trees":[{"nodes":[{"feature":0,"threshold":0.5,"left":0,"right":1},{"leaf":0.1}]}]}`,
			wantErr: "self-referential",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := artifact.ParseBooster([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBooster_PredictProbability(t *testing.T) {
	b, err := artifact.ParseBooster([]byte(trainedBooster))
	require.NoError(t, err)

	t.Run("high amount in an indicated state scores as fraud", func(t *testing.T) {
		// margin = 1.0 (amount stump) + 0.6 (state stump) = 1.6
		x := mat.NewVecDense(5, []float64{2.0, 1, 0, 1, 0})

		p, err := b.PredictProbability(x)
		require.NoError(t, err)
		assert.InDelta(t, 0.832018385, p, 1e-9)
	})

	t.Run("low amount elsewhere scores as legitimate", func(t *testing.T) {
		// margin = -1.0 + -0.4 = -1.4
		x := mat.NewVecDense(5, []float64{-1.0, 0, 1, 0, 1})

		p, err := b.PredictProbability(x)
		require.NoError(t, err)
		assert.InDelta(t, 0.197816111, p, 1e-9)
	})

	t.Run("missing value follows the default direction", func(t *testing.T) {
		// NaN on feature 0 goes left (default_left true): -1.0.
		// Feature 1 is present and above 0.5: +0.6. margin = -0.4.
		x := mat.NewVecDense(5, []float64{math.NaN(), 1, 0, 0, 0})

		p, err := b.PredictProbability(x)
		require.NoError(t, err)
		assert.InDelta(t, 1/(1+math.Exp(0.4)), p, 1e-9)
	})

	t.Run("threshold is a strict less-than split", func(t *testing.T) {
		// Exactly at the threshold goes right on both stumps.
		x := mat.NewVecDense(5, []float64{1.5, 0.5, 0, 0, 0})

		p, err := b.PredictProbability(x)
		require.NoError(t, err)
		assert.InDelta(t, 1/(1+math.Exp(-1.6)), p, 1e-9)
	})

	t.Run("rejects a vector of the wrong width", func(t *testing.T) {
		_, err := b.PredictProbability(mat.NewVecDense(3, []float64{1, 0, 0}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model expects 5")
	})
}

func TestLoadBooster(t *testing.T) {
	t.Run("loads from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.json")
		require.NoError(t, os.WriteFile(path, []byte(trainedBooster), 0o644))

		b, err := artifact.LoadBooster(path)
		require.NoError(t, err)
		assert.Equal(t, "fraud-xgb-2024-11", b.Version())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := artifact.LoadBooster(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read model")
	})
}
