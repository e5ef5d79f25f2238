package ml_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpay/fraud-inference/internal/domain/model"
	"github.com/vaultpay/fraud-inference/internal/infrastructure/ml"
	"github.com/vaultpay/fraud-inference/pkg/testutil"
)

const testPreprocessor = `{
	"schema_version": 1,
	"numeric": {"columns": ["amount"], "mean": [1000.0], "scale": [500.0]},
	"categorical": {
		"columns": ["state", "card_type"],
		"categories": {
			"state": ["Telangana", "Maharashtra"],
			"card_type": ["Rupay", "Visa"]
		},
		"handle_unknown": "ignore"
	}
}`

const testBooster = `{
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

func writeArtifacts(t *testing.T, preprocessor, booster string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	prePath := filepath.Join(dir, "preprocessor.json")
	modelPath := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(prePath, []byte(preprocessor), 0o644))
	require.NoError(t, os.WriteFile(modelPath, []byte(booster), 0o644))
	return prePath, modelPath
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalModel_LoadArtifacts(t *testing.T) {
	t.Run("loads matching artifacts", func(t *testing.T) {
		prePath, modelPath := writeArtifacts(t, testPreprocessor, testBooster)
		m := ml.NewLocalModel(discardLogger())

		require.NoError(t, m.LoadArtifacts(prePath, modelPath))
		assert.True(t, m.Ready())
		assert.Equal(t, "fraud-xgb-2024-11", m.Version())
	})

	t.Run("missing preprocessor leaves model degraded", func(t *testing.T) {
		_, modelPath := writeArtifacts(t, testPreprocessor, testBooster)
		m := ml.NewLocalModel(discardLogger())

		err := m.LoadArtifacts(filepath.Join(t.TempDir(), "absent.json"), modelPath)
		require.Error(t, err)
		assert.False(t, m.Ready())
		assert.Empty(t, m.Version())
	})

	t.Run("width mismatch leaves model degraded", func(t *testing.T) {
		narrow := `{
			"schema_version": 1,
			"numeric": {"columns": ["amount"], "mean": [0.0], "scale": [1.0]},
			"categorical": {"columns": [], "categories": {}}
		}`
		prePath, modelPath := writeArtifacts(t, narrow, testBooster)
		m := ml.NewLocalModel(discardLogger())

		err := m.LoadArtifacts(prePath, modelPath)
		testutil.AssertErrorContains(t, err, "artifact mismatch")
		assert.False(t, m.Ready())
	})
}

func TestLocalModel_Predict(t *testing.T) {
	prePath, modelPath := writeArtifacts(t, testPreprocessor, testBooster)
	m := ml.NewLocalModel(discardLogger())
	require.NoError(t, m.LoadArtifacts(prePath, modelPath))

	txn := model.Transaction{
		Amount:   decimal.NewFromInt(2000),
		State:    "Telangana",
		CardType: "Rupay",
		Bank:     "ICICI Bank",
		Category: "Transportation",
		Location: "Bangalore",
	}

	t.Run("scores a transaction", func(t *testing.T) {
		p, err := m.Predict(context.Background(), txn)
		require.NoError(t, err)
		testutil.AssertProbability(t, p)
		assert.InDelta(t, 0.832018385, p, 1e-9)
	})

	t.Run("unloaded model returns sentinel", func(t *testing.T) {
		degraded := ml.NewLocalModel(discardLogger())

		_, err := degraded.Predict(context.Background(), txn)
		assert.ErrorIs(t, err, ml.ErrModelNotLoaded)
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := m.Predict(ctx, txn)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
