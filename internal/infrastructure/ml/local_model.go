// Package ml serves fraud probabilities from artifacts loaded off the
// local filesystem. Artifact load failures leave the model in a
// degraded state instead of failing the process so the rest of the
// service can keep answering health and dashboard traffic.
package ml

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vaultpay/fraud-inference/internal/domain/model"
	"github.com/vaultpay/fraud-inference/internal/infrastructure/artifact"
)

// ErrModelNotLoaded is returned by Predict while the service runs degraded.
var ErrModelNotLoaded = errors.New("ml: model resources not loaded")

// LocalModel implements port.Model on top of a fitted preprocessor and
// a boosted-tree classifier read from disk.
type LocalModel struct {
	mu           sync.RWMutex
	preprocessor *artifact.Preprocessor
	booster      *artifact.Booster
	loaded       bool
	logger       *slog.Logger
}

// NewLocalModel creates an unloaded model. Call LoadArtifacts before
// serving predictions; until then Ready reports false.
func NewLocalModel(logger *slog.Logger) *LocalModel {
	return &LocalModel{logger: logger}
}

// LoadArtifacts reads both artifacts and cross-checks that the
// preprocessor's output width matches what the classifier was trained
// on. On any error the model stays (or becomes) unloaded.
func (m *LocalModel) LoadArtifacts(preprocessorPath, modelPath string) error {
	pre, err := artifact.LoadPreprocessor(preprocessorPath)
	if err != nil {
		m.markUnloaded()
		return fmt.Errorf("ml: load preprocessor: %w", err)
	}

	booster, err := artifact.LoadBooster(modelPath)
	if err != nil {
		m.markUnloaded()
		return fmt.Errorf("ml: load model: %w", err)
	}

	if pre.Width() != booster.NumFeatures() {
		m.markUnloaded()
		return fmt.Errorf("ml: artifact mismatch: preprocessor emits %d features, model expects %d",
			pre.Width(), booster.NumFeatures())
	}

	m.mu.Lock()
	m.preprocessor = pre
	m.booster = booster
	m.loaded = true
	m.mu.Unlock()

	m.logger.Info("model artifacts loaded",
		slog.String("model_version", booster.Version()),
		slog.Int("features", booster.NumFeatures()),
	)
	return nil
}

// Ready reports whether both artifacts are loaded and consistent.
func (m *LocalModel) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Version returns the loaded classifier's version, or empty while degraded.
func (m *LocalModel) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.loaded {
		return ""
	}
	return m.booster.Version()
}

// Predict transforms one transaction and returns P(fraud).
func (m *LocalModel) Predict(ctx context.Context, txn model.Transaction) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	pre, booster, loaded := m.preprocessor, m.booster, m.loaded
	m.mu.RUnlock()

	if !loaded {
		return 0, ErrModelNotLoaded
	}

	features, err := pre.Transform(txn)
	if err != nil {
		return 0, fmt.Errorf("ml: transform transaction: %w", err)
	}

	probability, err := booster.PredictProbability(features)
	if err != nil {
		return 0, fmt.Errorf("ml: score transaction: %w", err)
	}
	return probability, nil
}

func (m *LocalModel) markUnloaded() {
	m.mu.Lock()
	m.loaded = false
	m.mu.Unlock()
}
