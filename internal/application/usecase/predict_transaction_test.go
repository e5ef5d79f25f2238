package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpay/fraud-inference/internal/application/dto"
	"github.com/vaultpay/fraud-inference/internal/application/usecase"
	"github.com/vaultpay/fraud-inference/internal/domain/event"
	"github.com/vaultpay/fraud-inference/internal/domain/model"
	"github.com/vaultpay/fraud-inference/pkg/events"
)

// --- Mock implementations ---

type mockPredictionRepository struct {
	savedPrediction *model.Prediction
	saveFunc        func(ctx context.Context, prediction *model.Prediction) error
	findByIDFunc    func(ctx context.Context, id uuid.UUID) (*model.Prediction, error)
	listRecentFunc  func(ctx context.Context, limit, offset int) ([]*model.Prediction, error)
}

func (m *mockPredictionRepository) Save(ctx context.Context, prediction *model.Prediction) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, prediction)
	}
	m.savedPrediction = prediction
	return nil
}

func (m *mockPredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPredictionRepository) ListRecent(ctx context.Context, limit, offset int) ([]*model.Prediction, error) {
	if m.listRecentFunc != nil {
		return m.listRecentFunc(ctx, limit, offset)
	}
	return nil, nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockModel struct {
	probability float64
	predictErr  error
	ready       bool
	version     string
}

func (m *mockModel) Predict(_ context.Context, _ model.Transaction) (float64, error) {
	if m.predictErr != nil {
		return 0, m.predictErr
	}
	return m.probability, nil
}

func (m *mockModel) Ready() bool     { return m.ready }
func (m *mockModel) Version() string { return m.version }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRequest() dto.PredictTransactionRequest {
	return dto.PredictTransactionRequest{
		Amount:   decimal.NewFromInt(12500),
		State:    "Maharashtra",
		CardType: "Visa",
		Bank:     "HDFC Bank",
		Category: "Electronics",
		Location: "Mumbai",
	}
}

func TestPredictTransaction_Execute(t *testing.T) {
	t.Run("scores a fraudulent transaction", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		publisher := &mockEventPublisher{}
		mdl := &mockModel{probability: 0.93, ready: true, version: "fraud-xgb-2024-11"}
		uc := usecase.NewPredictTransaction(repo, publisher, mdl, 0.5, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Prediction)
		assert.Equal(t, "FRAUD", resp.Label)
		assert.Equal(t, "CRITICAL", resp.RiskBand)
		assert.InDelta(t, 0.93, resp.Probability, 1e-12)
		assert.Equal(t, "fraud-xgb-2024-11", resp.ModelVersion)

		require.NotNil(t, repo.savedPrediction)
		require.Len(t, publisher.publishedEvents, 2)
		assert.Equal(t, event.EventTypePredictionCompleted, publisher.publishedEvents[0].EventType())
		assert.Equal(t, event.EventTypeFraudDetected, publisher.publishedEvents[1].EventType())
	})

	t.Run("scores a legitimate transaction", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		publisher := &mockEventPublisher{}
		mdl := &mockModel{probability: 0.04, ready: true, version: "fraud-xgb-2024-11"}
		uc := usecase.NewPredictTransaction(repo, publisher, mdl, 0.5, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Prediction)
		assert.Equal(t, "LEGITIMATE", resp.Label)

		require.Len(t, publisher.publishedEvents, 1)
		assert.Equal(t, event.EventTypePredictionCompleted, publisher.publishedEvents[0].EventType())
	})

	t.Run("threshold decides the label", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		publisher := &mockEventPublisher{}
		mdl := &mockModel{probability: 0.6, ready: true, version: "v1"}
		uc := usecase.NewPredictTransaction(repo, publisher, mdl, 0.7, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Prediction, "0.6 is below a 0.7 threshold")
	})

	t.Run("invalid transaction is rejected before scoring", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		publisher := &mockEventPublisher{}
		mdl := &mockModel{probability: 0.5, ready: true}
		uc := usecase.NewPredictTransaction(repo, publisher, mdl, 0.5, testLogger())

		req := validRequest()
		req.State = ""

		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create prediction")
		assert.Nil(t, repo.savedPrediction)
	})

	t.Run("model failure is propagated", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		publisher := &mockEventPublisher{}
		mdl := &mockModel{predictErr: fmt.Errorf("model resources not loaded")}
		uc := usecase.NewPredictTransaction(repo, publisher, mdl, 0.5, testLogger())

		_, err := uc.Execute(context.Background(), validRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to score transaction")
		assert.Nil(t, repo.savedPrediction)
	})

	t.Run("save failure is propagated", func(t *testing.T) {
		repo := &mockPredictionRepository{
			saveFunc: func(_ context.Context, _ *model.Prediction) error {
				return fmt.Errorf("connection refused")
			},
		}
		publisher := &mockEventPublisher{}
		mdl := &mockModel{probability: 0.8, ready: true, version: "v1"}
		uc := usecase.NewPredictTransaction(repo, publisher, mdl, 0.5, testLogger())

		_, err := uc.Execute(context.Background(), validRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save prediction")
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		repo := &mockPredictionRepository{}
		publisher := &mockEventPublisher{
			publishFunc: func(_ context.Context, _ ...events.DomainEvent) error {
				return fmt.Errorf("broker unreachable")
			},
		}
		mdl := &mockModel{probability: 0.8, ready: true, version: "v1"}
		uc := usecase.NewPredictTransaction(repo, publisher, mdl, 0.5, testLogger())

		resp, err := uc.Execute(context.Background(), validRequest())

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Prediction)
		require.NotNil(t, repo.savedPrediction)
	})
}
