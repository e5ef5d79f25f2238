package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vaultpay/fraud-inference/internal/application/dto"
	"github.com/vaultpay/fraud-inference/internal/domain/model"
	"github.com/vaultpay/fraud-inference/internal/domain/port"
)

// PredictTransaction is the use case for scoring a transaction against
// the loaded fraud model.
type PredictTransaction struct {
	repo      port.PredictionRepository
	publisher port.EventPublisher
	mdl       port.Model
	threshold float64
	logger    *slog.Logger
}

// NewPredictTransaction creates a new PredictTransaction use case.
func NewPredictTransaction(
	repo port.PredictionRepository,
	publisher port.EventPublisher,
	mdl port.Model,
	threshold float64,
	logger *slog.Logger,
) *PredictTransaction {
	return &PredictTransaction{
		repo:      repo,
		publisher: publisher,
		mdl:       mdl,
		threshold: threshold,
		logger:    logger,
	}
}

// Execute scores the transaction, persists the labeled prediction, and
// publishes domain events. A publish failure is logged rather than
// returned; the prediction is already durable and the caller got a
// correct answer.
func (uc *PredictTransaction) Execute(ctx context.Context, req dto.PredictTransactionRequest) (dto.PredictionResponse, error) {
	prediction, err := model.NewPrediction(model.Transaction{
		Amount:   req.Amount,
		State:    req.State,
		CardType: req.CardType,
		Bank:     req.Bank,
		Category: req.Category,
		Location: req.Location,
	})
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to create prediction: %w", err)
	}

	probability, err := uc.mdl.Predict(ctx, prediction.Transaction())
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to score transaction: %w", err)
	}

	if err := prediction.Classify(probability, uc.threshold, uc.mdl.Version()); err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to classify transaction: %w", err)
	}

	if err := uc.repo.Save(ctx, prediction); err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to save prediction: %w", err)
	}

	events := prediction.DomainEvents()
	if len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			uc.logger.Error("failed to publish prediction events",
				slog.String("prediction_id", prediction.ID().String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return dto.FromModel(prediction), nil
}
