package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vaultpay/fraud-inference/internal/application/dto"
	"github.com/vaultpay/fraud-inference/internal/domain/port"
)

// ErrPredictionNotFound is returned when no prediction exists for the
// requested identifier.
var ErrPredictionNotFound = errors.New("prediction not found")

// GetPrediction is the use case for retrieving a stored prediction.
type GetPrediction struct {
	repo port.PredictionRepository
}

// NewGetPrediction creates a new GetPrediction use case.
func NewGetPrediction(repo port.PredictionRepository) *GetPrediction {
	return &GetPrediction{repo: repo}
}

// Execute retrieves a prediction by ID.
func (uc *GetPrediction) Execute(ctx context.Context, req dto.GetPredictionRequest) (dto.PredictionResponse, error) {
	prediction, err := uc.repo.FindByID(ctx, req.PredictionID)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("failed to find prediction: %w", err)
	}
	if prediction == nil {
		return dto.PredictionResponse{}, fmt.Errorf("%w: %s", ErrPredictionNotFound, req.PredictionID)
	}

	return dto.FromModel(prediction), nil
}
