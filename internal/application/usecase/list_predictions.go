package usecase

import (
	"context"
	"fmt"

	"github.com/vaultpay/fraud-inference/internal/application/dto"
	"github.com/vaultpay/fraud-inference/internal/domain/port"
)

const defaultListLimit = 20

// ListPredictions is the use case for browsing recently scored transactions.
type ListPredictions struct {
	repo port.PredictionRepository
}

// NewListPredictions creates a new ListPredictions use case.
func NewListPredictions(repo port.PredictionRepository) *ListPredictions {
	return &ListPredictions{repo: repo}
}

// Execute returns the most recent predictions, newest first.
func (uc *ListPredictions) Execute(ctx context.Context, limit, offset int) ([]dto.PredictionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	predictions, err := uc.repo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	responses := make([]dto.PredictionResponse, 0, len(predictions))
	for _, p := range predictions {
		responses = append(responses, dto.FromModel(p))
	}

	return responses, nil
}
