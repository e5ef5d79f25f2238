package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/vaultpay/fraud-inference/internal/domain/model"
	"github.com/vaultpay/fraud-inference/pkg/events"
)

// PredictionRepository defines the persistence port for fraud predictions.
type PredictionRepository interface {
	// Save persists a scored prediction.
	Save(ctx context.Context, prediction *model.Prediction) error

	// FindByID retrieves a prediction by its unique identifier.
	// Returns nil without error when no prediction exists.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error)

	// ListRecent retrieves the most recently scored predictions.
	ListRecent(ctx context.Context, limit, offset int) ([]*model.Prediction, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// Model defines the port to the fitted preprocessing transform and trained
// classifier. Implementations run the full transform-and-predict call for a
// single transaction.
type Model interface {
	// Predict returns P(fraud) for the transaction.
	Predict(ctx context.Context, txn model.Transaction) (float64, error)

	// Ready reports whether both model artifacts loaded successfully.
	Ready() bool

	// Version identifies the loaded model artifact.
	Version() string
}
