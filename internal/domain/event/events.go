package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	// EventTypePredictionCompleted is emitted when a transaction has been scored.
	EventTypePredictionCompleted = "fraud.prediction.completed"

	// EventTypeFraudDetected is emitted when a transaction is labeled FRAUD.
	EventTypeFraudDetected = "fraud.prediction.fraud_detected"
)

// PredictionCompleted is published after every scored transaction.
type PredictionCompleted struct {
	PredictionID uuid.UUID `json:"prediction_id"`
	Label        string    `json:"label"`
	Probability  float64   `json:"probability"`
	RiskBand     string    `json:"risk_band"`
	ModelVersion string    `json:"model_version"`
	Amount       string    `json:"amount"`
	PredictedAt  time.Time `json:"predicted_at"`
}

// NewPredictionCompleted creates a PredictionCompleted event.
func NewPredictionCompleted(
	predictionID uuid.UUID,
	label string,
	probability float64,
	riskBand string,
	modelVersion string,
	amount string,
	predictedAt time.Time,
) PredictionCompleted {
	return PredictionCompleted{
		PredictionID: predictionID,
		Label:        label,
		Probability:  probability,
		RiskBand:     riskBand,
		ModelVersion: modelVersion,
		Amount:       amount,
		PredictedAt:  predictedAt,
	}
}

// EventType returns the event type identifier.
func (e PredictionCompleted) EventType() string {
	return EventTypePredictionCompleted
}

// AggregateID returns the prediction ID as the aggregate identifier.
func (e PredictionCompleted) AggregateID() uuid.UUID {
	return e.PredictionID
}

// OccurredAt returns the time the prediction was made.
func (e PredictionCompleted) OccurredAt() time.Time {
	return e.PredictedAt
}

// FraudDetected is published when a transaction is labeled FRAUD, feeding
// downstream alerting and case management.
type FraudDetected struct {
	PredictionID uuid.UUID `json:"prediction_id"`
	Probability  float64   `json:"probability"`
	RiskBand     string    `json:"risk_band"`
	ModelVersion string    `json:"model_version"`
	Amount       string    `json:"amount"`
	Location     string    `json:"location"`
	DetectedAt   time.Time `json:"detected_at"`
}

// NewFraudDetected creates a FraudDetected event.
func NewFraudDetected(
	predictionID uuid.UUID,
	probability float64,
	riskBand string,
	modelVersion string,
	amount string,
	location string,
	detectedAt time.Time,
) FraudDetected {
	return FraudDetected{
		PredictionID: predictionID,
		Probability:  probability,
		RiskBand:     riskBand,
		ModelVersion: modelVersion,
		Amount:       amount,
		Location:     location,
		DetectedAt:   detectedAt,
	}
}

// EventType returns the event type identifier.
func (e FraudDetected) EventType() string {
	return EventTypeFraudDetected
}

// AggregateID returns the prediction ID as the aggregate identifier.
func (e FraudDetected) AggregateID() uuid.UUID {
	return e.PredictionID
}

// OccurredAt returns the time the fraud label was assigned.
func (e FraudDetected) OccurredAt() time.Time {
	return e.DetectedAt
}
