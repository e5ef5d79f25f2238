package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vaultpay/fraud-inference/internal/domain/event"
	"github.com/vaultpay/fraud-inference/internal/domain/valueobject"
	"github.com/vaultpay/fraud-inference/pkg/events"
)

// Prediction is the aggregate root for a single fraud inference: the
// transaction attributes that were scored, the model's output, and the
// derived classification.
type Prediction struct {
	events.EventCollector

	predictedAt  time.Time
	createdAt    time.Time
	transaction  Transaction
	label        valueobject.Label
	riskBand     valueobject.RiskBand
	modelVersion string
	probability  float64
	id           uuid.UUID
}

// ErrInvalidTransaction marks transaction attributes the model cannot score.
var ErrInvalidTransaction = errors.New("invalid transaction")

// NewPrediction creates an unscored prediction for an incoming transaction.
// Call Classify() with the model output to complete it.
//
// Amount is deliberately not range-checked: the serving layer only guards
// type coercion, and the fitted scaler handles any numeric value.
func NewPrediction(txn Transaction) (*Prediction, error) {
	if txn.State == "" {
		return nil, fmt.Errorf("%w: state is required", ErrInvalidTransaction)
	}
	if txn.CardType == "" {
		return nil, fmt.Errorf("%w: card type is required", ErrInvalidTransaction)
	}
	if txn.Bank == "" {
		return nil, fmt.Errorf("%w: bank is required", ErrInvalidTransaction)
	}
	if txn.Category == "" {
		return nil, fmt.Errorf("%w: transaction category is required", ErrInvalidTransaction)
	}
	if txn.Location == "" {
		return nil, fmt.Errorf("%w: merchant location is required", ErrInvalidTransaction)
	}

	return &Prediction{
		id:          uuid.New(),
		transaction: txn,
		createdAt:   time.Now().UTC(),
	}, nil
}

// Classify applies the model output to the prediction, deriving the label
// and risk band from the fraud probability and the decision threshold.
// This is the core domain operation.
func (p *Prediction) Classify(probability, threshold float64, modelVersion string) error {
	if probability < 0 || probability > 1 {
		return fmt.Errorf("probability must be in [0, 1], got %v", probability)
	}
	if threshold <= 0 || threshold >= 1 {
		return fmt.Errorf("decision threshold must be in (0, 1), got %v", threshold)
	}

	p.probability = probability
	p.label = valueobject.LabelFromProbability(probability, threshold)
	p.riskBand = valueobject.RiskBandFromProbability(probability)
	p.modelVersion = modelVersion
	p.predictedAt = time.Now().UTC()

	p.Record(event.NewPredictionCompleted(
		p.id, p.label.String(), p.probability, p.riskBand.String(),
		p.modelVersion, p.transaction.Amount.String(), p.predictedAt,
	))

	if p.label.IsFraud() {
		p.Record(event.NewFraudDetected(
			p.id, p.probability, p.riskBand.String(),
			p.modelVersion, p.transaction.Amount.String(),
			p.transaction.Location, p.predictedAt,
		))
	}

	return nil
}

// Reconstruct rebuilds a Prediction from persisted data (no validation, no events).
func Reconstruct(
	id uuid.UUID,
	txn Transaction,
	label valueobject.Label,
	riskBand valueobject.RiskBand,
	probability float64,
	modelVersion string,
	predictedAt time.Time,
	createdAt time.Time,
) *Prediction {
	return &Prediction{
		id:           id,
		transaction:  txn,
		label:        label,
		riskBand:     riskBand,
		probability:  probability,
		modelVersion: modelVersion,
		predictedAt:  predictedAt,
		createdAt:    createdAt,
	}
}

// --- Accessors ---

func (p *Prediction) ID() uuid.UUID                   { return p.id }
func (p *Prediction) Transaction() Transaction        { return p.transaction }
func (p *Prediction) Label() valueobject.Label        { return p.label }
func (p *Prediction) RiskBand() valueobject.RiskBand  { return p.riskBand }
func (p *Prediction) Probability() float64            { return p.probability }
func (p *Prediction) ModelVersion() string            { return p.modelVersion }
func (p *Prediction) PredictedAt() time.Time          { return p.predictedAt }
func (p *Prediction) CreatedAt() time.Time            { return p.createdAt }

// DomainEvents returns all accumulated domain events and clears them.
func (p *Prediction) DomainEvents() []events.DomainEvent {
	return p.ClearEvents()
}
