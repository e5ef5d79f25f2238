package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vaultpay/fraud-inference/internal/domain/model"
)

// PredictTransactionRequest is the input DTO for the PredictTransaction use case.
type PredictTransactionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	State    string          `json:"state"`
	CardType string          `json:"card_type"`
	Bank     string          `json:"bank"`
	Category string          `json:"category"`
	Location string          `json:"location"`
}

// PredictionResponse is the output DTO returned after scoring a transaction.
// Prediction carries the integer class (0 legitimate, 1 fraud) alongside the
// label string so both numeric and human-facing clients are served.
type PredictionResponse struct {
	PredictedAt  time.Time `json:"predicted_at"`
	CreatedAt    time.Time `json:"created_at"`
	ID           uuid.UUID `json:"id"`
	Amount       string    `json:"amount"`
	State        string    `json:"state"`
	CardType     string    `json:"card_type"`
	Bank         string    `json:"bank"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Label        string    `json:"label"`
	RiskBand     string    `json:"risk_band"`
	ModelVersion string    `json:"model_version"`
	Prediction   int       `json:"prediction"`
	Probability  float64   `json:"probability"`
}

// GetPredictionRequest is the input DTO for retrieving a stored prediction.
type GetPredictionRequest struct {
	PredictionID uuid.UUID `json:"prediction_id"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(p *model.Prediction) PredictionResponse {
	txn := p.Transaction()
	return PredictionResponse{
		ID:           p.ID(),
		Amount:       txn.Amount.String(),
		State:        txn.State,
		CardType:     txn.CardType,
		Bank:         txn.Bank,
		Category:     txn.Category,
		Location:     txn.Location,
		Prediction:   p.Label().Class(),
		Label:        p.Label().String(),
		RiskBand:     p.RiskBand().String(),
		Probability:  p.Probability(),
		ModelVersion: p.ModelVersion(),
		PredictedAt:  p.PredictedAt(),
		CreatedAt:    p.CreatedAt(),
	}
}
