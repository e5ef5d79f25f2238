package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vaultpay/fraud-inference/internal/domain/model"
	"github.com/vaultpay/fraud-inference/internal/domain/valueobject"
)

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository creates a new PostgreSQL-backed prediction repository.
func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

const predictionColumns = `id, amount, state, card_type, bank, category, location,
	label, risk_band, probability, model_version, predicted_at, created_at`

// Save persists a classified prediction.
func (r *PredictionRepository) Save(ctx context.Context, prediction *model.Prediction) error {
	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING
	`

	txn := prediction.Transaction()
	_, err := r.pool.Exec(ctx, query,
		prediction.ID(),
		txn.Amount,
		txn.State,
		txn.CardType,
		txn.Bank,
		txn.Category,
		txn.Location,
		prediction.Label().String(),
		prediction.RiskBand().String(),
		prediction.Probability(),
		prediction.ModelVersion(),
		prediction.PredictedAt(),
		prediction.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}

	return nil
}

// FindByID retrieves a prediction by its unique identifier.
// Returns (nil, nil) when no prediction exists.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE id = $1
	`

	prediction, err := scanPrediction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return prediction, nil
}

// ListRecent retrieves the most recently classified predictions.
func (r *PredictionRepository) ListRecent(ctx context.Context, limit, offset int) ([]*model.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*model.Prediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, prediction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}

	return predictions, nil
}

func scanPrediction(row pgx.Row) (*model.Prediction, error) {
	var (
		id           uuid.UUID
		amount       decimal.Decimal
		state        string
		cardType     string
		bank         string
		category     string
		location     string
		labelStr     string
		riskBandStr  string
		probability  float64
		modelVersion string
		predictedAt  time.Time
		createdAt    time.Time
	)

	err := row.Scan(
		&id, &amount, &state, &cardType, &bank, &category, &location,
		&labelStr, &riskBandStr, &probability, &modelVersion, &predictedAt, &createdAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	label, err := valueobject.LabelFromString(labelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label: %w", err)
	}

	riskBand, err := valueobject.RiskBandFromString(riskBandStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk band: %w", err)
	}

	txn := model.Transaction{
		Amount:   amount,
		State:    state,
		CardType: cardType,
		Bank:     bank,
		Category: category,
		Location: location,
	}

	return model.Reconstruct(
		id, txn, label, riskBand,
		probability, modelVersion, predictedAt, createdAt,
	), nil
}
