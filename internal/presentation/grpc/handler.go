package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vaultpay/fraud-inference/internal/application/dto"
	"github.com/vaultpay/fraud-inference/internal/application/usecase"
	"github.com/vaultpay/fraud-inference/internal/domain/model"
	"github.com/vaultpay/fraud-inference/internal/infrastructure/ml"
)

// Compile-time assertion that PredictionServiceHandler implements PredictionServiceServer.
var _ PredictionServiceServer = (*PredictionServiceHandler)(nil)

// PredictionServiceHandler implements the gRPC PredictionServiceServer interface.
type PredictionServiceHandler struct {
	UnimplementedPredictionServiceServer
	predictTransaction *usecase.PredictTransaction
	getPrediction      *usecase.GetPrediction
	logger             *slog.Logger
}

// NewPredictionServiceHandler creates a new gRPC handler.
func NewPredictionServiceHandler(
	predictTransaction *usecase.PredictTransaction,
	getPrediction *usecase.GetPrediction,
	logger *slog.Logger,
) *PredictionServiceHandler {
	return &PredictionServiceHandler{
		predictTransaction: predictTransaction,
		getPrediction:      getPrediction,
		logger:             logger,
	}
}

// Proto-aligned request/response message types.

// PredictTransactionRequest represents the proto PredictTransactionRequest message.
type PredictTransactionRequest struct {
	Amount   string `json:"amount"`
	State    string `json:"state"`
	CardType string `json:"card_type"`
	Bank     string `json:"bank"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// PredictionMsg represents the proto Prediction message.
type PredictionMsg struct {
	ID           string  `json:"id"`
	Amount       string  `json:"amount"`
	State        string  `json:"state"`
	CardType     string  `json:"card_type"`
	Bank         string  `json:"bank"`
	Category     string  `json:"category"`
	Location     string  `json:"location"`
	Label        string  `json:"label"`
	RiskBand     string  `json:"risk_band"`
	ModelVersion string  `json:"model_version"`
	Prediction   int32   `json:"prediction"`
	Probability  float64 `json:"probability"`
}

// PredictTransactionResponse represents the proto PredictTransactionResponse message.
type PredictTransactionResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// GetPredictionRequest represents the proto GetPredictionRequest message.
type GetPredictionRequest struct {
	ID string `json:"id"`
}

// GetPredictionResponse represents the proto GetPredictionResponse message.
type GetPredictionResponse struct {
	Prediction *PredictionMsg `json:"prediction"`
}

// PredictTransaction handles a transaction scoring request.
func (h *PredictionServiceHandler) PredictTransaction(ctx context.Context, req *PredictTransactionRequest) (*PredictTransactionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}

	result, err := h.predictTransaction.Execute(ctx, dto.PredictTransactionRequest{
		Amount:   amount,
		State:    req.State,
		CardType: req.CardType,
		Bank:     req.Bank,
		Category: req.Category,
		Location: req.Location,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTransaction):
			return nil, status.Errorf(codes.InvalidArgument, "invalid transaction: %v", err)
		case errors.Is(err, ml.ErrModelNotLoaded):
			return nil, status.Error(codes.Unavailable, "model resources not loaded")
		default:
			h.logger.Error("failed to predict transaction", slog.String("error", err.Error()))
			return nil, status.Error(codes.Internal, "internal error")
		}
	}

	return &PredictTransactionResponse{Prediction: toPredictionMsg(result)}, nil
}

// GetPrediction handles a stored prediction lookup.
func (h *PredictionServiceHandler) GetPrediction(ctx context.Context, req *GetPredictionRequest) (*GetPredictionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	predictionID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getPrediction.Execute(ctx, dto.GetPredictionRequest{PredictionID: predictionID})
	if err != nil {
		if errors.Is(err, usecase.ErrPredictionNotFound) {
			return nil, status.Errorf(codes.NotFound, "prediction %s not found", predictionID)
		}
		h.logger.Error("failed to fetch prediction", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &GetPredictionResponse{Prediction: toPredictionMsg(result)}, nil
}

func toPredictionMsg(result dto.PredictionResponse) *PredictionMsg {
	return &PredictionMsg{
		ID:           result.ID.String(),
		Amount:       result.Amount,
		State:        result.State,
		CardType:     result.CardType,
		Bank:         result.Bank,
		Category:     result.Category,
		Location:     result.Location,
		Prediction:   int32(result.Prediction),
		Probability:  result.Probability,
		Label:        result.Label,
		RiskBand:     result.RiskBand,
		ModelVersion: result.ModelVersion,
	}
}
