package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vaultpay/fraud-inference/internal/application/dto"
	"github.com/vaultpay/fraud-inference/internal/application/usecase"
	"github.com/vaultpay/fraud-inference/internal/domain/model"
	"github.com/vaultpay/fraud-inference/internal/domain/port"
	"github.com/vaultpay/fraud-inference/internal/infrastructure/ml"
)

// Client-facing error strings. Browsers render these verbatim, so the
// wording is part of the contract.
const (
	msgInvalidAmount   = "Invalid format for Transaction Amount. Must be a number."
	msgModelNotLoaded  = "Model resources not fully loaded on server."
	msgPredictionError = "An error occurred during prediction."
)

// PredictionHandler serves the JSON prediction endpoints.
type PredictionHandler struct {
	predict *usecase.PredictTransaction
	get     *usecase.GetPrediction
	list    *usecase.ListPredictions
	mdl     port.Model
	metrics *Metrics
	logger  *slog.Logger
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(
	predict *usecase.PredictTransaction,
	get *usecase.GetPrediction,
	list *usecase.ListPredictions,
	mdl port.Model,
	metrics *Metrics,
	logger *slog.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		predict: predict,
		get:     get,
		list:    list,
		mdl:     mdl,
		metrics: metrics,
		logger:  logger,
	}
}

// RegisterRoutes registers prediction endpoints on the provided ServeMux.
func (h *PredictionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("GET /predictions/{id}", h.GetPrediction)
	mux.HandleFunc("GET /predictions", h.ListPredictions)
}

// predictRequest keeps amount raw so both JSON numbers and numeric
// strings ("4999.50") are accepted, the way HTML form clients send them.
type predictRequest struct {
	Amount   json.RawMessage `json:"amount"`
	State    string          `json:"state"`
	CardType string          `json:"card_type"`
	Bank     string          `json:"bank"`
	Category string          `json:"category"`
	Location string          `json:"location"`
}

// predictResponse mirrors the classic serving contract: the integer
// class plus the fraud probability.
type predictResponse struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	RiskBand    string  `json:"risk_band"`
}

// Predict handles prediction requests from the web form and API clients.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		h.metrics.ObserveRequest("/predict", strconv.Itoa(status), time.Since(start).Seconds())
	}()

	if !h.mdl.Ready() {
		status = http.StatusInternalServerError
		writeError(w, status, msgModelNotLoaded)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, "Request body must be a JSON object.")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		status = http.StatusBadRequest
		writeError(w, status, msgInvalidAmount)
		return
	}

	resp, err := h.predict.Execute(r.Context(), dto.PredictTransactionRequest{
		Amount:   amount,
		State:    req.State,
		CardType: req.CardType,
		Bank:     req.Bank,
		Category: req.Category,
		Location: req.Location,
	})
	if err != nil {
		status, body := classifyPredictError(err)
		h.logger.Error("prediction failed",
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		writeError(w, status, body)
		return
	}

	h.metrics.ObservePrediction(resp.Label, resp.Probability)

	writeJSON(w, http.StatusOK, predictResponse{
		Prediction:  resp.Prediction,
		Probability: resp.Probability,
		ID:          resp.ID.String(),
		Label:       resp.Label,
		RiskBand:    resp.RiskBand,
	})
}

// GetPrediction returns a stored prediction by ID.
func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Prediction ID must be a UUID.")
		return
	}

	resp, err := h.get.Execute(r.Context(), dto.GetPredictionRequest{PredictionID: id})
	if err != nil {
		if errors.Is(err, usecase.ErrPredictionNotFound) {
			writeError(w, http.StatusNotFound, "Prediction not found.")
			return
		}
		h.logger.Error("failed to fetch prediction", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to fetch prediction.")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListPredictions returns recently scored transactions, newest first.
func (h *PredictionHandler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resp, err := h.list.Execute(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list predictions", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Failed to list predictions.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"predictions": resp})
}

// parseAmount accepts a JSON number or a quoted numeric string.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Decimal{}, errors.New("amount is required")
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return decimal.NewFromString(asString)
	}

	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(asNumber.String())
}

func classifyPredictError(err error) (int, string) {
	switch {
	case errors.Is(err, ml.ErrModelNotLoaded):
		return http.StatusInternalServerError, msgModelNotLoaded
	case errors.Is(err, model.ErrInvalidTransaction):
		return http.StatusBadRequest, "All transaction fields are required."
	default:
		return http.StatusInternalServerError, msgPredictionError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
