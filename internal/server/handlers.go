package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/model"
)

type predictRequest struct {
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	FuelType     string  `json:"fuel_type"`
	Transmission string  `json:"transmission"`
	EngineSize   float64 `json:"engine_size"`
	Year         int     `json:"year"`
	Mileage      int     `json:"mileage"`
	Doors        int     `json:"doors"`
	OwnerCount   int     `json:"owner_count"`
}

type predictResponse struct {
	Price          float64 `json:"price"`
	MileagePerYear float64 `json:"mileage_per_year"`
	CarAge         int     `json:"car_age"`
}

type estimateResponse struct {
	CreatedAt      time.Time `json:"created_at"`
	ID             string    `json:"id"`
	Brand          string    `json:"brand"`
	Model          string    `json:"model"`
	Strategy       string    `json:"strategy"`
	Price          float64   `json:"price"`
	MileagePerYear float64   `json:"mileage_per_year"`
	Year           int       `json:"year"`
	CarAge         int       `json:"car_age"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "request body is not valid JSON")
		return
	}

	record := &model.VehicleRecord{
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		EngineSize:   req.EngineSize,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		Mileage:      req.Mileage,
		Doors:        req.Doors,
		OwnerCount:   req.OwnerCount,
	}

	estimate, err := s.engine.PredictPrice(r.Context(), record)
	if err != nil {
		s.writePredictionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Price:          estimate.Price,
		CarAge:         estimate.CarAge,
		MileagePerYear: estimate.MileagePerYear,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		writeError(w, http.StatusNotFound, "history_disabled", "estimate history is not enabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_input", "limit must be a positive integer")
			return
		}
		limit = n
	}

	estimates, err := s.storage.ListEstimates(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list estimates", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to list estimates")
		return
	}

	out := make([]estimateResponse, 0, len(estimates))
	for _, e := range estimates {
		out = append(out, estimateResponse{
			ID:             e.ID,
			CreatedAt:      e.CreatedAt,
			Brand:          e.Vehicle.Brand,
			Model:          e.Vehicle.Model,
			Year:           e.Vehicle.Year,
			Price:          e.Price,
			CarAge:         e.CarAge,
			MileagePerYear: e.MileagePerYear,
			Strategy:       e.Strategy,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVocabulary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Vocabulary())
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"columns": s.engine.ExpectedColumns(),
	})
}

// writePredictionError maps the error taxonomy onto HTTP statuses. The
// classification is part of the caller contract: clients distinguish bad
// input from a broken artifact.
func (s *Server) writePredictionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, common.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "unknown_category", err.Error())
	case errors.Is(err, common.ErrSchemaMismatch):
		slog.Error("Schema mismatch during prediction", "error", err)
		writeError(w, http.StatusInternalServerError, "schema_mismatch", err.Error())
	case errors.Is(err, common.ErrArtifactUnavailable):
		slog.Error("Model artifact unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "artifact_unavailable", "the pricing model is unavailable")
	case errors.Is(err, common.ErrPredictionFailed):
		slog.Error("Predictor rejected the request", "error", err)
		writeError(w, http.StatusInternalServerError, "prediction_failed", err.Error())
	default:
		slog.Error("Prediction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "prediction failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
