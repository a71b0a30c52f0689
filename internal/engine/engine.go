// Package engine implements the pricing engine that turns vehicle records
// into price estimates.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pricelab/carval/internal/features"
	"github.com/pricelab/carval/internal/model"
	"github.com/pricelab/carval/internal/service"
	"github.com/pricelab/carval/internal/vocab"
)

// Strategy selects how a record is turned into the row the predictor consumes.
type Strategy string

// Encoding strategies.
const (
	// StrategyAligned one-hot encodes here and aligns against the expected
	// column set before calling the predictor.
	StrategyAligned Strategy = "aligned"
	// StrategyPassthrough hands the raw fields to the predictor, which
	// encodes them internally.
	StrategyPassthrough Strategy = "passthrough"
)

// Config holds configuration options for the pricing engine.
type Config struct {
	Strategy Strategy
	// CurrentYear anchors the car-age derivation; zero means the wall clock.
	CurrentYear   int
	RecordHistory bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyAligned,
		RecordHistory: true,
	}
}

// PricingEngine orchestrates validation, feature building, prediction, and
// history recording for a single vehicle record at a time. It holds no
// mutable state and is safe for concurrent callers.
type PricingEngine struct {
	vocab     *vocab.Vocabulary
	builder   *features.Builder
	predictor Predictor
	storage   service.Storage
	config    Config
}

// New creates a pricing engine with the default configuration. Storage may
// be nil, in which case no history is recorded.
func New(v *vocab.Vocabulary, predictor Predictor, storage service.Storage) *PricingEngine {
	return NewWithConfig(v, predictor, storage, DefaultConfig())
}

// NewWithConfig creates a pricing engine with custom configuration.
func NewWithConfig(v *vocab.Vocabulary, predictor Predictor, storage service.Storage, config Config) *PricingEngine {
	if config.Strategy == "" {
		config.Strategy = StrategyAligned
	}
	return &PricingEngine{
		vocab:     v,
		builder:   features.NewBuilder(v),
		predictor: predictor,
		storage:   storage,
		config:    config,
	}
}

// CurrentYear returns the year the engine derives car age against.
func (e *PricingEngine) CurrentYear() int {
	if e.config.CurrentYear != 0 {
		return e.config.CurrentYear
	}
	return time.Now().Year()
}

// Vocabulary returns the vocabulary the engine validates against.
func (e *PricingEngine) Vocabulary() *vocab.Vocabulary {
	return e.vocab
}

// ExpectedColumns returns the column order the engine aligns against: the
// artifact's persisted schema when it has one, the vocabulary-derived
// canonical order otherwise.
func (e *PricingEngine) ExpectedColumns() []string {
	if schema := e.predictor.Schema(); schema != nil {
		return schema
	}
	return e.builder.ExpectedColumns()
}

// PredictPrice is the sole entry point for callers: it validates the record,
// derives features, encodes per the configured strategy, and consults the
// trained model. On any error no estimate is returned.
func (e *PricingEngine) PredictPrice(ctx context.Context, record *model.VehicleRecord) (*model.PriceEstimate, error) {
	currentYear := e.CurrentYear()

	if err := record.Validate(currentYear); err != nil {
		return nil, err
	}
	if err := e.vocab.ValidateRecord(record); err != nil {
		return nil, err
	}

	derived := features.Derive(record, currentYear)

	row, err := e.encode(record, derived)
	if err != nil {
		return nil, err
	}

	price, err := e.predictor.Predict(ctx, row)
	if err != nil {
		return nil, err
	}

	slog.Debug("Prediction complete",
		"brand_model", derived.BrandModel,
		"car_age", derived.CarAge,
		"strategy", string(e.config.Strategy),
		"price", price)

	estimate := &model.PriceEstimate{
		Price:          price,
		CarAge:         derived.CarAge,
		MileagePerYear: derived.MileagePerYear,
	}

	e.record(ctx, record, estimate)

	return estimate, nil
}

func (e *PricingEngine) encode(record *model.VehicleRecord, derived model.DerivedFeatures) (*model.FeatureVector, error) {
	switch e.config.Strategy {
	case StrategyAligned:
		if schema := e.predictor.Schema(); schema != nil {
			return e.builder.EncodeAlignedTo(record, derived, schema)
		}
		return e.builder.EncodeAligned(record, derived)
	case StrategyPassthrough:
		return features.Passthrough(record, derived), nil
	default:
		return nil, fmt.Errorf("unknown encoding strategy %q", e.config.Strategy)
	}
}

// record persists the estimate to history. A history failure is logged and
// swallowed; the prediction itself already succeeded.
func (e *PricingEngine) record(ctx context.Context, record *model.VehicleRecord, estimate *model.PriceEstimate) {
	if e.storage == nil || !e.config.RecordHistory {
		return
	}

	err := e.storage.SaveEstimate(ctx, &model.Estimate{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Vehicle:        *record,
		Price:          estimate.Price,
		CarAge:         estimate.CarAge,
		MileagePerYear: estimate.MileagePerYear,
		Strategy:       string(e.config.Strategy),
	})
	if err != nil {
		slog.Error("Failed to record estimate history", "error", err)
	}
}
