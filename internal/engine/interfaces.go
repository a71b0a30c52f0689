package engine

import (
	"context"

	"github.com/pricelab/carval/internal/model"
)

// Predictor defines the contract for the trained pricing model.
type Predictor interface {
	// Predict evaluates one feature row and returns a non-negative price.
	Predict(ctx context.Context, row *model.FeatureVector) (float64, error)

	// Schema returns the exact column order the model was trained with, or
	// nil when the model performs its own encoding and exposes no external
	// schema.
	Schema() []string
}
