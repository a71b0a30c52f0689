package engine

import (
	"context"
	"sync"

	"github.com/pricelab/carval/internal/model"
)

// MockPredictor is a test implementation of the Predictor interface.
// It prices a row from its mileage and age columns so tests get
// deterministic, distinguishable estimates without a trained artifact.
type MockPredictor struct {
	err    error
	schema []string
	calls  []MockPredictionCall
	base   float64
	mu     sync.Mutex
}

// MockPredictionCall records details of one prediction request.
type MockPredictionCall struct {
	Row     *model.FeatureVector
	Columns []string
}

// NewMockPredictor creates a mock predictor with the given base price.
func NewMockPredictor(base float64) *MockPredictor {
	return &MockPredictor{base: base}
}

// SetSchema makes the mock advertise a persisted column order.
func (m *MockPredictor) SetSchema(columns []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schema = columns
}

// SetError makes every subsequent prediction fail with err.
func (m *MockPredictor) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Predict returns base − 0.02·Mileage − 500·Car_Age, floored at zero.
func (m *MockPredictor) Predict(_ context.Context, row *model.FeatureVector) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockPredictionCall{Row: row, Columns: row.Columns()})

	if m.err != nil {
		return 0, m.err
	}

	price := m.base
	if mileage, ok := row.Float("Mileage"); ok {
		price -= 0.02 * mileage
	}
	if age, ok := row.Float("Car_Age"); ok {
		price -= 500 * age
	}
	if price < 0 {
		price = 0
	}
	return price, nil
}

// Schema returns the configured column order, nil by default.
func (m *MockPredictor) Schema() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schema
}

// Calls returns the recorded prediction requests.
func (m *MockPredictor) Calls() []MockPredictionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockPredictionCall, len(m.calls))
	copy(out, m.calls)
	return out
}
