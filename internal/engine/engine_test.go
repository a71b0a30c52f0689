package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/features"
	"github.com/pricelab/carval/internal/model"
	"github.com/pricelab/carval/internal/storage"
	"github.com/pricelab/carval/internal/vocab"
)

func testRecord() *model.VehicleRecord {
	return &model.VehicleRecord{
		Brand:        "Toyota",
		Model:        "Camry",
		Year:         2018,
		EngineSize:   2.0,
		FuelType:     "Petrol",
		Transmission: "Automatic",
		Mileage:      50000,
		Doors:        4,
		OwnerCount:   1,
	}
}

func testConfig() Config {
	return Config{
		Strategy:      StrategyAligned,
		CurrentYear:   2024,
		RecordHistory: false,
	}
}

func TestPredictPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("prices a valid record", func(t *testing.T) {
		predictor := NewMockPredictor(20000)
		eng := NewWithConfig(vocab.Default(), predictor, nil, testConfig())

		estimate, err := eng.PredictPrice(ctx, testRecord())
		require.NoError(t, err)

		// 20000 − 0.02·50000 − 500·6
		assert.InDelta(t, 16000.0, estimate.Price, 1e-9)
		assert.Equal(t, 6, estimate.CarAge)
		assert.InDelta(t, 50000.0/6.0, estimate.MileagePerYear, 1e-9)

		calls := predictor.Calls()
		require.Len(t, calls, 1)
		assert.Len(t, calls[0].Columns, 84)
	})

	t.Run("brand new car derives zero mileage per year", func(t *testing.T) {
		eng := NewWithConfig(vocab.Default(), NewMockPredictor(20000), nil, testConfig())

		r := testRecord()
		r.Year = 2024

		estimate, err := eng.PredictPrice(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, 0, estimate.CarAge)
		assert.Equal(t, 0.0, estimate.MileagePerYear)
	})

	t.Run("rejects out-of-bounds input", func(t *testing.T) {
		eng := NewWithConfig(vocab.Default(), NewMockPredictor(20000), nil, testConfig())

		r := testRecord()
		r.Year = 1995

		estimate, err := eng.PredictPrice(ctx, r)
		require.ErrorIs(t, err, common.ErrInvalidInput)
		assert.Nil(t, estimate)
	})

	t.Run("rejects model of a different brand", func(t *testing.T) {
		eng := NewWithConfig(vocab.Default(), NewMockPredictor(20000), nil, testConfig())

		r := testRecord()
		r.Model = "Golf"

		estimate, err := eng.PredictPrice(ctx, r)
		require.ErrorIs(t, err, common.ErrInvalidInput)
		assert.Nil(t, estimate)
	})

	t.Run("propagates predictor failure without an estimate", func(t *testing.T) {
		predictor := NewMockPredictor(20000)
		predictor.SetError(errors.New("model exploded"))
		eng := NewWithConfig(vocab.Default(), predictor, nil, testConfig())

		estimate, err := eng.PredictPrice(ctx, testRecord())
		require.Error(t, err)
		assert.Nil(t, estimate)
	})
}

func TestPredictPriceAlignsToArtifactSchema(t *testing.T) {
	ctx := context.Background()
	v := vocab.Default()
	builder := features.NewBuilder(v)

	// Persisted training order differs from the canonical sort; the engine
	// must follow the artifact, not re-derive.
	columns := builder.ExpectedColumns()
	reversed := make([]string, len(columns))
	for i, c := range columns {
		reversed[len(columns)-1-i] = c
	}

	predictor := NewMockPredictor(20000)
	predictor.SetSchema(reversed)
	eng := NewWithConfig(v, predictor, nil, testConfig())

	_, err := eng.PredictPrice(ctx, testRecord())
	require.NoError(t, err)

	calls := predictor.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, reversed, calls[0].Columns)
}

func TestPredictPricePassthrough(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.Strategy = StrategyPassthrough
	predictor := NewMockPredictor(20000)
	eng := NewWithConfig(vocab.Default(), predictor, nil, cfg)

	_, err := eng.PredictPrice(ctx, testRecord())
	require.NoError(t, err)

	calls := predictor.Calls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].Columns, 12)

	brand, ok := calls[0].Row.Get("Brand")
	require.True(t, ok)
	assert.Equal(t, "Toyota", brand)
}

func TestPredictPriceRecordsHistory(t *testing.T) {
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate(ctx))

	cfg := testConfig()
	cfg.RecordHistory = true
	eng := NewWithConfig(vocab.Default(), NewMockPredictor(20000), store, cfg)

	_, err = eng.PredictPrice(ctx, testRecord())
	require.NoError(t, err)

	estimates, err := store.ListEstimates(ctx, 10)
	require.NoError(t, err)
	require.Len(t, estimates, 1)

	assert.NotEmpty(t, estimates[0].ID)
	assert.Equal(t, "Toyota", estimates[0].Vehicle.Brand)
	assert.Equal(t, 6, estimates[0].CarAge)
	assert.Equal(t, string(StrategyAligned), estimates[0].Strategy)
	assert.InDelta(t, 16000.0, estimates[0].Price, 1e-9)
}

func TestExpectedColumns(t *testing.T) {
	v := vocab.Default()
	builder := features.NewBuilder(v)

	t.Run("falls back to vocabulary order", func(t *testing.T) {
		eng := NewWithConfig(v, NewMockPredictor(20000), nil, testConfig())
		assert.Equal(t, builder.ExpectedColumns(), eng.ExpectedColumns())
	})

	t.Run("prefers the artifact schema", func(t *testing.T) {
		predictor := NewMockPredictor(20000)
		predictor.SetSchema([]string{"a", "b"})
		eng := NewWithConfig(v, predictor, nil, testConfig())
		assert.Equal(t, []string{"a", "b"}, eng.ExpectedColumns())
	})
}
