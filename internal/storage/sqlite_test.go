package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testEstimate(createdAt time.Time) *model.Estimate {
	return &model.Estimate{
		ID:        uuid.NewString(),
		CreatedAt: createdAt,
		Vehicle: model.VehicleRecord{
			Brand:        "Toyota",
			Model:        "Camry",
			Year:         2018,
			EngineSize:   2.0,
			FuelType:     "Petrol",
			Transmission: "Automatic",
			Mileage:      50000,
			Doors:        4,
			OwnerCount:   1,
		},
		Price:          16000,
		CarAge:         6,
		MileagePerYear: 8333.33,
		Strategy:       "aligned",
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndGetEstimate(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	estimate := testEstimate(time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.SaveEstimate(ctx, estimate))

	got, err := store.GetEstimate(ctx, estimate.ID)
	require.NoError(t, err)

	assert.Equal(t, estimate.ID, got.ID)
	assert.Equal(t, estimate.Vehicle, got.Vehicle)
	assert.Equal(t, estimate.Price, got.Price)
	assert.Equal(t, estimate.CarAge, got.CarAge)
	assert.InDelta(t, estimate.MileagePerYear, got.MileagePerYear, 1e-9)
	assert.Equal(t, estimate.Strategy, got.Strategy)
}

func TestSaveEstimateValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	err := store.SaveEstimate(ctx, nil)
	require.ErrorIs(t, err, common.ErrInvalidInput)

	estimate := testEstimate(time.Now())
	estimate.ID = ""
	err = store.SaveEstimate(ctx, estimate)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestGetEstimateNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetEstimate(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestListEstimates(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		estimate := testEstimate(base.Add(time.Duration(i) * time.Minute))
		estimate.Vehicle.Mileage = 10000 * (i + 1)
		require.NoError(t, store.SaveEstimate(ctx, estimate))
	}

	t.Run("newest first", func(t *testing.T) {
		estimates, err := store.ListEstimates(ctx, 10)
		require.NoError(t, err)
		require.Len(t, estimates, 5)
		assert.Equal(t, 50000, estimates[0].Vehicle.Mileage)
		assert.Equal(t, 10000, estimates[4].Vehicle.Mileage)
	})

	t.Run("limit applies", func(t *testing.T) {
		estimates, err := store.ListEstimates(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, estimates, 2)
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		estimates, err := store.ListEstimates(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, estimates, 5)
	})
}
