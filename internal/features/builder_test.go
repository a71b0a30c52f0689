package features

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/model"
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

func TestDerive(t *testing.T) {
	tests := []struct {
		name           string
		record         *model.VehicleRecord
		currentYear    int
		wantCarAge     int
		wantPerYear    float64
		wantBrandModel string
	}{
		{
			name:           "six year old camry",
			record:         testRecord(),
			currentYear:    2024,
			wantCarAge:     6,
			wantPerYear:    50000.0 / 6.0,
			wantBrandModel: "Toyota_Camry",
		},
		{
			name: "brand new car has zero mileage per year",
			record: func() *model.VehicleRecord {
				r := testRecord()
				r.Year = 2024
				return r
			}(),
			currentYear:    2024,
			wantCarAge:     0,
			wantPerYear:    0,
			wantBrandModel: "Toyota_Camry",
		},
		{
			name: "zero mileage on old car",
			record: func() *model.VehicleRecord {
				r := testRecord()
				r.Mileage = 0
				return r
			}(),
			currentYear:    2024,
			wantCarAge:     6,
			wantPerYear:    0,
			wantBrandModel: "Toyota_Camry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			derived := Derive(tt.record, tt.currentYear)

			assert.Equal(t, tt.wantCarAge, derived.CarAge)
			assert.InDelta(t, tt.wantPerYear, derived.MileagePerYear, 1e-9)
			assert.Equal(t, tt.wantBrandModel, derived.BrandModel)

			// Pure function: a second call yields identical output.
			assert.Equal(t, derived, Derive(tt.record, tt.currentYear))
		})
	}
}

func TestDeriveCurrentYearExactlyZero(t *testing.T) {
	r := testRecord()
	r.Year = 2024
	r.Mileage = 12345

	derived := Derive(r, 2024)

	// Not NaN, not Inf, exactly zero.
	assert.Equal(t, 0, derived.CarAge)
	assert.Equal(t, 0.0, derived.MileagePerYear)
}

func TestEncodeAlignedSchemaCompleteness(t *testing.T) {
	v := vocab.Default()
	builder := NewBuilder(v)
	expected := builder.ExpectedColumns()

	records := []*model.VehicleRecord{
		testRecord(),
		{Brand: "BMW", Model: "X5", Year: 2010, EngineSize: 3.0, FuelType: "Diesel", Transmission: "Manual", Mileage: 200000, Doors: 5, OwnerCount: 3},
		{Brand: "Kia", Model: "Rio", Year: 2023, EngineSize: 1.2, FuelType: "Hybrid", Transmission: "Semi-Automatic", Mileage: 5000, Doors: 3, OwnerCount: 1},
	}

	for _, r := range records {
		derived := Derive(r, 2024)
		vec, err := builder.EncodeAligned(r, derived)
		require.NoError(t, err)

		// Key set and order equal the full expected column set, no matter
		// which categorical values the record takes.
		assert.Equal(t, expected, vec.Columns())
	}
}

func TestEncodeAlignedIndicators(t *testing.T) {
	v := vocab.Default()
	builder := NewBuilder(v)

	r := &model.VehicleRecord{
		Brand:        "BMW",
		Model:        "X5",
		Year:         2015,
		EngineSize:   3.0,
		FuelType:     "Diesel",
		Transmission: "Automatic",
		Mileage:      120000,
		Doors:        5,
		OwnerCount:   2,
	}
	derived := Derive(r, 2024)

	vec, err := builder.EncodeAligned(r, derived)
	require.NoError(t, err)

	for _, col := range vec.Columns() {
		val, ok := vec.Float(col)
		require.True(t, ok, "column %s is not numeric", col)

		switch {
		case strings.HasPrefix(col, "Brand_Model_"):
			if col == "Brand_Model_BMW_X5" {
				assert.Equal(t, 1.0, val, col)
			} else {
				assert.Equal(t, 0.0, val, col)
			}
		case strings.HasPrefix(col, "Brand_"):
			// Every other brand indicator is present and zero.
			if col == "Brand_BMW" {
				assert.Equal(t, 1.0, val, col)
			} else {
				assert.Equal(t, 0.0, val, col)
			}
		case strings.HasPrefix(col, "Model_"):
			// Models of other brands are present, not absent.
			if col == "Model_X5" {
				assert.Equal(t, 1.0, val, col)
			} else {
				assert.Equal(t, 0.0, val, col)
			}
		}
	}

	mileage, _ := vec.Float("Mileage")
	assert.Equal(t, 120000.0, mileage)
	age, _ := vec.Float("Car_Age")
	assert.Equal(t, 9.0, age)
}

func TestEncodeAlignedUnknownCategory(t *testing.T) {
	v := vocab.Default()
	builder := NewBuilder(v)

	tests := []struct {
		mutate    func(*model.VehicleRecord)
		name      string
		wantField string
	}{
		{
			name:      "unknown fuel type",
			mutate:    func(r *model.VehicleRecord) { r.FuelType = "Ethanol" },
			wantField: "Fuel_Type",
		},
		{
			name:      "unknown brand",
			mutate:    func(r *model.VehicleRecord) { r.Brand = "Lada" },
			wantField: "Brand",
		},
		{
			name:      "unknown transmission",
			mutate:    func(r *model.VehicleRecord) { r.Transmission = "CVT" },
			wantField: "Transmission",
		},
		{
			name:      "model from another brand",
			mutate:    func(r *model.VehicleRecord) { r.Model = "Golf" },
			wantField: "Brand_Model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRecord()
			tt.mutate(r)
			derived := Derive(r, 2024)

			_, err := builder.EncodeAligned(r, derived)
			require.Error(t, err)
			require.ErrorIs(t, err, common.ErrUnknownCategory)

			var catErr *common.CategoryError
			require.True(t, errors.As(err, &catErr))
			assert.Equal(t, tt.wantField, catErr.Field)
		})
	}
}

func TestEncodeAlignedTo(t *testing.T) {
	v := vocab.Default()
	builder := NewBuilder(v)
	r := testRecord()
	derived := Derive(r, 2024)

	t.Run("aligns to persisted order", func(t *testing.T) {
		// Reverse the canonical order to prove the persisted order wins.
		columns := builder.ExpectedColumns()
		reversed := make([]string, len(columns))
		for i, c := range columns {
			reversed[len(columns)-1-i] = c
		}

		vec, err := builder.EncodeAlignedTo(r, derived, reversed)
		require.NoError(t, err)
		assert.Equal(t, reversed, vec.Columns())

		val, ok := vec.Float("Brand_Toyota")
		require.True(t, ok)
		assert.Equal(t, 1.0, val)
	})

	t.Run("rejects artifact with extra columns", func(t *testing.T) {
		columns := append(builder.ExpectedColumns(), "Torque")

		_, err := builder.EncodeAlignedTo(r, derived, columns)
		require.ErrorIs(t, err, common.ErrSchemaMismatch)

		var schemaErr *common.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{"Torque"}, schemaErr.Extra)
	})

	t.Run("rejects artifact with missing columns", func(t *testing.T) {
		columns := builder.ExpectedColumns()
		_, err := builder.EncodeAlignedTo(r, derived, columns[1:])
		require.ErrorIs(t, err, common.ErrSchemaMismatch)

		var schemaErr *common.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{columns[0]}, schemaErr.Missing)
	})
}

func TestPassthrough(t *testing.T) {
	r := testRecord()
	derived := Derive(r, 2024)

	vec := Passthrough(r, derived)

	assert.Equal(t, []string{
		"Brand", "Model", "Year", "Engine_Size", "Fuel_Type", "Transmission",
		"Mileage", "Doors", "Owner_Count", "Car_Age", "Mileage_per_Year", "Brand_Model",
	}, vec.Columns())

	brand, _ := vec.Get("Brand")
	assert.Equal(t, "Toyota", brand)
	bm, _ := vec.Get("Brand_Model")
	assert.Equal(t, "Toyota_Camry", bm)
	year, ok := vec.Float("Year")
	require.True(t, ok)
	assert.Equal(t, 2018.0, year)

	// No validation happens here: unknown categories pass through untouched.
	r.FuelType = "Ethanol"
	vec = Passthrough(r, Derive(r, 2024))
	fuel, _ := vec.Get("Fuel_Type")
	assert.Equal(t, "Ethanol", fuel)
}
