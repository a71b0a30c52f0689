// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"

	"github.com/pricelab/carval/internal/common"
)

// Bounds for the numeric fields of a vehicle record. These mirror the ranges
// the pricing model was trained on; values outside them are rejected rather
// than extrapolated.
const (
	MinYear       = 2000
	MinEngineSize = 1.0
	MaxEngineSize = 6.0
	MinMileage    = 0
	MaxMileage    = 500000
	MinOwnerCount = 1
	MaxOwnerCount = 5
)

// VehicleRecord represents a single vehicle as entered by the user.
// It lives only for the duration of one prediction request.
type VehicleRecord struct {
	Brand        string
	Model        string
	FuelType     string
	Transmission string
	EngineSize   float64
	Year         int
	Mileage      int
	Doors        int
	OwnerCount   int
}

// Validate checks the numeric fields against their declared bounds.
// Categorical membership (brand, model, fuel, transmission, doors) is checked
// separately against the vocabulary.
func (r *VehicleRecord) Validate(currentYear int) error {
	if r.Year < MinYear || r.Year > currentYear {
		return common.NewFieldError("year", r.Year,
			fmt.Sprintf("must be between %d and %d", MinYear, currentYear))
	}
	if r.EngineSize < MinEngineSize || r.EngineSize > MaxEngineSize {
		return common.NewFieldError("engine_size", r.EngineSize,
			fmt.Sprintf("must be between %.1f and %.1f", MinEngineSize, MaxEngineSize))
	}
	if r.Mileage < MinMileage || r.Mileage > MaxMileage {
		return common.NewFieldError("mileage", r.Mileage,
			fmt.Sprintf("must be between %d and %d", MinMileage, MaxMileage))
	}
	if r.OwnerCount < MinOwnerCount || r.OwnerCount > MaxOwnerCount {
		return common.NewFieldError("owner_count", r.OwnerCount,
			fmt.Sprintf("must be between %d and %d", MinOwnerCount, MaxOwnerCount))
	}
	return nil
}

// DerivedFeatures holds the values computed from a vehicle record before
// prediction.
type DerivedFeatures struct {
	BrandModel     string
	CarAge         int
	MileagePerYear float64
}
