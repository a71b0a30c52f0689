package model

import "time"

// PriceEstimate is the result returned to the caller for one prediction.
type PriceEstimate struct {
	Price          float64
	MileagePerYear float64
	CarAge         int
}

// Estimate is a completed prediction as recorded in history.
type Estimate struct {
	CreatedAt      time.Time
	ID             string
	Strategy       string
	Vehicle        VehicleRecord
	Price          float64
	MileagePerYear float64
	CarAge         int
}
