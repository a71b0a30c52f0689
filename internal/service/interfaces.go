// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/pricelab/carval/internal/model"
)

// Storage defines the contract for the estimate history layer.
type Storage interface {
	SaveEstimate(ctx context.Context, estimate *model.Estimate) error
	GetEstimate(ctx context.Context, id string) (*model.Estimate, error)
	ListEstimates(ctx context.Context, limit int) ([]model.Estimate, error)

	Migrate(ctx context.Context) error
	Close() error
}
