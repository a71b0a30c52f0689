package predictor

import (
	"context"
	"fmt"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/features"
	"github.com/pricelab/carval/internal/model"
)

// Predict evaluates the artifact against one feature row and returns a
// non-negative price estimate.
//
// Matrix artifacts require the row to carry exactly the persisted columns;
// pipeline artifacts take the raw passthrough row and encode it themselves.
func (a *Artifact) Predict(ctx context.Context, vec *model.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch a.Kind {
	case KindMatrix:
		return a.predictMatrix(vec)
	case KindPipeline:
		return a.predictPipeline(vec)
	default:
		return 0, fmt.Errorf("%w: unknown artifact kind %q", common.ErrArtifactUnavailable, a.Kind)
	}
}

func (a *Artifact) predictMatrix(vec *model.FeatureVector) (float64, error) {
	if err := a.checkColumns(vec); err != nil {
		return 0, err
	}

	sum := a.Intercept
	for _, col := range a.Columns {
		val, ok := vec.Float(col)
		if !ok {
			return 0, fmt.Errorf("%w: column %q is not numeric", common.ErrSchemaMismatch, col)
		}
		sum += a.Weights[col] * val
	}
	if sum < 0 {
		sum = 0
	}
	return sum, nil
}

// checkColumns verifies the row's column set equals the persisted training
// columns. Order does not matter here since evaluation walks the persisted
// order, but a set difference means the caller encoded against a different
// vocabulary than the one this artifact was trained on.
func (a *Artifact) checkColumns(vec *model.FeatureVector) error {
	declared := make(map[string]struct{}, len(a.Columns))
	for _, col := range a.Columns {
		declared[col] = struct{}{}
	}

	var extra []string
	for _, col := range vec.Columns() {
		if _, ok := declared[col]; !ok {
			extra = append(extra, col)
		}
	}

	var missing []string
	if vec.Len()-len(extra) != len(a.Columns) {
		for _, col := range a.Columns {
			if _, ok := vec.Get(col); !ok {
				missing = append(missing, col)
			}
		}
	}

	if len(missing) > 0 || len(extra) > 0 {
		return &common.SchemaError{Missing: missing, Extra: extra}
	}
	return nil
}

// predictPipeline rebuilds the record from the raw row, encodes it with the
// artifact's own vocabulary, and evaluates the inner model. Encoding errors
// surface as opaque prediction failures: the encoding is internal to the
// artifact, so the caller only learns that the artifact refused the row.
func (a *Artifact) predictPipeline(vec *model.FeatureVector) (float64, error) {
	record, derived, err := recordFromRaw(vec)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrPredictionFailed, err)
	}

	builder := features.NewBuilder(a.Encoder)
	aligned, err := builder.EncodeAlignedTo(record, derived, a.Columns)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrPredictionFailed, err)
	}
	return a.predictMatrix(aligned)
}

func recordFromRaw(vec *model.FeatureVector) (*model.VehicleRecord, model.DerivedFeatures, error) {
	var derived model.DerivedFeatures

	str := func(col string) (string, error) {
		val, ok := vec.Get(col)
		if !ok {
			return "", fmt.Errorf("raw row is missing column %q", col)
		}
		s, ok := val.(string)
		if !ok {
			return "", fmt.Errorf("raw row column %q is not a string", col)
		}
		return s, nil
	}
	num := func(col string) (float64, error) {
		val, ok := vec.Float(col)
		if !ok {
			return 0, fmt.Errorf("raw row column %q is missing or not numeric", col)
		}
		return val, nil
	}

	record := &model.VehicleRecord{}
	var err error
	if record.Brand, err = str(features.ColBrand); err != nil {
		return nil, derived, err
	}
	if record.Model, err = str(features.ColModel); err != nil {
		return nil, derived, err
	}
	if record.FuelType, err = str(features.ColFuelType); err != nil {
		return nil, derived, err
	}
	if record.Transmission, err = str(features.ColTransmission); err != nil {
		return nil, derived, err
	}
	if derived.BrandModel, err = str(features.ColBrandModel); err != nil {
		return nil, derived, err
	}

	year, err := num(features.ColYear)
	if err != nil {
		return nil, derived, err
	}
	record.Year = int(year)

	if record.EngineSize, err = num(features.ColEngineSize); err != nil {
		return nil, derived, err
	}

	mileage, err := num(features.ColMileage)
	if err != nil {
		return nil, derived, err
	}
	record.Mileage = int(mileage)

	doors, err := num(features.ColDoors)
	if err != nil {
		return nil, derived, err
	}
	record.Doors = int(doors)

	owners, err := num(features.ColOwnerCount)
	if err != nil {
		return nil, derived, err
	}
	record.OwnerCount = int(owners)

	carAge, err := num(features.ColCarAge)
	if err != nil {
		return nil, derived, err
	}
	derived.CarAge = int(carAge)

	if derived.MileagePerYear, err = num(features.ColMileagePerYear); err != nil {
		return nil, derived, err
	}

	return record, derived, nil
}
