// Package features implements the transformation from a raw vehicle record
// into the feature representation the trained pricing model consumes.
//
// This is the one place where the schema agreed at training time must be
// reproduced exactly at inference time. Two strategies exist: explicit
// alignment (one-hot encode here, align against the expected column set) and
// passthrough (hand the raw fields to a pipeline artifact that encodes
// internally).
package features

import (
	"slices"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/model"
	"github.com/pricelab/carval/internal/vocab"
)

// Builder transforms vehicle records into feature vectors using a fixed
// vocabulary. It is stateless apart from the read-only vocabulary and safe
// for concurrent use.
type Builder struct {
	vocab *vocab.Vocabulary
}

// NewBuilder creates a feature builder over the given vocabulary.
func NewBuilder(v *vocab.Vocabulary) *Builder {
	return &Builder{vocab: v}
}

// Derive computes the engineered features for a record.
//
// A car built in the current year has no elapsed ownership period to
// normalize mileage over, so MileagePerYear is zero by definition for
// CarAge == 0, not missing data.
func Derive(r *model.VehicleRecord, currentYear int) model.DerivedFeatures {
	carAge := currentYear - r.Year

	var mileagePerYear float64
	if carAge > 0 {
		mileagePerYear = float64(r.Mileage) / float64(carAge)
	}

	return model.DerivedFeatures{
		CarAge:         carAge,
		MileagePerYear: mileagePerYear,
		BrandModel:     r.Brand + Separator + r.Model,
	}
}

// ExpectedColumns enumerates the full column set the trained model expects,
// derived from the vocabulary: every numeric column plus one indicator per
// (field, vocabulary value) pair, in canonical lexicographic order.
func (b *Builder) ExpectedColumns() []string {
	set := make(map[string]struct{}, 64)
	for _, c := range numericColumns {
		set[c] = struct{}{}
	}
	for _, brand := range b.vocab.Brands {
		set[indicator(ColBrand, brand)] = struct{}{}
		for _, m := range b.vocab.ModelsByBrand[brand] {
			set[indicator(ColModel, m)] = struct{}{}
		}
	}
	for _, f := range b.vocab.FuelTypes {
		set[indicator(ColFuelType, f)] = struct{}{}
	}
	for _, t := range b.vocab.Transmissions {
		set[indicator(ColTransmission, t)] = struct{}{}
	}
	for _, bm := range b.vocab.BrandModels() {
		set[indicator(ColBrandModel, bm)] = struct{}{}
	}
	return canonicalOrder(set)
}

// EncodeAligned one-hot encodes a single record and aligns it against the
// vocabulary-derived expected column set in canonical order.
//
// A categorical value without a vocabulary entry fails with a category error
// rather than producing an all-zero indicator group: a silently zeroed group
// is indistinguishable from a correct encoding of a different value and
// yields a plausible-looking wrong price.
func (b *Builder) EncodeAligned(r *model.VehicleRecord, derived model.DerivedFeatures) (*model.FeatureVector, error) {
	return b.encode(r, derived, b.ExpectedColumns())
}

// EncodeAlignedTo aligns against the exact column order persisted with the
// trained artifact. The artifact is the source of truth for its own schema;
// any set difference between it and the vocabulary-derived columns is a
// schema mismatch, reported before prediction instead of surfacing as a
// wrong number after it.
func (b *Builder) EncodeAlignedTo(r *model.VehicleRecord, derived model.DerivedFeatures, columns []string) (*model.FeatureVector, error) {
	expected := b.ExpectedColumns()
	if err := compareSchema(expected, columns); err != nil {
		return nil, err
	}
	return b.encode(r, derived, columns)
}

func (b *Builder) encode(r *model.VehicleRecord, derived model.DerivedFeatures, columns []string) (*model.FeatureVector, error) {
	onehot, err := b.onehot(r, derived)
	if err != nil {
		return nil, err
	}

	numeric := map[string]float64{
		ColYear:           float64(r.Year),
		ColEngineSize:     r.EngineSize,
		ColMileage:        float64(r.Mileage),
		ColDoors:          float64(r.Doors),
		ColOwnerCount:     float64(r.OwnerCount),
		ColCarAge:         float64(derived.CarAge),
		ColMileagePerYear: derived.MileagePerYear,
	}

	vec := model.NewFeatureVector(len(columns))
	for _, col := range columns {
		if val, ok := numeric[col]; ok {
			vec.Set(col, val)
			continue
		}
		if _, ok := onehot[col]; ok {
			vec.Set(col, 1.0)
		} else {
			vec.Set(col, 0.0)
		}
	}
	return vec, nil
}

// onehot builds the indicator set for this single record, checking every
// categorical value against the vocabulary.
func (b *Builder) onehot(r *model.VehicleRecord, derived model.DerivedFeatures) (map[string]struct{}, error) {
	if !slices.Contains(b.vocab.Brands, r.Brand) {
		return nil, &common.CategoryError{Field: ColBrand, Value: r.Brand}
	}
	if !b.knownModel(r.Model) {
		return nil, &common.CategoryError{Field: ColModel, Value: r.Model}
	}
	if !slices.Contains(b.vocab.FuelTypes, r.FuelType) {
		return nil, &common.CategoryError{Field: ColFuelType, Value: r.FuelType}
	}
	if !slices.Contains(b.vocab.Transmissions, r.Transmission) {
		return nil, &common.CategoryError{Field: ColTransmission, Value: r.Transmission}
	}
	if !slices.Contains(b.vocab.BrandModels(), derived.BrandModel) {
		return nil, &common.CategoryError{Field: ColBrandModel, Value: derived.BrandModel}
	}

	return map[string]struct{}{
		indicator(ColBrand, r.Brand):                 {},
		indicator(ColModel, r.Model):                 {},
		indicator(ColFuelType, r.FuelType):           {},
		indicator(ColTransmission, r.Transmission):   {},
		indicator(ColBrandModel, derived.BrandModel): {},
	}, nil
}

func (b *Builder) knownModel(name string) bool {
	for _, models := range b.vocab.ModelsByBrand {
		if slices.Contains(models, name) {
			return true
		}
	}
	return false
}

// Passthrough produces the raw-field vector consumed by pipeline artifacts,
// which perform their own categorical encoding. Category validity is the
// artifact's concern here; the vector always builds for a well-typed record.
func Passthrough(r *model.VehicleRecord, derived model.DerivedFeatures) *model.FeatureVector {
	vec := model.NewFeatureVector(12)
	vec.Set(ColBrand, r.Brand)
	vec.Set(ColModel, r.Model)
	vec.Set(ColYear, r.Year)
	vec.Set(ColEngineSize, r.EngineSize)
	vec.Set(ColFuelType, r.FuelType)
	vec.Set(ColTransmission, r.Transmission)
	vec.Set(ColMileage, r.Mileage)
	vec.Set(ColDoors, r.Doors)
	vec.Set(ColOwnerCount, r.OwnerCount)
	vec.Set(ColCarAge, derived.CarAge)
	vec.Set(ColMileagePerYear, derived.MileagePerYear)
	vec.Set(ColBrandModel, derived.BrandModel)
	return vec
}

// compareSchema reports the set difference between the vocabulary-derived
// expected columns and the columns an artifact declares.
func compareSchema(expected, declared []string) error {
	expectedSet := make(map[string]struct{}, len(expected))
	for _, c := range expected {
		expectedSet[c] = struct{}{}
	}
	declaredSet := make(map[string]struct{}, len(declared))
	for _, c := range declared {
		declaredSet[c] = struct{}{}
	}

	var missing, extra []string
	for _, c := range expected {
		if _, ok := declaredSet[c]; !ok {
			missing = append(missing, c)
		}
	}
	for _, c := range declared {
		if _, ok := expectedSet[c]; !ok {
			extra = append(extra, c)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return &common.SchemaError{Missing: missing, Extra: extra}
	}
	return nil
}
