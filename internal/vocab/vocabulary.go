// Package vocab defines the category vocabulary the pricing model was
// trained against.
//
// The vocabulary is an explicit configuration object, loaded once at startup
// and passed by reference into the feature builder. It must match the
// categories used at training time exactly; a mismatch does not crash, it
// silently skews predictions, which is why the builder hard-fails on any
// value it cannot find here.
package vocab

import (
	"fmt"
	"slices"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/model"
)

// Vocabulary holds the fixed category lists for every categorical field.
// Read-only after initialization; safe for concurrent readers.
type Vocabulary struct {
	ModelsByBrand map[string][]string `json:"models_by_brand" mapstructure:"models_by_brand"`
	Brands        []string            `json:"brands"          mapstructure:"brands"`
	FuelTypes     []string            `json:"fuel_types"      mapstructure:"fuel_types"`
	Transmissions []string            `json:"transmissions"   mapstructure:"transmissions"`
	Doors         []int               `json:"doors"           mapstructure:"doors"`
}

// Default returns the vocabulary the bundled artifact was trained with.
func Default() *Vocabulary {
	return &Vocabulary{
		Brands: []string{
			"Audi", "BMW", "Chevrolet", "Ford", "Honda",
			"Hyundai", "Kia", "Mercedes", "Toyota", "Volkswagen",
		},
		ModelsByBrand: map[string][]string{
			"Audi":       {"A3", "A4", "Q5"},
			"BMW":        {"3 Series", "5 Series", "X5"},
			"Chevrolet":  {"Equinox", "Impala", "Malibu"},
			"Ford":       {"Explorer", "Fiesta", "Focus"},
			"Honda":      {"Accord", "CR-V", "Civic"},
			"Hyundai":    {"Elantra", "Sonata", "Tucson"},
			"Kia":        {"Optima", "Rio", "Sportage"},
			"Mercedes":   {"C-Class", "E-Class", "GLA"},
			"Toyota":     {"Camry", "Corolla", "RAV4"},
			"Volkswagen": {"Golf", "Passat", "Tiguan"},
		},
		FuelTypes:     []string{"Petrol", "Diesel", "Hybrid", "Electric"},
		Transmissions: []string{"Automatic", "Manual", "Semi-Automatic"},
		Doors:         []int{2, 3, 4, 5},
	}
}

// Validate checks internal consistency of a loaded vocabulary.
func (v *Vocabulary) Validate() error {
	if len(v.Brands) == 0 {
		return fmt.Errorf("%w: vocabulary has no brands", common.ErrInvalidConfig)
	}
	if len(v.FuelTypes) == 0 {
		return fmt.Errorf("%w: vocabulary has no fuel types", common.ErrInvalidConfig)
	}
	if len(v.Transmissions) == 0 {
		return fmt.Errorf("%w: vocabulary has no transmissions", common.ErrInvalidConfig)
	}
	if len(v.Doors) == 0 {
		return fmt.Errorf("%w: vocabulary has no door options", common.ErrInvalidConfig)
	}
	for _, brand := range v.Brands {
		if len(v.ModelsByBrand[brand]) == 0 {
			return fmt.Errorf("%w: brand %q has no models", common.ErrInvalidConfig, brand)
		}
	}
	for brand := range v.ModelsByBrand {
		if !slices.Contains(v.Brands, brand) {
			return fmt.Errorf("%w: models listed for unknown brand %q", common.ErrInvalidConfig, brand)
		}
	}
	return nil
}

// ValidateRecord checks the categorical fields of a record against the
// vocabulary, including the referential constraint that the model belongs to
// the chosen brand.
func (v *Vocabulary) ValidateRecord(r *model.VehicleRecord) error {
	if !slices.Contains(v.Brands, r.Brand) {
		return common.NewFieldError("brand", r.Brand, "not a known brand")
	}
	if !slices.Contains(v.ModelsByBrand[r.Brand], r.Model) {
		return common.NewFieldError("model", r.Model,
			fmt.Sprintf("not a model of brand %q", r.Brand))
	}
	if !slices.Contains(v.FuelTypes, r.FuelType) {
		return common.NewFieldError("fuel_type", r.FuelType, "not a known fuel type")
	}
	if !slices.Contains(v.Transmissions, r.Transmission) {
		return common.NewFieldError("transmission", r.Transmission, "not a known transmission")
	}
	if !slices.Contains(v.Doors, r.Doors) {
		return common.NewFieldError("doors", r.Doors, "not an offered door count")
	}
	return nil
}

// BrandModels returns every brand_model compound key, in brand order then
// model order.
func (v *Vocabulary) BrandModels() []string {
	out := make([]string, 0, len(v.Brands)*3)
	for _, brand := range v.Brands {
		for _, m := range v.ModelsByBrand[brand] {
			out = append(out, brand+"_"+m)
		}
	}
	return out
}
