package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestFieldErrorUnwrapsToInvalidInput(t *testing.T) {
	err := NewFieldError("year", 1995, "must be between 2000 and 2024")

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("FieldError should unwrap to ErrInvalidInput")
	}

	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatal("expected a FieldError")
	}
	if fieldErr.Field != "year" {
		t.Errorf("got field %q, want year", fieldErr.Field)
	}
}

func TestCategoryErrorUnwrapsToUnknownCategory(t *testing.T) {
	err := &CategoryError{Field: "Fuel_Type", Value: "Ethanol"}

	if !errors.Is(err, ErrUnknownCategory) {
		t.Error("CategoryError should unwrap to ErrUnknownCategory")
	}
	if want := `unknown category: Fuel_Type "Ethanol" has no vocabulary entry`; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestSchemaErrorUnwrapsToSchemaMismatch(t *testing.T) {
	err := &SchemaError{Missing: []string{"Brand_BMW"}, Extra: []string{"Torque"}}

	if !errors.Is(err, ErrSchemaMismatch) {
		t.Error("SchemaError should unwrap to ErrSchemaMismatch")
	}
}

func TestUserErrorWrapping(t *testing.T) {
	inner := fmt.Errorf("open model.carval: %w", ErrArtifactUnavailable)
	err := NewUserError("the pricing model could not be loaded", inner)

	if !errors.Is(err, ErrArtifactUnavailable) {
		t.Error("UserError should preserve the wrapped chain")
	}
}
