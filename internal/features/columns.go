package features

import "sort"

// Column names follow the convention used when the training frame was built:
// raw field names for numeric columns, "<Field>_<value>" for the one-hot
// indicator columns.
const (
	ColBrand          = "Brand"
	ColModel          = "Model"
	ColYear           = "Year"
	ColEngineSize     = "Engine_Size"
	ColFuelType       = "Fuel_Type"
	ColTransmission   = "Transmission"
	ColMileage        = "Mileage"
	ColDoors          = "Doors"
	ColOwnerCount     = "Owner_Count"
	ColCarAge         = "Car_Age"
	ColMileagePerYear = "Mileage_per_Year"
	ColBrandModel     = "Brand_Model"
)

// Separator joins a brand and a model into the compound Brand_Model key.
const Separator = "_"

// numericColumns are the columns that carry literal values rather than
// indicator flags. Doors is numeric in the training frame even though the
// input domain is a fixed set.
var numericColumns = []string{
	ColYear,
	ColEngineSize,
	ColMileage,
	ColDoors,
	ColOwnerCount,
	ColCarAge,
	ColMileagePerYear,
}

// indicator builds a one-hot column name for a categorical field value.
func indicator(field, value string) string {
	return field + "_" + value
}

// canonicalOrder sorts a column set lexicographically and deduplicates it.
//
// This reproduces the ordering the training frame was written with. It is a
// known fragility: the order only matches the artifact because training
// sorted its columns the same way. Artifacts that persist their own column
// order are aligned against that order instead.
func canonicalOrder(columns map[string]struct{}) []string {
	out := make([]string, 0, len(columns))
	for c := range columns {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
