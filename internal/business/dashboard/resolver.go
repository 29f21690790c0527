package dashboard

import "github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"

// Field is a logical column of the registration dataset.
type Field string

const (
	FieldMake      Field = "make"
	FieldModel     Field = "model"
	FieldModelYear Field = "modelYear"
	FieldType      Field = "type"
	FieldCAFV      Field = "cafv"
	FieldRange     Field = "range"
	FieldCity      Field = "city"
	FieldCounty    Field = "county"
	FieldState     Field = "state"
)

// FieldAliases lists the accepted header names per field, in precedence order.
// Matching is exact and case-sensitive, so lowercase spellings are listed explicitly.
var FieldAliases = map[Field][]string{
	FieldMake:      {"Make", "make"},
	FieldModel:     {"Model", "model"},
	FieldModelYear: {"Model Year", "ModelYear", "model_year", "Model_Year"},
	FieldType:      {"Electric Vehicle Type", "EV Type", "Type", "Electric_Vehicle_Type"},
	FieldCAFV:      {"Clean Alternative Fuel Vehicle (CAFV) Eligibility", "CAFV Eligibility", "CAFV", "cafv"},
	FieldRange:     {"Electric Range", "Range", "electric_range"},
	FieldCity:      {"City", "city"},
	FieldCounty:    {"County", "county"},
	FieldState:     {"State", "state"},
}

// Resolve returns the value of the first alias present in rec with a non-empty value.
func Resolve(rec model.RawRecord, aliases []string) (string, bool) {
	for _, key := range aliases {
		if v, ok := rec[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ResolveField is Resolve over the canonical alias list of f.
func ResolveField(rec model.RawRecord, f Field) (string, bool) {
	return Resolve(rec, FieldAliases[f])
}

// MatchedHeaders reports, per field, which header of the given list would be used
// first. Fields with no matching header are omitted.
func MatchedHeaders(headers []string) map[Field]string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	out := make(map[Field]string)
	for f, aliases := range FieldAliases {
		for _, a := range aliases {
			if _, ok := present[a]; ok {
				out[f] = a
				break
			}
		}
	}
	return out
}
