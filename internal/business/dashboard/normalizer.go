package dashboard

import (
	"math"
	"strconv"
	"strings"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

// UnknownMake is stored when a row carries no make.
const UnknownMake = "Unknown"

// Normalize maps one raw row to a Vehicle. Bad numeric fields become nil;
// the row itself is always kept.
func Normalize(raw model.RawRecord) model.Vehicle {
	mk, ok := ResolveField(raw, FieldMake)
	if !ok {
		mk = UnknownMake
	}
	typ, _ := ResolveField(raw, FieldType)
	year, _ := ResolveField(raw, FieldModelYear)
	rng, _ := ResolveField(raw, FieldRange)

	return model.Vehicle{
		Make:      mk,
		Model:     fieldOrEmpty(raw, FieldModel),
		ModelYear: parseYear(year),
		Type:      ClassifyType(typ),
		Range:     parseRange(rng),
		CAFV:      fieldOrEmpty(raw, FieldCAFV),
		City:      fieldOrEmpty(raw, FieldCity),
		County:    fieldOrEmpty(raw, FieldCounty),
		State:     fieldOrEmpty(raw, FieldState),
		Raw:       raw,
	}
}

// NormalizeAll normalizes a whole batch, preserving order.
func NormalizeAll(rows []model.RawRecord) []model.Vehicle {
	out := make([]model.Vehicle, len(rows))
	for i, r := range rows {
		out[i] = Normalize(r)
	}
	return out
}

// ClassifyType is a case-insensitive "PHEV" substring test; everything else is BEV.
func ClassifyType(raw string) model.EVType {
	if strings.Contains(strings.ToUpper(raw), "PHEV") {
		return model.EVTypePHEV
	}
	return model.EVTypeBEV
}

func fieldOrEmpty(raw model.RawRecord, f Field) string {
	v, _ := ResolveField(raw, f)
	return v
}

// parseYear accepts finite integral numbers only: "2022" and "2022.0" parse,
// "2022.5" does not.
func parseYear(raw string) *int {
	f, ok := parseFinite(raw)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	y := int(f)
	return &y
}

// parseRange accepts finite non-negative numbers.
func parseRange(raw string) *float64 {
	f, ok := parseFinite(raw)
	if !ok || f < 0 {
		return nil
	}
	return &f
}

func parseFinite(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
