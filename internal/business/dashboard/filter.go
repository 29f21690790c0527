package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

// ErrInvalidFilter is returned when a filter cannot be applied.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterPatch is a partial filter update. Nil fields keep the current value.
type FilterPatch struct {
	EVType   *string `json:"evType"`
	Make     *string `json:"make"`
	YearFrom *int    `json:"yearFrom"`
	YearTo   *int    `json:"yearTo"`
	Query    *string `json:"query"`
}

// Merge applies the set fields of p over base.
func (p FilterPatch) Merge(base model.FilterSpec) model.FilterSpec {
	if p.EVType != nil {
		base.EVType = *p.EVType
	}
	if p.Make != nil {
		base.Make = *p.Make
	}
	if p.YearFrom != nil {
		base.YearFrom = *p.YearFrom
	}
	if p.YearTo != nil {
		base.YearTo = *p.YearTo
	}
	if p.Query != nil {
		base.Query = *p.Query
	}
	return base
}

// ValidateFilter checks the type selector and the year window.
func ValidateFilter(spec model.FilterSpec) error {
	switch strings.TrimSpace(spec.EVType) {
	case "", model.FilterAll, string(model.EVTypeBEV), string(model.EVTypePHEV):
	default:
		return fmt.Errorf("%w: evType must be All, BEV or PHEV", ErrInvalidFilter)
	}
	if spec.YearFrom > spec.YearTo {
		return fmt.Errorf("%w: yearFrom must not exceed yearTo", ErrInvalidFilter)
	}
	return nil
}

// DefaultFilter selects everything within the given year window.
func DefaultFilter(bounds model.YearBounds) model.FilterSpec {
	return model.FilterSpec{
		EVType:   model.FilterAll,
		Make:     model.FilterAll,
		YearFrom: bounds.Min,
		YearTo:   bounds.Max,
	}
}

// Apply returns the records matching spec, in input order. The input is never modified.
func Apply(records []model.Vehicle, spec model.FilterSpec) []model.Vehicle {
	query := strings.ToLower(strings.TrimSpace(spec.Query))
	out := make([]model.Vehicle, 0, len(records))
	for _, v := range records {
		if matches(v, spec, query) {
			out = append(out, v)
		}
	}
	return out
}

// Matches reports whether a single vehicle passes spec.
func Matches(v model.Vehicle, spec model.FilterSpec) bool {
	return matches(v, spec, strings.ToLower(strings.TrimSpace(spec.Query)))
}

func matches(v model.Vehicle, spec model.FilterSpec, query string) bool {
	if spec.EVType != model.FilterAll && string(v.Type) != spec.EVType {
		return false
	}
	if spec.Make != model.FilterAll && v.Make != spec.Make {
		return false
	}
	// Rows without a year are never excluded by the year window.
	if v.ModelYear != nil && (*v.ModelYear < spec.YearFrom || *v.ModelYear > spec.YearTo) {
		return false
	}
	if query != "" && !strings.Contains(strings.ToLower(searchText(v)), query) {
		return false
	}
	return true
}

func searchText(v model.Vehicle) string {
	return strings.Join([]string{v.Make, v.Model, v.City, v.County, v.State}, " ")
}
