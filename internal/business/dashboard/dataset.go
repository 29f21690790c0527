package dashboard

import (
	"time"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

// Dataset is an immutable, committed set of normalized records plus the
// options derived from it once at load time.
type Dataset struct {
	ID       string
	Source   string
	Headers  []string
	Vehicles []model.Vehicle
	Makes    []string
	Bounds   model.YearBounds
	LoadedAt time.Time
}

// NewDataset normalizes rows and derives the filter options.
func NewDataset(id, source string, headers []string, rows []model.RawRecord, loadedAt time.Time) *Dataset {
	vehicles := NormalizeAll(rows)
	bounds, _ := ComputeYearBounds(vehicles)
	return &Dataset{
		ID:       id,
		Source:   source,
		Headers:  headers,
		Vehicles: vehicles,
		Makes:    MakeOptions(vehicles),
		Bounds:   bounds,
		LoadedAt: loadedAt,
	}
}

// BuildView derives every presentation structure for (ds, filter, page).
func BuildView(ds *Dataset, filter model.FilterSpec, page int) model.View {
	filtered := Apply(ds.Vehicles, filter)
	return model.View{
		DatasetID:  ds.ID,
		Filter:     filter,
		KPIs:       ComputeKPIs(filtered),
		ByYear:     CountByYear(filtered),
		TopMakes:   TopMakes(filtered, TopMakesLimit),
		TypeSplit:  SplitByType(filtered),
		CAFV:       CountByCAFV(filtered),
		Page:       Paginate(filtered, page, PageSize),
		Makes:      ds.Makes,
		YearBounds: ds.Bounds,
	}
}
