package model

import "time"

// RawRecord is one parsed CSV row keyed by header name.
// A missing key and an empty value are both treated as absent.
type RawRecord map[string]string

// EVType is the binary drivetrain classification of a vehicle.
type EVType string

const (
	EVTypeBEV  EVType = "BEV"
	EVTypePHEV EVType = "PHEV"
)

// FilterAll matches every value of a categorical filter.
const FilterAll = "All"

// Vehicle is a normalized registration row. ModelYear and Range are nil when the
// source value was missing or unusable.
type Vehicle struct {
	Make      string   `json:"make"`
	Model     string   `json:"model"`
	ModelYear *int     `json:"modelYear"`
	Type      EVType   `json:"type"`
	Range     *float64 `json:"range"`
	CAFV      string   `json:"cafv"`
	City      string   `json:"city"`
	County    string   `json:"county"`
	State     string   `json:"state"`

	Raw RawRecord `json:"-"` // originating row, not used by aggregation
}

// FilterSpec is the current filter selection of the dashboard.
type FilterSpec struct {
	EVType   string `json:"evType"`
	Make     string `json:"make"`
	YearFrom int    `json:"yearFrom"`
	YearTo   int    `json:"yearTo"`
	Query    string `json:"query"`
}

// KPIs are the headline numbers over a filtered set.
type KPIs struct {
	Total      int     `json:"total"`
	BEV        int     `json:"bev"`
	PHEV       int     `json:"phev"`
	AvgRange   float64 `json:"avgRange"`
	MedianYear int     `json:"medianYear"`
}

// YearCount is one point of the by-year series.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// MakeCount is one bar of the top manufacturers chart.
type MakeCount struct {
	Make  string `json:"make"`
	Count int    `json:"count"`
}

// TypeSplit is the BEV/PHEV pie.
type TypeSplit struct {
	BEV  int `json:"bev"`
	PHEV int `json:"phev"`
}

// CategoryCount is one slice of the CAFV eligibility breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// YearBounds is the [min, max] model year present in a dataset.
type YearBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Page is a fixed-size slice of the filtered rows.
type Page struct {
	Number     int       `json:"number"`
	Size       int       `json:"size"`
	TotalPages int       `json:"totalPages"`
	TotalRows  int       `json:"totalRows"`
	Items      []Vehicle `json:"items"`
}

// View bundles everything the presentation layer renders for one state.
type View struct {
	DatasetID  string          `json:"datasetId"`
	Filter     FilterSpec      `json:"filter"`
	KPIs       KPIs            `json:"kpis"`
	ByYear     []YearCount     `json:"byYear"`
	TopMakes   []MakeCount     `json:"topMakes"`
	TypeSplit  TypeSplit       `json:"typeSplit"`
	CAFV       []CategoryCount `json:"cafv"`
	Page       Page            `json:"page"`
	Makes      []string        `json:"makes"`
	YearBounds YearBounds      `json:"yearBounds"`
}

// Dataset lifecycle states.
const (
	StateIdle    = "idle"
	StateLoading = "loading"
	StateReady   = "ready"
	StateFailed  = "failed"
)

// DatasetStatus describes the currently loaded dataset, or why there is none.
type DatasetStatus struct {
	State     string    `json:"state"`
	Seq       uint64    `json:"seq"`
	DatasetID string    `json:"datasetId,omitempty"`
	Source    string    `json:"source,omitempty"`
	Rows      int       `json:"rows"`
	Headers   []string  `json:"headers,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `json:"errorKind,omitempty"`
	LoadedAt  time.Time `json:"loadedAt,omitempty"`

	// InFlight lists load tickets that have started but not settled yet.
	InFlight []uint64 `json:"inFlight,omitempty"`
}

// Load run statuses.
const (
	RunRunning   = "running"
	RunCommitted = "committed"
	RunStale     = "stale"
	RunFailed    = "failed"
)

// LoadRun tracks the lifecycle of one ingestion attempt.
type LoadRun struct {
	Seq        uint64    `json:"seq"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Rows       int       `json:"rows,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
	Error      string    `json:"error,omitempty"`
}
