package dashboard

import (
	"strings"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

// State is the whole dashboard state. It is only changed through Reduce.
type State struct {
	Status  model.DatasetStatus
	Dataset *Dataset
	Filter  model.FilterSpec
	Page    int
	Matched int // rows passing Filter, kept for page clamping

	settled uint64 // newest load attempt that committed or failed
	pending uint64 // newest load attempt started
}

// Event is an input to Reduce.
type Event interface{ isEvent() }

// LoadStarted marks a new load attempt.
type LoadStarted struct {
	Seq    uint64
	Source string
}

// LoadCommitted carries a successfully parsed dataset.
type LoadCommitted struct {
	Seq     uint64
	Dataset *Dataset
}

// LoadFailed carries the error of a failed attempt.
type LoadFailed struct {
	Seq    uint64
	Source string
	Err    string
	Kind   string
}

// FilterChanged replaces the filter.
type FilterChanged struct{ Filter model.FilterSpec }

// PageRequested moves to another table page.
type PageRequested struct{ Page int }

func (LoadStarted) isEvent()   {}
func (LoadCommitted) isEvent() {}
func (LoadFailed) isEvent()    {}
func (FilterChanged) isEvent() {}
func (PageRequested) isEvent() {}

// NewState returns the state before any load.
func NewState() State {
	return State{
		Status: model.DatasetStatus{State: model.StateIdle},
		Filter: DefaultFilter(model.YearBounds{}),
		Page:   1,
	}
}

// Ready reports whether views can be derived.
func (s State) Ready() bool {
	return s.Status.State == model.StateReady && s.Dataset != nil
}

// Reduce applies e to s. applied is false when the event was ignored, which
// happens for load completions older than the newest settled attempt.
func Reduce(s State, e Event) (next State, applied bool) {
	switch ev := e.(type) {
	case LoadStarted:
		if ev.Seq <= s.settled {
			return s, false
		}
		if ev.Seq > s.pending {
			s.pending = ev.Seq
		}
		s.Status.State = model.StateLoading
		s.Status.Source = ev.Source
		return s, true

	case LoadCommitted:
		if ev.Seq <= s.settled || ev.Dataset == nil {
			return s, false
		}
		s.settled = ev.Seq
		s.Dataset = ev.Dataset
		s.Filter = DefaultFilter(ev.Dataset.Bounds)
		s.Page = 1
		s.Matched = len(Apply(ev.Dataset.Vehicles, s.Filter))
		s.Status = model.DatasetStatus{
			State:     s.settledState(model.StateReady),
			Seq:       ev.Seq,
			DatasetID: ev.Dataset.ID,
			Source:    ev.Dataset.Source,
			Rows:      len(ev.Dataset.Vehicles),
			Headers:   ev.Dataset.Headers,
			LoadedAt:  ev.Dataset.LoadedAt,
		}
		return s, true

	case LoadFailed:
		if ev.Seq <= s.settled {
			return s, false
		}
		s.settled = ev.Seq
		s.Dataset = nil
		s.Filter = DefaultFilter(model.YearBounds{})
		s.Page = 1
		s.Matched = 0
		s.Status = model.DatasetStatus{
			State:     s.settledState(model.StateFailed),
			Seq:       ev.Seq,
			Source:    ev.Source,
			Error:     ev.Err,
			ErrorKind: ev.Kind,
		}
		return s, true

	case FilterChanged:
		s.Filter = normalizeFilter(ev.Filter)
		s.Page = 1
		if s.Dataset != nil {
			s.Matched = len(Apply(s.Dataset.Vehicles, s.Filter))
		}
		return s, true

	case PageRequested:
		s.Page = ClampPage(ev.Page, TotalPages(s.Matched, PageSize))
		return s, true
	}
	return s, false
}

// settledState keeps the status at loading while a newer attempt is still pending.
func (s State) settledState(final string) string {
	if s.pending > s.settled {
		return model.StateLoading
	}
	return final
}

func normalizeFilter(f model.FilterSpec) model.FilterSpec {
	f.EVType = strings.TrimSpace(f.EVType)
	f.Make = strings.TrimSpace(f.Make)
	if f.EVType == "" {
		f.EVType = model.FilterAll
	}
	if f.Make == "" {
		f.Make = model.FilterAll
	}
	return f
}
