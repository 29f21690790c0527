package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

func testDataset(id string, n int) *Dataset {
	rows := make([]model.RawRecord, n)
	for i := range rows {
		rows[i] = model.RawRecord{
			"Make":       []string{"TESLA", "KIA", "NISSAN"}[i%3],
			"Model Year": []string{"2018", "2020", "2023"}[i%3],
		}
	}
	return NewDataset(id, id+".csv", []string{"Make", "Model Year"}, rows, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func mustReduce(t *testing.T, s State, e Event) State {
	t.Helper()
	next, applied := Reduce(s, e)
	require.True(t, applied, "event %T ignored", e)
	return next
}

func TestReduceLoadLifecycle(t *testing.T) {
	s := NewState()
	assert.Equal(t, model.StateIdle, s.Status.State)
	assert.False(t, s.Ready())

	s = mustReduce(t, s, LoadStarted{Seq: 1, Source: "ev.csv"})
	assert.Equal(t, model.StateLoading, s.Status.State)

	ds := testDataset("d1", 25)
	s = mustReduce(t, s, LoadCommitted{Seq: 1, Dataset: ds})
	assert.True(t, s.Ready())
	assert.Equal(t, "d1", s.Status.DatasetID)
	assert.Equal(t, 25, s.Status.Rows)
	assert.Equal(t, DefaultFilter(model.YearBounds{Min: 2018, Max: 2023}), s.Filter)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 25, s.Matched)
}

func TestReduceStaleCompletionIgnored(t *testing.T) {
	s := NewState()
	s = mustReduce(t, s, LoadStarted{Seq: 1})
	s = mustReduce(t, s, LoadStarted{Seq: 2})

	s = mustReduce(t, s, LoadCommitted{Seq: 2, Dataset: testDataset("upload", 3)})
	assert.True(t, s.Ready())

	next, applied := Reduce(s, LoadCommitted{Seq: 1, Dataset: testDataset("default", 10)})
	assert.False(t, applied)
	assert.Equal(t, "upload", next.Dataset.ID)

	next, applied = Reduce(s, LoadFailed{Seq: 1, Err: "boom"})
	assert.False(t, applied)
	assert.True(t, next.Ready())
}

func TestReduceOlderCommitWhileNewerPending(t *testing.T) {
	s := NewState()
	s = mustReduce(t, s, LoadStarted{Seq: 1})
	s = mustReduce(t, s, LoadStarted{Seq: 2})
	s = mustReduce(t, s, LoadCommitted{Seq: 1, Dataset: testDataset("d1", 3)})
	assert.Equal(t, model.StateLoading, s.Status.State)
	assert.False(t, s.Ready())

	s = mustReduce(t, s, LoadCommitted{Seq: 2, Dataset: testDataset("d2", 4)})
	assert.True(t, s.Ready())
	assert.Equal(t, "d2", s.Dataset.ID)
}

func TestReduceFailureDropsDataset(t *testing.T) {
	s := NewState()
	s = mustReduce(t, s, LoadStarted{Seq: 1})
	s = mustReduce(t, s, LoadCommitted{Seq: 1, Dataset: testDataset("d1", 3)})
	s = mustReduce(t, s, LoadStarted{Seq: 2, Source: "bad.csv"})
	s = mustReduce(t, s, LoadFailed{Seq: 2, Source: "bad.csv", Err: "no rows", Kind: "EmptyOrMalformed"})

	assert.Equal(t, model.StateFailed, s.Status.State)
	assert.Equal(t, "no rows", s.Status.Error)
	assert.Equal(t, "EmptyOrMalformed", s.Status.ErrorKind)
	assert.Nil(t, s.Dataset)
	assert.False(t, s.Ready())
}

func TestReduceFilterResetsPage(t *testing.T) {
	s := NewState()
	s = mustReduce(t, s, LoadStarted{Seq: 1})
	s = mustReduce(t, s, LoadCommitted{Seq: 1, Dataset: testDataset("d1", 25)})

	s = mustReduce(t, s, PageRequested{Page: 3})
	assert.Equal(t, 3, s.Page)

	f := s.Filter
	f.Make = "KIA"
	s = mustReduce(t, s, FilterChanged{Filter: f})
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 8, s.Matched)

	s = mustReduce(t, s, PageRequested{Page: 5})
	assert.Equal(t, 1, s.Page, "8 rows fit on one page")
}

func TestReduceFilterDefaultsBlankSelections(t *testing.T) {
	s := mustReduce(t, NewState(), FilterChanged{Filter: model.FilterSpec{EVType: " ", YearFrom: 2000, YearTo: 2030}})
	assert.Equal(t, model.FilterAll, s.Filter.EVType)
	assert.Equal(t, model.FilterAll, s.Filter.Make)
}

func TestReduceNewDatasetResetsFilter(t *testing.T) {
	s := NewState()
	s = mustReduce(t, s, LoadStarted{Seq: 1})
	s = mustReduce(t, s, LoadCommitted{Seq: 1, Dataset: testDataset("d1", 25)})
	s = mustReduce(t, s, FilterChanged{Filter: model.FilterSpec{EVType: "PHEV", Make: "KIA", YearFrom: 2020, YearTo: 2020, Query: "x"}})

	s = mustReduce(t, s, LoadStarted{Seq: 2})
	s = mustReduce(t, s, LoadCommitted{Seq: 2, Dataset: testDataset("d2", 5)})
	assert.Equal(t, DefaultFilter(model.YearBounds{Min: 2018, Max: 2023}), s.Filter)
	assert.Equal(t, 1, s.Page)
}

func TestBuildView(t *testing.T) {
	ds := testDataset("d1", 25)
	v := BuildView(ds, DefaultFilter(ds.Bounds), 3)

	assert.Equal(t, "d1", v.DatasetID)
	assert.Equal(t, 25, v.KPIs.Total)
	assert.Equal(t, 3, v.Page.Number)
	assert.Len(t, v.Page.Items, 1)
	assert.Equal(t, []string{"KIA", "NISSAN", "TESLA"}, v.Makes)
	assert.Equal(t, model.YearBounds{Min: 2018, Max: 2023}, v.YearBounds)
	assert.Equal(t, []model.MakeCount{{Make: "TESLA", Count: 9}, {Make: "KIA", Count: 8}, {Make: "NISSAN", Count: 8}}, v.TopMakes)

	shrunk := BuildView(ds, model.FilterSpec{EVType: model.FilterAll, Make: "KIA", YearFrom: 2018, YearTo: 2023}, 3)
	assert.Equal(t, 1, shrunk.Page.Number)
	assert.Equal(t, 1, shrunk.Page.TotalPages)
}
