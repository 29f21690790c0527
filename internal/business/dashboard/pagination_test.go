package dashboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

func fleetOf(n int) []model.Vehicle {
	out := make([]model.Vehicle, n)
	for i := range out {
		out[i] = model.Vehicle{Make: fmt.Sprintf("M%d", i), Type: model.EVTypeBEV}
	}
	return out
}

func TestTotalPages(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 1}, {1, 1}, {12, 1}, {13, 2}, {25, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.n, PageSize), "n=%d", tt.n)
	}
}

func TestPaginate(t *testing.T) {
	recs := fleetOf(25)

	p := Paginate(recs, 3, PageSize)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 25, p.TotalRows)
	assert.Len(t, p.Items, 1)
	assert.Equal(t, "M24", p.Items[0].Make)

	first := Paginate(recs, 1, PageSize)
	assert.Len(t, first.Items, 12)
	assert.Equal(t, "M0", first.Items[0].Make)
}

func TestPaginateClamps(t *testing.T) {
	recs := fleetOf(25)
	assert.Equal(t, 1, Paginate(recs, 0, PageSize).Number)
	assert.Equal(t, 1, Paginate(recs, -4, PageSize).Number)
	assert.Equal(t, 3, Paginate(recs, 99, PageSize).Number)

	shrunk := Paginate(fleetOf(5), 3, PageSize)
	assert.Equal(t, 1, shrunk.TotalPages)
	assert.Equal(t, 1, shrunk.Number)
	assert.Len(t, shrunk.Items, 5)
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, 1, PageSize)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Items)
}

func TestPaginateCopiesItems(t *testing.T) {
	recs := fleetOf(3)
	p := Paginate(recs, 1, PageSize)
	p.Items[0].Make = "changed"
	assert.Equal(t, "M0", recs[0].Make)
}
