package dashboard

import (
	"sort"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

// TopMakesLimit is the number of bars in the manufacturers chart.
const TopMakesLimit = 10

// ComputeKPIs reduces a filtered set into the headline numbers.
// AvgRange only counts ranges above zero; MedianYear is the upper median.
func ComputeKPIs(records []model.Vehicle) model.KPIs {
	var k model.KPIs
	var rangeSum float64
	var rangeCnt int
	years := make([]int, 0, len(records))

	for _, v := range records {
		k.Total++
		switch v.Type {
		case model.EVTypePHEV:
			k.PHEV++
		default:
			k.BEV++
		}
		if v.Range != nil && *v.Range > 0 {
			rangeSum += *v.Range
			rangeCnt++
		}
		if v.ModelYear != nil {
			years = append(years, *v.ModelYear)
		}
	}

	if rangeCnt > 0 {
		k.AvgRange = rangeSum / float64(rangeCnt)
	}
	if len(years) > 0 {
		sort.Ints(years)
		k.MedianYear = years[len(years)/2]
	}
	return k
}

// CountByYear groups by model year, ascending. Rows without a year are skipped.
func CountByYear(records []model.Vehicle) []model.YearCount {
	byYear := make(map[int]int)
	for _, v := range records {
		if v.ModelYear == nil {
			continue
		}
		byYear[*v.ModelYear]++
	}
	out := make([]model.YearCount, 0, len(byYear))
	for y, c := range byYear {
		out = append(out, model.YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopMakes returns the n most frequent makes, count descending.
// Ties keep the order in which the makes were first seen.
func TopMakes(records []model.Vehicle, n int) []model.MakeCount {
	counts := countInOrder(records, func(v model.Vehicle) string { return v.Make })
	out := make([]model.MakeCount, len(counts))
	for i, c := range counts {
		out[i] = model.MakeCount{Make: c.key, Count: c.count}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SplitByType counts BEV and PHEV rows.
func SplitByType(records []model.Vehicle) model.TypeSplit {
	var s model.TypeSplit
	for _, v := range records {
		if v.Type == model.EVTypePHEV {
			s.PHEV++
		} else {
			s.BEV++
		}
	}
	return s
}

// CountByCAFV groups by the raw eligibility text in first-seen order.
func CountByCAFV(records []model.Vehicle) []model.CategoryCount {
	counts := countInOrder(records, func(v model.Vehicle) string { return v.CAFV })
	out := make([]model.CategoryCount, len(counts))
	for i, c := range counts {
		out[i] = model.CategoryCount{Category: c.key, Count: c.count}
	}
	return out
}

// MakeOptions lists the distinct makes, sorted, for the make filter.
func MakeOptions(records []model.Vehicle) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, v := range records {
		if _, ok := seen[v.Make]; ok {
			continue
		}
		seen[v.Make] = struct{}{}
		out = append(out, v.Make)
	}
	sort.Strings(out)
	return out
}

// ComputeYearBounds returns the smallest and largest model year present.
// ok is false when no row has a year.
func ComputeYearBounds(records []model.Vehicle) (model.YearBounds, bool) {
	var b model.YearBounds
	found := false
	for _, v := range records {
		if v.ModelYear == nil {
			continue
		}
		y := *v.ModelYear
		if !found {
			b = model.YearBounds{Min: y, Max: y}
			found = true
			continue
		}
		if y < b.Min {
			b.Min = y
		}
		if y > b.Max {
			b.Max = y
		}
	}
	return b, found
}

type keyCount struct {
	key   string
	count int
}

func countInOrder(records []model.Vehicle, keyFn func(model.Vehicle) string) []keyCount {
	index := make(map[string]int)
	var out []keyCount
	for _, v := range records {
		k := keyFn(v)
		if i, ok := index[k]; ok {
			out[i].count++
			continue
		}
		index[k] = len(out)
		out = append(out, keyCount{key: k, count: 1})
	}
	return out
}
