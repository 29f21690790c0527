package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/business/dashboard"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.FgHiBlack)
	valueColor   = color.New(color.FgGreen, color.Bold)
	barColor     = color.New(color.FgBlue)
)

const barWidth = 30

func printSummary(w io.Writer, ds *dashboard.Dataset, v model.View) {
	headingColor.Fprintf(w, "Dataset %s\n", ds.Source)
	labelColor.Fprintf(w, "%d rows, model years %d-%d\n", len(ds.Vehicles), ds.Bounds.Min, ds.Bounds.Max)
	labelColor.Fprintf(w, "filter: type=%s make=%s years=%d-%d query=%q\n\n",
		v.Filter.EVType, v.Filter.Make, v.Filter.YearFrom, v.Filter.YearTo, v.Filter.Query)

	headingColor.Fprintln(w, "KPIs")
	kpi(w, "Total vehicles", strconv.Itoa(v.KPIs.Total))
	kpi(w, "BEV", strconv.Itoa(v.KPIs.BEV))
	kpi(w, "PHEV", strconv.Itoa(v.KPIs.PHEV))
	kpi(w, "Avg electric range", fmt.Sprintf("%.1f mi", v.KPIs.AvgRange))
	kpi(w, "Median model year", strconv.Itoa(v.KPIs.MedianYear))
	fmt.Fprintln(w)

	headingColor.Fprintln(w, "Registrations by model year")
	maxYear := 0
	for _, yc := range v.ByYear {
		maxYear = max(maxYear, yc.Count)
	}
	for _, yc := range v.ByYear {
		bar(w, strconv.Itoa(yc.Year), yc.Count, maxYear)
	}
	fmt.Fprintln(w)

	headingColor.Fprintln(w, "Top manufacturers")
	maxMake := 0
	if len(v.TopMakes) > 0 {
		maxMake = v.TopMakes[0].Count
	}
	for _, mc := range v.TopMakes {
		bar(w, mc.Make, mc.Count, maxMake)
	}
	fmt.Fprintln(w)

	headingColor.Fprintln(w, "BEV vs PHEV")
	kpi(w, "BEV", strconv.Itoa(v.TypeSplit.BEV))
	kpi(w, "PHEV", strconv.Itoa(v.TypeSplit.PHEV))
	fmt.Fprintln(w)

	headingColor.Fprintln(w, "CAFV eligibility")
	for _, cc := range v.CAFV {
		label := cc.Category
		if label == "" {
			label = "(blank)"
		}
		kpi(w, label, strconv.Itoa(cc.Count))
	}
	fmt.Fprintln(w)

	headingColor.Fprintf(w, "Rows (page %d of %d, %d matching)\n", v.Page.Number, v.Page.TotalPages, v.Page.TotalRows)
	for _, r := range v.Page.Items {
		fmt.Fprintf(w, "  %-12s %-20s %-6s %-5s %-7s %s\n",
			r.Make, r.Model, yearText(r.ModelYear), r.Type, rangeText(r.Range), location(r))
	}
}

func kpi(w io.Writer, label, value string) {
	labelColor.Fprintf(w, "  %-24s", label)
	valueColor.Fprintln(w, value)
}

func bar(w io.Writer, label string, count, maxCount int) {
	n := 0
	if maxCount > 0 {
		n = count * barWidth / maxCount
	}
	if count > 0 && n == 0 {
		n = 1
	}
	fmt.Fprintf(w, "  %-14s ", label)
	barColor.Fprint(w, strings.Repeat("█", n))
	fmt.Fprintf(w, " %d\n", count)
}

func yearText(y *int) string {
	if y == nil {
		return "-"
	}
	return strconv.Itoa(*y)
}

func rangeText(r *float64) string {
	if r == nil {
		return "-"
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}

func location(v model.Vehicle) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{v.City, v.County, v.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
