package dashboard

import "github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"

// PageSize is the number of rows per table page.
const PageSize = 12

// TotalPages is ceil(n/size), never less than one.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = PageSize
	}
	pages := (n + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage pins a requested page number into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns the requested page of records. Out-of-range page numbers are
// clamped; Page.Number holds the page actually returned.
func Paginate(records []model.Vehicle, page, size int) model.Page {
	if size <= 0 {
		size = PageSize
	}
	total := TotalPages(len(records), size)
	page = ClampPage(page, total)

	start := (page - 1) * size
	end := start + size
	if end > len(records) {
		end = len(records)
	}
	items := make([]model.Vehicle, end-start)
	copy(items, records[start:end])

	return model.Page{
		Number:     page,
		Size:       size,
		TotalPages: total,
		TotalRows:  len(records),
		Items:      items,
	}
}
