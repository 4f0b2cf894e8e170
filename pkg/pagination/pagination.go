package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 25
	// MaxPageSize caps how many rows any page can request.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// NormalizePageSize enforces the configured default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages computes the page count for a collection. It is never below 1,
// so page 1 of an empty collection is a valid empty state.
func TotalPages(totalItems, pageSize int) int {
	pageSize = NormalizePageSize(pageSize)
	if totalItems <= 0 {
		return 1
	}
	pages := totalItems / pageSize
	if totalItems%pageSize != 0 {
		pages++
	}
	return pages
}

// ClampPage forces a 1-indexed page number into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Bounds returns the half-open [start, end) slice range for the clamped page.
func Bounds(totalItems, pageSize, page int) (start, end int) {
	pageSize = NormalizePageSize(pageSize)
	page = ClampPage(page, TotalPages(totalItems, pageSize))
	start = (page - 1) * pageSize
	if start > totalItems {
		start = totalItems
	}
	end = start + pageSize
	if end > totalItems {
		end = totalItems
	}
	return start, end
}

// Offset converts the params into a SQL offset for repository queries.
func (p Params) Offset() int {
	size := NormalizePageSize(p.PageSize)
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// Limit returns the normalized page size for repository queries.
func (p Params) Limit() int {
	return NormalizePageSize(p.PageSize)
}
