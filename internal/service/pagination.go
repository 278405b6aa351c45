package service

// Pagination describes the position of a returned page within the full
// post ordering. TotalPages uses ceiling division; a total of zero yields
// zero pages with both navigation flags false.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NormalizePage coerces raw page/pageSize values into usable ones:
// non-positive pages become 1, non-positive sizes fall back to the default,
// and sizes are clamped to the maximum.
func NormalizePage(page, pageSize, defaultSize, maxSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}

// Paginate computes pagination metadata for a page over total records.
// Pages past the end are legal and simply describe an empty slice.
func Paginate(total int64, page, pageSize int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// Offset converts a 1-based page into the record offset for that page.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
