package services

// Page is one window of an ordered result set. Page numbers are 1-indexed;
// an empty result set still has one (empty) page.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Paging carries the page-size policy shared by listing services.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// DefaultPaging matches the public API defaults.
var DefaultPaging = Paging{DefaultSize: 21, MaxSize: 100}

// window clamps page and size against total and returns the clamped values,
// the row offset and the number of pages. Pages below 1 become 1; pages past
// the end become the last page.
func (p Paging) window(total int64, page, size int) (clampedPage, clampedSize, offset, pages int) {
	if size <= 0 {
		size = p.DefaultSize
	}
	if size <= 0 {
		size = DefaultPaging.DefaultSize
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	pages = int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return page, size, (page - 1) * size, pages
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
