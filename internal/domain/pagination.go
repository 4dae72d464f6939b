package domain

import "math"

const (
	// DefaultPageSize is used when a caller asks for a page size of zero or less.
	DefaultPageSize = 10

	// MaxPageSize is the largest page size served. Larger requests are clamped.
	MaxPageSize = 50
)

// PageRequest selects one page of a listing. Page numbers start at 1.
type PageRequest struct {
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
}

// NewPageRequest builds a normalized page request.
func NewPageRequest(pageNumber, pageSize int) PageRequest {
	return PageRequest{PageNumber: pageNumber, PageSize: pageSize}.Normalize()
}

// Normalize returns a copy with the page size clamped to MaxPageSize,
// non-positive sizes replaced by DefaultPageSize and non-positive page
// numbers replaced by 1.
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	return p
}

// Offset is the number of rows to skip, (PageNumber-1)*PageSize, saturating
// at math.MaxInt64 for absurd page numbers. Call on a normalized request.
func (p PageRequest) Offset() int64 {
	pages := int64(p.PageNumber - 1)
	size := int64(p.PageSize)
	if pages <= 0 || size <= 0 {
		return 0
	}
	if pages > math.MaxInt64/size {
		return math.MaxInt64
	}
	return pages * size
}

// Limit is the maximum number of rows in the page.
func (p PageRequest) Limit() int {
	return p.PageSize
}

// Page is one slice of a listing along with the totals needed to navigate it.
type Page[T any] struct {
	TotalCount  int `json:"total_count"`
	PageSize    int `json:"page_size"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	Items       []T `json:"items"`
}

// NewPage assembles a page for req. Items is never nil so it encodes as [].
func NewPage[T any](req PageRequest, totalCount int, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		TotalCount:  totalCount,
		PageSize:    req.PageSize,
		CurrentPage: req.PageNumber,
		TotalPages:  TotalPages(totalCount, req.PageSize),
		Items:       items,
	}
}

// MapPage converts the items of a page, keeping its totals.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, fn(it))
	}
	return Page[U]{
		TotalCount:  p.TotalCount,
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		Items:       items,
	}
}

// TotalPages is ceil(total/pageSize), or 0 when pageSize is not positive.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
