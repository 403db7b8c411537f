package shared

import (
	"strings"
)

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	// Paginate disables limit/offset when false
	Paginate bool
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		Paginate: true,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// NewFilter builds a paginated filter from request parameters. Zero values
// fall back to the defaults.
func NewFilter(page, pageSize int, order, search string) Filter {
	f := DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.ParseOrder(order)
	f.Search = strings.TrimSpace(search)
	f.Normalize()
	return f
}

// ParseOrder applies a "-field" / "field" sort expression to the filter
func (f *Filter) ParseOrder(order string) {
	order = strings.TrimSpace(order)
	if order == "" {
		return
	}
	if strings.HasPrefix(order, "-") {
		f.OrderBy = strings.TrimPrefix(order, "-")
		f.OrderDir = "desc"
		return
	}
	f.OrderBy = order
	f.OrderDir = "asc"
}

// Normalize clamps page and page size into their valid ranges
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// PageInfo describes the position of a page within a result set
type PageInfo struct {
	CurrentPage     int   `json:"currentPage"`
	CurrentPageSize int   `json:"currentPageSize"`
	PageSize        int   `json:"pageSize"`
	PageCount       int   `json:"pageCount"`
	RemainingPages  int   `json:"remainingPages"`
	TotalItems      int64 `json:"totalItems"`
	HasNext         bool  `json:"hasNext"`
	HasPrevious     bool  `json:"hasPrevious"`
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items []T      `json:"items"`
	Info  PageInfo `json:"info"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, f Filter) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	info := PageInfo{
		CurrentPage:     f.Page,
		CurrentPageSize: len(items),
		PageSize:        f.PageSize,
		TotalItems:      total,
	}
	if !f.Paginate {
		info.CurrentPage = 1
		info.PageSize = len(items)
		info.PageCount = 1
		return Paginated[T]{Items: items, Info: info}
	}
	if f.PageSize > 0 {
		info.PageCount = int((total + int64(f.PageSize) - 1) / int64(f.PageSize))
	}
	if info.PageCount > f.Page {
		info.RemainingPages = info.PageCount - f.Page
	}
	info.HasNext = f.Page < info.PageCount
	info.HasPrevious = f.Page > 1
	return Paginated[T]{Items: items, Info: info}
}

// MapPaginated converts the items of a paginated result
func MapPaginated[T, U any](p Paginated[T], fn func(T) U) Paginated[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Paginated[U]{Items: out, Info: p.Info}
}
