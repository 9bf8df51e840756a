package pagination

import "math"

const (
	// DefaultPage is the first page; pages are 1-indexed.
	DefaultPage = 1
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds page-number pagination inputs.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the params into their valid ranges.
func (p Params) Normalize() Params {
	return Params{Page: NormalizePage(p.Page), Limit: NormalizeLimit(p.Limit)}
}

// Offset returns the row offset for the page. Pages whose offset would not
// fit in an int saturate at math.MaxInt, which is past any real table.
func (p Params) Offset() int {
	n := p.Normalize()
	if n.Page-1 > math.MaxInt/n.Limit {
		return math.MaxInt
	}
	return (n.Page - 1) * n.Limit
}

// NormalizePage enforces a minimum of page one.
func NormalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Meta is the pagination block returned next to a page of items.
type Meta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

// NewMeta computes the pagination block for total matching rows.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	return Meta{
		CurrentPage:  n.Page,
		TotalPages:   TotalPages(total, n.Limit),
		TotalItems:   total,
		ItemsPerPage: n.Limit,
	}
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Page is a generic page of items plus its pagination block.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}
