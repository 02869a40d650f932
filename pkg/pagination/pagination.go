package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page length the catalog API uses when none is given.
	DefaultLimit = 30
	// MaxLimit caps the page length accepted from a request.
	MaxLimit = 100
)

// Params holds limit/skip pagination parameters as the catalog API takes them.
type Params struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

// DefaultParams returns the first window of DefaultLimit items.
func DefaultParams() Params {
	return Params{
		Limit: DefaultLimit,
		Skip:  0,
	}
}

// ForPage converts a 1-based page number and a page size into limit/skip.
// Pages below 1 are treated as page 1. A skip too large to represent
// saturates at math.MaxInt, which still selects an empty window.
func ForPage(page, size int) Params {
	if page < 1 {
		page = 1
	}
	if size > 0 && page-1 > math.MaxInt/size {
		return Params{Limit: size, Skip: math.MaxInt}
	}
	return Params{
		Limit: size,
		Skip:  (page - 1) * size,
	}
}

// Page returns the 1-based page number that Skip falls on.
func (p Params) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Skip/p.Limit + 1
}

// FromRequest extracts limit and skip from an HTTP request's query string.
// Invalid values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= MaxLimit {
			p.Limit = v
		}
	}

	if skip := r.URL.Query().Get("skip"); skip != "" {
		if v, err := strconv.Atoi(skip); err == nil && v >= 0 {
			p.Skip = v
		}
	}

	return p
}

// Window returns the slice of items selected by p. A window starting past
// the end is empty, not an error.
func Window[T any](items []T, p Params) []T {
	if p.Skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if p.Limit < end-p.Skip {
		end = p.Skip + p.Limit
	}
	return items[p.Skip:end]
}

// TotalPages returns how many pages of size hold total items.
func TotalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	pages := total / size
	if total%size > 0 {
		pages++
	}
	return pages
}
