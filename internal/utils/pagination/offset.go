package pagination

import (
	"strconv"
	"strings"

	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a validated offset window.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows skipped before the window.
func (p Params) Offset() int { return (p.Page - 1) * p.Limit }

// ParseParams reads raw page/limit query values. Empty values take the
// defaults, pages below 1 become 1 and limits are clamped to [1, MaxLimit].
// Non-numeric input is a validation error.
func ParseParams(page, limit string) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}

	if s := strings.TrimSpace(page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Params{}, svcErr.Validation("invalid query parameter", "page must be a number")
		}
		p.Page = max(n, 1)
	}
	if s := strings.TrimSpace(limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Params{}, svcErr.Validation("invalid query parameter", "limit must be a number")
		}
		if n < 1 {
			n = DefaultLimit
		}
		p.Limit = min(n, MaxLimit)
	}
	return p, nil
}

// Page is the list envelope returned by every collection endpoint.
type Page[T any] struct {
	Items       []T    `json:"items"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
	TotalItems  int64  `json:"totalItems"`
	TotalPages  int    `json:"totalPages"`
	HasNextPage bool   `json:"hasNextPage"`
	NextCursor  string `json:"nextCursor,omitempty"`
}

// NewPage assembles the envelope for items fetched with p out of total rows.
func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Page[T]{
		Items:       items,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalItems:  total,
		TotalPages:  pages,
		HasNextPage: int64(p.Offset()+len(items)) < total,
	}
}
