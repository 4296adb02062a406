// Package inventory holds the listing contract for the shared food inventory:
// how page, search and category compose into a query and how results are paged.
package inventory

import (
	"FreshTrack/domain"
	"fmt"
	"strings"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100

	// CacheKeyPrefix namespaces every cached listing page.
	CacheKeyPrefix = "foods:"
)

type ExpiryFilter string

const (
	ExpiryAny           ExpiryFilter = ""
	ExpiryExpired       ExpiryFilter = "expired"
	ExpiryNearlyExpired ExpiryFilter = "nearly_expired"
)

type QuerySpec struct {
	Page     int
	Limit    int
	Search   string
	Category domain.Category
	Expiry   ExpiryFilter
	// OwnerID restricts the listing to one user's items when set.
	OwnerID string
}

// BuildQuery normalizes raw listing parameters. The page is clamped to at
// least 1, search is trimmed and an empty category means "all".
func BuildQuery(page int, search, category string) (QuerySpec, error) {
	return BuildQueryWith(page, DefaultPageSize, search, category, ExpiryAny)
}

func BuildQueryWith(page, limit int, search, category string, expiry ExpiryFilter) (QuerySpec, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	q := QuerySpec{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(search),
		Expiry: expiry,
	}

	if category = strings.TrimSpace(category); category != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return QuerySpec{}, err
		}
		q.Category = c
	}

	if err := q.Validate(); err != nil {
		return QuerySpec{}, err
	}
	return q, nil
}

// Validate rejects specs that did not come through BuildQuery.
func (q QuerySpec) Validate() error {
	if q.Page < 1 {
		return domain.ErrInvalidPage
	}
	if q.Category != "" {
		if _, err := domain.ParseCategory(string(q.Category)); err != nil {
			return err
		}
	}
	switch q.Expiry {
	case ExpiryAny, ExpiryExpired, ExpiryNearlyExpired:
	default:
		return domain.ErrInvalidExpiryFilter
	}
	return nil
}

func (q QuerySpec) Offset() int {
	return (q.Page - 1) * q.PageSize()
}

func (q QuerySpec) PageSize() int {
	if q.Limit < 1 {
		return DefaultPageSize
	}
	return q.Limit
}

// Cacheable reports whether the page for q may be served from cache. Expiry
// filters depend on the current time so they are always computed fresh.
func (q QuerySpec) Cacheable() bool {
	return q.Expiry == ExpiryAny && q.OwnerID == ""
}

func (q QuerySpec) Key() string {
	return fmt.Sprintf("%spage=%d:limit=%d:search=%s:category=%s",
		CacheKeyPrefix, q.Page, q.PageSize(), strings.ToLower(q.Search), q.Category)
}

// Page is one slice of a listing plus its navigation facts.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PageSize    int
	TotalItems  int64
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// NewPage derives the navigation facts from the total match count. A query
// past the last page yields no items and no next page.
func NewPage[T any](items []T, q QuerySpec, total int64) Page[T] {
	size := q.PageSize()
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		CurrentPage: q.Page,
		PageSize:    size,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     q.Page < totalPages,
		HasPrevious: q.Page > 1 && totalPages > 0,
	}
}

func (p Page[T]) Pagination() domain.PaginationResponse {
	return domain.PaginationResponse{
		CurrentPage:     p.CurrentPage,
		PageSize:        p.PageSize,
		TotalItems:      p.TotalItems,
		TotalPages:      p.TotalPages,
		HasNextPage:     p.HasNext,
		HasPreviousPage: p.HasPrevious,
	}
}
