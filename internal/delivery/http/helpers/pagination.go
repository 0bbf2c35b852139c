package helpers

import (
	"net/http"
	"net/url"
	"strconv"

	"invitesmanager/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size (pageSize is accepted too) from the query.
// Missing or non-positive values fall back to defaults; page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	size := positiveInt(q, DefaultPageSize, "page_size", "pageSize")
	return domain.PaginationParams{
		Page:     positiveInt(q, DefaultPage, "page"),
		PageSize: min(size, MaxPageSize),
	}
}

// positiveInt returns the first key holding a positive integer, or fallback.
func positiveInt(q url.Values, fallback int, keys ...string) int {
	for _, k := range keys {
		if v, err := strconv.Atoi(q.Get(k)); err == nil && v >= 1 {
			return v
		}
	}
	return fallback
}

// PaginationMeta is the pagination block of list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPaginationMeta builds the block for a page. A zero page size yields zero pages.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}
