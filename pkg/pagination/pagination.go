package pagination

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/agent-console/pkg/query"
)

// PageRequest is a client request for one page of results.
type PageRequest struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Search   *string           `json:"search,omitempty"`
	Sort     []query.SortField `json:"sort,omitempty"`
}

// Normalize clamps page and page size into the configured range.
func (r *PageRequest) Normalize(cfg Config) {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	if r.PageSize > cfg.MaxPageSize {
		r.PageSize = cfg.MaxPageSize
	}
}

// Offset returns the number of records preceding the requested page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageRequestFromQuery reads page, page_size, search and sort from query values.
// Sort is comma-separated with a "-" prefix for descending order.
func PageRequestFromQuery(values url.Values, cfg Config) PageRequest {
	page, _ := strconv.Atoi(values.Get("page"))
	size, _ := strconv.Atoi(values.Get("page_size"))

	req := PageRequest{
		Page:     page,
		PageSize: size,
		Sort:     query.ParseSortFields(values.Get("sort")),
	}
	if s := values.Get("search"); s != "" {
		req.Search = &s
	}

	req.Normalize(cfg)
	return req
}

// PageResult is one page of T plus paging metadata.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult builds a PageResult, computing TotalPages (minimum 1).
func NewPageResult[T any](data []T, total, page, pageSize int) PageResult[T] {
	if data == nil {
		data = []T{}
	}

	pages := 1
	if pageSize > 0 && total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}

// Slice returns the page of items described by req. Used by in-memory stores.
func Slice[T any](items []T, req PageRequest) []T {
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := min(start+req.PageSize, len(items))
	return items[start:end]
}
