// Package pagination implements page-number pagination shared by every list view.
package pagination

import (
	"errors"
	"net/url"
	"strconv"
)

// ErrInvalidPage is returned for a page number that is malformed or past the last page
var ErrInvalidPage = errors.New("invalid page")

const (
	pageParam     = "page"
	pageSizeParam = "page_size"
)

// Settings holds the page size of one view and the global cap
type Settings struct {
	PageSize    int
	MaxPageSize int
}

// Request is a resolved page request
type Request struct {
	Page     int
	PageSize int
}

// Offset returns the SQL offset of the first row of the page
func (r Request) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Limit returns the SQL limit of the page
func (r Request) Limit() int {
	return r.PageSize
}

// Links holds the neighbouring page URLs; nil at the edges
type Links struct {
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Page is the paginated response envelope
type Page[T any] struct {
	Links   Links `json:"links"`
	Count   int   `json:"count"`
	Results []T   `json:"results"`
}

// ParseRequest reads page and page_size from query values.
// A missing page is page 1; page_size is optional and clamped to MaxPageSize.
func ParseRequest(query url.Values, s Settings) (Request, error) {
	req := Request{Page: 1, PageSize: s.PageSize}

	if raw := query.Get(pageParam); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Request{}, ErrInvalidPage
		}
		req.Page = page
	}

	if raw := query.Get(pageSizeParam); raw != "" {
		size, err := strconv.Atoi(raw)
		if err == nil && size > 0 {
			req.PageSize = size
		}
	}
	if s.MaxPageSize > 0 && req.PageSize > s.MaxPageSize {
		req.PageSize = s.MaxPageSize
	}
	if req.PageSize <= 0 {
		req.PageSize = 1
	}

	return req, nil
}

// NumPages returns how many pages count rows span. An empty result still has one page.
func NumPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// Validate rejects a page number beyond the last page
func (r Request) Validate(count int) error {
	if r.Page > NumPages(count, r.PageSize) {
		return ErrInvalidPage
	}
	return nil
}

// Build assembles the response envelope. base is the absolute URL of the
// current request; its other query parameters are preserved in the links.
func Build[T any](base *url.URL, param string, req Request, count int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	if param == "" {
		param = pageParam
	}

	page := Page[T]{Count: count, Results: results}
	if base == nil {
		return page
	}

	if req.Page < NumPages(count, req.PageSize) {
		next := withPage(base, param, req.Page+1)
		page.Links.Next = &next
	}
	if req.Page > 1 {
		prev := withPage(base, param, req.Page-1)
		page.Links.Previous = &prev
	}
	return page
}

// withPage rewrites the page parameter; page 1 drops it entirely
func withPage(base *url.URL, param string, page int) string {
	u := *base
	q := u.Query()
	if page <= 1 {
		q.Del(param)
	} else {
		q.Set(param, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
