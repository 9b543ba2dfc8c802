// Package pagination implements the page envelope convention shared by every
// list endpoint of the monitoring API: 1-indexed page numbers, a page_size
// bound, and an {items, total, page, page_size} response shape.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params holds pagination parameters for a list request.
type Params struct {
	Page     int
	PageSize int
}

// Default returns the first page with the default page size.
func Default() Params {
	return Params{Page: 1, PageSize: DefaultPageSize}
}

// Normalize clamps the parameters into their valid ranges, filling defaults
// for zero values.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// FromContext extracts pagination parameters from the echo context.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	return Params{Page: page, PageSize: size}.Normalize()
}

// Apply writes the pagination parameters into a query string.
func (p Params) Apply(q url.Values) {
	n := p.Normalize()
	q.Set("page", strconv.Itoa(n.Page))
	q.Set("page_size", strconv.Itoa(n.PageSize))
}

// HasNext reports whether more results exist after this page.
func (p Params) HasNext(total int) bool {
	n := p.Normalize()
	return n.Page*n.PageSize < total
}

// TotalPages returns the number of pages needed to cover total items.
func (p Params) TotalPages(total int) int {
	n := p.Normalize()
	if total <= 0 {
		return 0
	}
	return (total + n.PageSize - 1) / n.PageSize
}
