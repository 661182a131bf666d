package filters

import "math"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination parameters as provided by the client. The values are not
// trusted: callers must pass them through Sanitized before handing them
// to a store.
type Input struct {
	Page     int
	PageSize int
}

// Sanitized clamps the pagination parameters to their allowed ranges. A page
// below 1 becomes 1, a page size outside [1, 100] falls back to the default
// of 20. Out-of-range values are corrected rather than rejected.
func (p Input) Sanitized() Input {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = defaultPageSize
	}
	return p
}

func (p Input) Limit() int {
	return p.PageSize
}

func (p Input) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Pagination metadata returned along with listing results.
type Meta struct {
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	FirstPage    int   `json:"first_page"`
	LastPage     int   `json:"last_page"`
	TotalRecords int64 `json:"total_records"`
}

// CalculateMetadata computes the pagination metadata given the total number
// of records matching the query. Note that the last page value is calculated
// with math.Ceil, e.g. 12 total records with a page size of 5 yield a last
// page of 3.
func (p Input) CalculateMetadata(totalRecords int64) Meta {
	meta := Meta{
		CurrentPage:  p.Page,
		PageSize:     p.PageSize,
		FirstPage:    1,
		LastPage:     1,
		TotalRecords: totalRecords,
	}
	if totalRecords != 0 {
		meta.LastPage = int(math.Ceil(float64(totalRecords) / float64(p.PageSize)))
	}
	return meta
}
