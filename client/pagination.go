package client

// Pagination mirrors the gateway's paging fields. PageNumber is 1-based and
// TotalCount is always server-supplied.
type Pagination struct {
	PageNumber int
	PageSize   int
	TotalCount int64
}

// PaginationUpdate is a partial update; nil fields keep their current value.
type PaginationUpdate struct {
	PageNumber *int
	PageSize   *int
}

// merge applies the update without touching unspecified fields.
func (p *Pagination) merge(u PaginationUpdate) {
	if u.PageNumber != nil {
		p.PageNumber = *u.PageNumber
	}
	if u.PageSize != nil {
		p.PageSize = *u.PageSize
	}
}

// Page is a convenience for building PaginationUpdate literals.
func Page(n int) *int {
	return &n
}
