package dto

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

type Pagination struct {
	Page    int
	PerPage int
}

// NewPagination clamps the requested page and page size.
func NewPagination(page, perPage, defaultPerPage int) Pagination {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// Unbounded is used by exports and reports that need every matching row.
func (p Pagination) Unbounded() bool {
	return p.PerPage <= 0
}

type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

func NewPageMeta(total int64, p Pagination) PageMeta {
	meta := PageMeta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    1,
	}
	if p.PerPage > 0 && total > 0 {
		meta.LastPage = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	if total > 0 {
		from := p.Offset() + 1
		if int64(from) <= total {
			meta.From = from
			to := p.Offset() + p.PerPage
			if int64(to) > total {
				to = int(total)
			}
			meta.To = to
		}
	}
	return meta
}

// Paginated is the list payload of every admin list page. Data is never nil so an
// empty page serialises as [].
type Paginated[T any] struct {
	Data    []T      `json:"data"`
	Meta    PageMeta `json:"meta"`
	Filters any      `json:"filters,omitempty"`
}

func NewPaginated[T any](data []T, total int64, p Pagination, filters any) Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return Paginated[T]{Data: data, Meta: NewPageMeta(total, p), Filters: filters}
}
