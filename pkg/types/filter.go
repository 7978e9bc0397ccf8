package types

// Filter is the parsed list query: search, whitelisted sort/filter fields and paging.
//
//	/api/employees?search=ann&sort[full_name]=asc&filter[department_id]=1,2&filter[role]=Manager&limit=10&page=1
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"with_pagination"`
}

type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// Pagination describes the page f selects out of total rows.
func (f Filter) Pagination(total uint64) Pagination {
	p := Pagination{TotalCount: total, Page: f.Page, Limit: f.Limit}
	if f.Limit > 0 {
		p.TotalPages = int((total + uint64(f.Limit) - 1) / uint64(f.Limit))
	}
	return p
}
