package db

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"employee-system/pkg/types"
)

// Column maps a public filter/sort field to its SQL expression.
type Column struct {
	Name    string
	Numeric bool
}

// ApplyFilters adds one WHERE clause per known filter key. Comma separated values become IN lists.
func ApplyFilters(builder sq.SelectBuilder, filter types.Filter, allowed map[string]Column) sq.SelectBuilder {
	for field, val := range filter.Filter {
		col, ok := allowed[field]
		if !ok {
			continue
		}

		items := strings.Split(fmt.Sprintf("%v", val), ",")
		if !col.Numeric {
			if len(items) > 1 {
				builder = builder.Where(sq.Eq{col.Name: items})
			} else {
				builder = builder.Where(sq.Eq{col.Name: items[0]})
			}
			continue
		}

		ids := make([]uint64, 0, len(items))
		for _, item := range items {
			id, err := strconv.ParseUint(strings.TrimSpace(item), 10, 64)
			if err != nil {
				// an unparsable id can never match
				return builder.Where("1 = 0")
			}
			ids = append(ids, id)
		}
		if len(ids) == 1 {
			builder = builder.Where(sq.Eq{col.Name: ids[0]})
		} else {
			builder = builder.Where(sq.Eq{col.Name: ids})
		}
	}
	return builder
}

// ApplySearch adds a case-insensitive match of filter.Search over the given columns.
func ApplySearch(builder sq.SelectBuilder, filter types.Filter, columns ...string) sq.SelectBuilder {
	if filter.Search == "" || len(columns) == 0 {
		return builder
	}
	or := sq.Or{}
	for _, c := range columns {
		or = append(or, sq.ILike{c: "%" + filter.Search + "%"})
	}
	return builder.Where(or)
}

// ApplySortAndPage orders by the requested known fields, falling back to defaultOrder, then paginates.
func ApplySortAndPage(builder sq.SelectBuilder, filter types.Filter, allowed map[string]Column, defaultOrder string) sq.SelectBuilder {
	fields := make([]string, 0, len(filter.Sort))
	for f := range filter.Sort {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	ordered := false
	for _, field := range fields {
		col, ok := allowed[field]
		if !ok {
			continue
		}
		dir := "ASC"
		if strings.ToLower(filter.Sort[field]) == "desc" {
			dir = "DESC"
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", col.Name, dir))
		ordered = true
	}
	if !ordered && defaultOrder != "" {
		builder = builder.OrderBy(defaultOrder)
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}
	return builder
}
