package record

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

// ParseListFilter reads type, tag (repeatable), start_date, end_date, sort
// and order query parameters.
func ParseListFilter(q url.Values) (record.ListFilter, error) {
	var filter record.ListFilter

	if s := q.Get("type"); s != "" {
		t := record.Type(s)
		if !t.Valid() {
			return filter, record.ErrInvalidType
		}

		filter.Type = new(t)
	}

	filter.Tags = q["tag"]

	if s := q.Get("start_date"); s != "" {
		if !record.ValidDate(s) {
			return filter, fmt.Errorf("start_date: %w", record.ErrInvalidDate)
		}

		filter.StartDate = new(s)
	}

	if s := q.Get("end_date"); s != "" {
		if !record.ValidDate(s) {
			return filter, fmt.Errorf("end_date: %w", record.ErrInvalidDate)
		}

		filter.EndDate = new(s)
	}

	filter.SortBy = record.SortField(q.Get("sort"))
	if !filter.SortBy.Valid() {
		return filter, fmt.Errorf("unknown sort field %q", filter.SortBy)
	}

	switch q.Get("order") {
	case "", "desc":
	case "asc":
		filter.Asc = true
	default:
		return filter, fmt.Errorf("order must be asc or desc")
	}

	return filter, nil
}

// page reads limit and offset. A zero limit means everything.
func page(q url.Values) (limit, offset int, err error) {
	if s := q.Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("invalid limit %q", s)
		}
	}

	if s := q.Get("offset"); s != "" {
		if offset, err = strconv.Atoi(s); err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", s)
		}
	}

	return limit, offset, nil
}
