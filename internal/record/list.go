package record

import (
	"cmp"
	"slices"
)

type SortField string

const (
	SortDate      SortField = "date"
	SortAmount    SortField = "amount"
	SortType      SortField = "type"
	SortCreatedAt SortField = "createdAt"
)

func (f SortField) Valid() bool {
	switch f {
	case "", SortDate, SortAmount, SortType, SortCreatedAt:
		return true
	}

	return false
}

// ListFilter narrows and orders a record collection. Zero value keeps
// everything, newest date first.
type ListFilter struct {
	Type      *Type
	Tags      []string // a record must carry all of them
	StartDate *string  // inclusive YYYY-MM-DD
	EndDate   *string  // inclusive YYYY-MM-DD
	SortBy    SortField
	Asc       bool
}

// Apply returns the matching records in order. The input is not modified.
func (f ListFilter) Apply(recs []*Record) []*Record {
	out := make([]*Record, 0, len(recs))

	for _, r := range recs {
		if f.match(r) {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, f.compare)

	return out
}

func (f ListFilter) match(r *Record) bool {
	if f.Type != nil && r.Type != *f.Type {
		return false
	}

	// YYYY-MM-DD compares lexically in date order.
	if f.StartDate != nil && r.Date < *f.StartDate {
		return false
	}

	if f.EndDate != nil && r.Date > *f.EndDate {
		return false
	}

	for _, tag := range f.Tags {
		if !r.HasTag(tag) {
			return false
		}
	}

	return true
}

func (f ListFilter) compare(a, b *Record) int {
	var c int

	switch f.SortBy {
	case SortAmount:
		c = a.Amount.Cmp(b.Amount)
	case SortType:
		c = cmp.Compare(a.Type, b.Type)
	case SortCreatedAt:
		c = cmp.Compare(a.CreatedAt, b.CreatedAt)
	default:
		c = cmp.Compare(a.Date, b.Date)
	}

	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}

	if f.Asc {
		return c
	}

	return -c
}
