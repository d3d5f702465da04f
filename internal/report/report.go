// Package report aggregates record collections into totals, calendar
// buckets, rolling-window statistics and tag rankings.
//
// Every function is a pure single pass over its input and never mutates
// the records. Amounts are summed in the native amount field. Records
// whose date cannot be parsed are left out of calendar aggregations.
package report

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

var ErrMalformedDate = errors.New("malformed record date")

// Totals is the income, expense and net (income minus expense) of a set of records.
type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

func (t *Totals) add(r *record.Record) {
	switch r.Type {
	case record.TypeIncome:
		t.Income = t.Income.Add(r.Amount)
	case record.TypeExpense:
		t.Expense = t.Expense.Add(r.Amount)
	}

	t.Net = t.Income.Sub(t.Expense)
}

// PeriodFilter selects a calendar year and optionally a month within it.
// Month is ignored when Year is nil.
type PeriodFilter struct {
	Year  *int
	Month *time.Month
}

func (f PeriodFilter) match(d time.Time) bool {
	if f.Year == nil {
		return true
	}

	if d.Year() != *f.Year {
		return false
	}

	return f.Month == nil || d.Month() == *f.Month
}

// SumByPeriod totals the records dated inside the period.
func SumByPeriod(records []*record.Record, f PeriodFilter) Totals {
	var t Totals

	for _, r := range records {
		d, ok := calendarDate(r)
		if !ok || !f.match(d) {
			continue
		}

		t.add(r)
	}

	return t
}

// calendarDate parses a record date for year/month/day bucketing.
func calendarDate(r *record.Record) (time.Time, bool) {
	d, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return time.Time{}, false
	}

	return d, true
}
