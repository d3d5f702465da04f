package report

import (
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

// Bucket is one bar of a trend chart.
type Bucket struct {
	Label   string          `json:"label"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

func (b *Bucket) add(r *record.Record) {
	switch r.Type {
	case record.TypeIncome:
		b.Income = b.Income.Add(r.Amount)
	case record.TypeExpense:
		b.Expense = b.Expense.Add(r.Amount)
	}
}

// ByYear returns one bucket per distinct year present, oldest first.
func ByYear(records []*record.Record) []Bucket {
	byYear := make(map[int]*Bucket)

	for _, r := range records {
		d, ok := calendarDate(r)
		if !ok {
			continue
		}

		b, found := byYear[d.Year()]
		if !found {
			b = &Bucket{Label: strconv.Itoa(d.Year())}
			byYear[d.Year()] = b
		}

		b.add(r)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}

	slices.Sort(years)

	out := make([]Bucket, len(years))
	for i, y := range years {
		out[i] = *byYear[y]
	}

	return out
}

// ByMonthOfYear returns twelve buckets labelled "1".."12", zero-filled.
func ByMonthOfYear(records []*record.Record, year int) []Bucket {
	out := make([]Bucket, 12)
	for i := range out {
		out[i].Label = strconv.Itoa(i + 1)
	}

	for _, r := range records {
		d, ok := calendarDate(r)
		if !ok || d.Year() != year {
			continue
		}

		out[d.Month()-1].add(r)
	}

	return out
}

// ByDayOfMonth returns one bucket per calendar day of the month, labelled "1".."N".
func ByDayOfMonth(records []*record.Record, year int, month time.Month) []Bucket {
	out := make([]Bucket, DaysIn(year, month))
	for i := range out {
		out[i].Label = strconv.Itoa(i + 1)
	}

	for _, r := range records {
		d, ok := calendarDate(r)
		if !ok || d.Year() != year || d.Month() != month {
			continue
		}

		out[d.Day()-1].add(r)
	}

	return out
}

// DaysIn returns the number of days in the month, honouring leap years.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Averages is the mean income and expense across a bucket series.
type Averages struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// BucketAverages averages over every bucket, empty ones included.
func BucketAverages(buckets []Bucket) Averages {
	if len(buckets) == 0 {
		return Averages{}
	}

	var income, expense decimal.Decimal

	for _, b := range buckets {
		income = income.Add(b.Income)
		expense = expense.Add(b.Expense)
	}

	n := decimal.NewFromInt(int64(len(buckets)))

	return Averages{Income: income.Div(n), Expense: expense.Div(n)}
}
