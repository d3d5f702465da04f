package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

// trailingDays is both the window length and the divisor of the trailing average.
const trailingDays = 7

type RollingStats struct {
	ThisMonthExpense   decimal.Decimal `json:"thisMonthExpense"`
	LastMonthExpense   decimal.Decimal `json:"lastMonthExpense"`
	Last7DayAvgExpense decimal.Decimal `json:"last7DayAvgExpense"`
	ThisMonthIncome    decimal.Decimal `json:"thisMonthIncome"`
	LastMonthIncome    decimal.Decimal `json:"lastMonthIncome"`
	Last7DayAvgIncome  decimal.Decimal `json:"last7DayAvgIncome"`
}

// RollingWindowStats sums the current month, the previous month and the
// trailing seven days ending at now. Record dates are read as midnight in
// now's location. The trailing sums are divided by seven regardless of how
// many days had records.
//
// A record with an unparseable date yields zero stats and an error wrapping
// ErrMalformedDate.
func RollingWindowStats(records []*record.Record, now time.Time) (RollingStats, error) {
	loc := now.Location()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	nextMonth := thisMonth.AddDate(0, 1, 0)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	windowStart := now.Add(-trailingDays * 24 * time.Hour)

	var thisM, lastM, week Totals

	for _, r := range records {
		d, err := time.ParseInLocation(time.DateOnly, r.Date, loc)
		if err != nil {
			return RollingStats{}, fmt.Errorf("%w: record %d has date %q", ErrMalformedDate, r.ID, r.Date)
		}

		if !d.Before(thisMonth) && d.Before(nextMonth) {
			thisM.add(r)
		}

		if !d.Before(lastMonth) && d.Before(thisMonth) {
			lastM.add(r)
		}

		if !d.Before(windowStart) && !d.After(now) {
			week.add(r)
		}
	}

	days := decimal.NewFromInt(trailingDays)

	return RollingStats{
		ThisMonthExpense:   thisM.Expense,
		LastMonthExpense:   lastM.Expense,
		Last7DayAvgExpense: week.Expense.Div(days),
		ThisMonthIncome:    thisM.Income,
		LastMonthIncome:    lastM.Income,
		Last7DayAvgIncome:  week.Income.Div(days),
	}, nil
}
