// Package drilldown navigates the trend chart between year, month and day
// granularity. State is a plain value; transitions return a new State.
package drilldown

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
	"github.com/MrJamesThe3rd/ezexpenses/internal/report"
)

type Level string

const (
	YearOverview  Level = "years"
	MonthOverview Level = "months"
	DayOverview   Level = "days"
)

// State is the current chart view. Year is set at MonthOverview and
// DayOverview; Month only at DayOverview.
type State struct {
	Level Level      `json:"level"`
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
}

func Years() State {
	return State{Level: YearOverview}
}

func Months(year int) State {
	return State{Level: MonthOverview, Year: year}
}

func Days(year int, month time.Month) State {
	return State{Level: DayOverview, Year: year, Month: month}
}

// Initial is the month overview of now's year.
func Initial(now time.Time) State {
	return Months(now.Year())
}

// Parse builds a State from its wire parts, validating the fields each level needs.
func Parse(level string, year, month int) (State, error) {
	switch Level(level) {
	case YearOverview:
		return Years(), nil
	case MonthOverview:
		if !validYear(year) {
			return State{}, fmt.Errorf("year %d out of range", year)
		}

		return Months(year), nil
	case DayOverview:
		if !validYear(year) {
			return State{}, fmt.Errorf("year %d out of range", year)
		}

		if month < 1 || month > 12 {
			return State{}, fmt.Errorf("month %d out of range", month)
		}

		return Days(year, time.Month(month)), nil
	}

	return State{}, fmt.Errorf("unknown level %q", level)
}

// validYear keeps years within what a YYYY-MM-DD date can hold.
func validYear(y int) bool {
	return y >= 1 && y <= 9999
}

// Select drills into the bar with the given label. It reports false and
// returns the state unchanged when the label does not name a bar of the
// current level or the state is already at day granularity.
func (s State) Select(label string) (State, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil {
		return s, false
	}

	switch s.Level {
	case YearOverview:
		if !validYear(n) {
			return s, false
		}

		return Months(n), true
	case MonthOverview:
		if n < 1 || n > 12 {
			return s, false
		}

		return Days(s.Year, time.Month(n)), true
	}

	return s, false
}

// Back moves one level up. YearOverview is the top.
func (s State) Back() State {
	switch s.Level {
	case DayOverview:
		return Months(s.Year)
	case MonthOverview:
		return Years()
	}

	return s
}

func (s State) CanGoBack() bool {
	return s.Level != YearOverview
}

// Title names the view for display.
func (s State) Title() string {
	switch s.Level {
	case MonthOverview:
		return fmt.Sprintf("%d by month", s.Year)
	case DayOverview:
		return fmt.Sprintf("%s %d by day", s.Month, s.Year)
	}

	return "All years"
}

// Period is the part of the calendar the state covers.
func (s State) Period() report.PeriodFilter {
	switch s.Level {
	case MonthOverview:
		return report.PeriodFilter{Year: new(s.Year)}
	case DayOverview:
		return report.PeriodFilter{Year: new(s.Year), Month: new(s.Month)}
	}

	return report.PeriodFilter{}
}

// Chart is everything a bar chart view renders for one state.
type Chart struct {
	State    State           `json:"state"`
	Title    string          `json:"title"`
	Buckets  []report.Bucket `json:"buckets"`
	Averages report.Averages `json:"averages"`
	Summary  report.Totals   `json:"summary"`
}

// Chart buckets records at the state's granularity and totals the covered period.
func (s State) Chart(records []*record.Record) Chart {
	var buckets []report.Bucket

	switch s.Level {
	case MonthOverview:
		buckets = report.ByMonthOfYear(records, s.Year)
	case DayOverview:
		buckets = report.ByDayOfMonth(records, s.Year, s.Month)
	default:
		buckets = report.ByYear(records)
	}

	return Chart{
		State:    s,
		Title:    s.Title(),
		Buckets:  buckets,
		Averages: report.BucketAverages(buckets),
		Summary:  report.SumByPeriod(records, s.Period()),
	}
}
