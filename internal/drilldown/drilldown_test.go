package drilldown_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ezexpenses/internal/drilldown"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

func TestInitial(t *testing.T) {
	got := drilldown.Initial(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, drilldown.Months(2024), got)
	assert.True(t, got.CanGoBack())
}

func TestSelect(t *testing.T) {
	type testCase struct {
		name   string
		from   drilldown.State
		label  string
		want   drilldown.State
		wantOK bool
	}

	tests := []testCase{
		{name: "YearToMonths", from: drilldown.Years(), label: "2023", want: drilldown.Months(2023), wantOK: true},
		{name: "MonthToDays", from: drilldown.Months(2024), label: "3", want: drilldown.Days(2024, time.March), wantOK: true},
		{name: "TrimsLabel", from: drilldown.Months(2024), label: " 12 ", want: drilldown.Days(2024, time.December), wantOK: true},
		{name: "MonthOutOfRange", from: drilldown.Months(2024), label: "13", want: drilldown.Months(2024)},
		{name: "MonthZero", from: drilldown.Months(2024), label: "0", want: drilldown.Months(2024)},
		{name: "Unparseable", from: drilldown.Years(), label: "abc", want: drilldown.Years()},
		{name: "NegativeYear", from: drilldown.Years(), label: "-7", want: drilldown.Years()},
		{name: "YearZero", from: drilldown.Years(), label: "0", want: drilldown.Years()},
		{name: "FiveDigitYear", from: drilldown.Years(), label: "99999", want: drilldown.Years()},
		{name: "DayLevelIsLeaf", from: drilldown.Days(2024, time.March), label: "5", want: drilldown.Days(2024, time.March)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.from.Select(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBack(t *testing.T) {
	s := drilldown.Days(2024, time.March)

	s = s.Back()
	assert.Equal(t, drilldown.Months(2024), s)

	s = s.Back()
	assert.Equal(t, drilldown.Years(), s)
	assert.False(t, s.CanGoBack())

	assert.Equal(t, drilldown.Years(), s.Back())
}

func TestSelectThenBackRoundTrips(t *testing.T) {
	start := drilldown.Months(2024)

	next, ok := start.Select("7")
	require.True(t, ok)
	assert.Equal(t, start, next.Back())

	top := drilldown.Years()
	next, ok = top.Select("2020")
	require.True(t, ok)
	assert.Equal(t, top, next.Back())
}

func TestParse(t *testing.T) {
	got, err := drilldown.Parse("days", 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, drilldown.Days(2024, time.February), got)

	got, err = drilldown.Parse("years", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, drilldown.Years(), got)

	_, err = drilldown.Parse("days", 2024, 13)
	assert.Error(t, err)

	_, err = drilldown.Parse("weeks", 2024, 1)
	assert.Error(t, err)

	_, err = drilldown.Parse("months", 0, 0)
	assert.ErrorContains(t, err, "year 0 out of range")

	_, err = drilldown.Parse("days", 10000, 1)
	assert.Error(t, err)
}

func TestChart(t *testing.T) {
	recs := []*record.Record{
		{Type: record.TypeExpense, Amount: decimal.NewFromInt(10), Date: "2023-05-01"},
		{Type: record.TypeExpense, Amount: decimal.NewFromInt(20), Date: "2024-02-10"},
		{Type: record.TypeIncome, Amount: decimal.NewFromInt(100), Date: "2024-02-29"},
		{Type: record.TypeExpense, Amount: decimal.NewFromInt(5), Date: "2024-03-01"},
	}

	type testCase struct {
		name        string
		state       drilldown.State
		wantBuckets int
		wantExpense int64
		wantIncome  int64
	}

	tests := []testCase{
		{name: "Years", state: drilldown.Years(), wantBuckets: 2, wantExpense: 35, wantIncome: 100},
		{name: "Months", state: drilldown.Months(2024), wantBuckets: 12, wantExpense: 25, wantIncome: 100},
		{name: "Days", state: drilldown.Days(2024, time.February), wantBuckets: 29, wantExpense: 20, wantIncome: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.state.Chart(recs)
			assert.Equal(t, tt.state, got.State)
			assert.Len(t, got.Buckets, tt.wantBuckets)
			assert.NotEmpty(t, got.Title)
			assert.True(t, decimal.NewFromInt(tt.wantExpense).Equal(got.Summary.Expense))
			assert.True(t, decimal.NewFromInt(tt.wantIncome).Equal(got.Summary.Income))
		})
	}
}
