package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
	"github.com/MrJamesThe3rd/ezexpenses/internal/drilldown"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

func TestDateRange(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        Timeframe
		wantStart string
		wantEnd   string
		wantOK    bool
	}

	tests := []testCase{
		{name: "this month", tf: TimeframeThisMonth, wantStart: "2024-03-01", wantEnd: "2024-03-31", wantOK: true},
		{name: "last month in leap year", tf: TimeframeLastMonth, wantStart: "2024-02-01", wantEnd: "2024-02-29", wantOK: true},
		{name: "this year", tf: TimeframeThisYear, wantStart: "2024-01-01", wantEnd: "2024-12-31", wantOK: true},
		{name: "all time", tf: TimeframeAll},
		{name: "custom", tf: TimeframeCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := DateRange(tt.tf, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}

	start, end, _ := DateRange(TimeframeLastMonth, time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2023-12-01", start)
	assert.Equal(t, "2023-12-31", end)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"food", "lunch", "work"}, ParseTags(" food, lunch  work,"))
	assert.Empty(t, ParseTags("  ,  "))
}

func TestRecordForm_Params(t *testing.T) {
	f := newRecordForm("2024-03-10")
	f.Amount = " 12.50 "
	f.Tags = "food lunch"
	f.Note = " noodles "

	p, err := f.params()
	require.NoError(t, err)
	assert.Equal(t, record.TypeExpense, p.Type)
	assert.Equal(t, currency.Default, p.Currency)
	assert.True(t, decimal.RequireFromString("12.5").Equal(p.Amount))
	assert.Equal(t, []string{"food", "lunch"}, p.Tags)
	assert.Equal(t, "noodles", p.Note)

	f.Amount = "abc"
	_, err = f.params()
	assert.ErrorIs(t, err, record.ErrInvalidAmount)
}

func TestBarLen(t *testing.T) {
	peak := decimal.NewFromInt(100)

	assert.Equal(t, 0, barLen(decimal.Zero, peak, 30))
	assert.Equal(t, 1, barLen(decimal.RequireFromString("0.5"), peak, 30))
	assert.Equal(t, 15, barLen(decimal.NewFromInt(50), peak, 30))
	assert.Equal(t, 30, barLen(peak, peak, 30))
	assert.Equal(t, 0, barLen(decimal.NewFromInt(5), decimal.Zero, 30))
}

func TestBarLabel(t *testing.T) {
	assert.Equal(t, "Feb", barLabel(drilldown.MonthOverview, "2"))
	assert.Equal(t, "2024", barLabel(drilldown.YearOverview, "2024"))
	assert.Equal(t, "7", barLabel(drilldown.DayOverview, "7"))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m ReportModel, keys ...string) (ReportModel, tea.Cmd) {
	t.Helper()

	var (
		next tea.Model
		cmd  tea.Cmd
	)

	for _, k := range keys {
		next, cmd = m.Update(key(k))
		m = next.(ReportModel)
	}

	return m, cmd
}

func TestReportModel_Navigation(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	m := ReportModel{now: func() time.Time { return now }, state: drilldown.Initial(now), loading: true}

	recs := []*record.Record{
		{ID: 1, Type: record.TypeExpense, Amount: decimal.NewFromInt(30), Date: "2024-02-10", Tags: []string{"food"}},
		{ID: 2, Type: record.TypeIncome, Amount: decimal.NewFromInt(100), Date: "2023-05-01"},
	}

	next, _ := m.Update(reportLoadedMsg{records: recs})
	m = next.(ReportModel)

	require.False(t, m.loading)
	require.NoError(t, m.rollingErr)
	assert.Equal(t, drilldown.Months(2024), m.state)
	assert.Len(t, m.chart.Buckets, 12)
	require.Len(t, m.topTags, 1)
	assert.Equal(t, "food", m.topTags[0].Tag)

	m, _ = press(t, m, "right", "enter")
	assert.Equal(t, drilldown.Days(2024, time.February), m.state)
	assert.Len(t, m.chart.Buckets, 29)
	assert.Equal(t, 0, m.cursor)

	// Enter at day granularity is a no-op.
	m, _ = press(t, m, "enter")
	assert.Equal(t, drilldown.Days(2024, time.February), m.state)

	m, _ = press(t, m, "esc")
	assert.Equal(t, drilldown.Months(2024), m.state)
	assert.Equal(t, 1, m.cursor, "going back keeps February selected")

	m, _ = press(t, m, "backspace")
	assert.Equal(t, drilldown.Years(), m.state)
	require.Len(t, m.chart.Buckets, 2)
	assert.Equal(t, "2024", m.chart.Buckets[m.cursor].Label)

	_, cmd := press(t, m, "esc")
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}
