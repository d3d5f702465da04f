package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/drilldown"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
	"github.com/MrJamesThe3rd/ezexpenses/internal/report"
)

const barWidth = 30

type ReportModel struct {
	CommonModel
	recordService *record.Service
	now           func() time.Time

	records []*record.Record
	state   drilldown.State
	chart   drilldown.Chart
	cursor  int

	rolling    report.RollingStats
	rollingErr error
	topTags    []report.TagTotal

	loading bool
	err     error
}

func NewReportModel(svc *record.Service) ReportModel {
	now := time.Now

	return ReportModel{
		recordService: svc,
		now:           now,
		state:         drilldown.Initial(now()),
		loading:       true,
	}
}

func (m ReportModel) Title() string { return "Report" }

func (m ReportModel) ShortHelp() string {
	return "←/→: move | Enter: drill down | Esc/Backspace: up | r: refresh"
}

func (m ReportModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.records = msg.records
			m.rolling, m.rollingErr = report.RollingWindowStats(m.records, m.now())
			m.topTags = report.TopTagsByAmount(m.records, record.TypeExpense, report.DefaultTagLimit)
			m.show(m.state, m.cursor)
		}

		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m ReportModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h", "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l", "down", "j":
		if m.cursor < len(m.chart.Buckets)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.chart.Buckets) {
			if next, ok := m.state.Select(m.chart.Buckets[m.cursor].Label); ok {
				m.show(next, 0)
			}
		}
	case "esc", "backspace":
		if !m.state.CanGoBack() {
			return m, Back
		}

		prev := m.state
		m.show(m.state.Back(), 0)
		m.cursor = m.indexOf(prev)
	case "r":
		m.loading = true
		return m, m.loadCmd()
	}

	return m, nil
}

func (m *ReportModel) show(s drilldown.State, cursor int) {
	m.state = s
	m.chart = s.Chart(m.records)
	m.cursor = min(cursor, max(len(m.chart.Buckets)-1, 0))
}

// indexOf finds the bar that drills into child, so going back keeps it selected.
func (m ReportModel) indexOf(child drilldown.State) int {
	want := strconv.Itoa(child.Year)
	if child.Level == drilldown.DayOverview {
		want = strconv.Itoa(int(child.Month))
	}

	for i, b := range m.chart.Buckets {
		if b.Label == want {
			return i
		}
	}

	return 0
}

func (m ReportModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	title := lipgloss.NewStyle().Bold(true).Render(m.chart.Title)

	chart := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		renderBars(m.chart, m.cursor),
		"",
		fmt.Sprintf("Income %s  Expense %s  Net %s",
			incomeStyle.Render(FormatAmount(m.chart.Summary.Income)),
			expenseStyle.Render(FormatAmount(m.chart.Summary.Expense)),
			FormatAmount(m.chart.Summary.Net)),
		faintStyle.Render(fmt.Sprintf("Average per bar: income %s, expense %s",
			FormatAmount(m.chart.Averages.Income), FormatAmount(m.chart.Averages.Expense))),
	)

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		MarginLeft(2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(40).
		Render(m.viewPanel())

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinHorizontal(lipgloss.Top, chart, panel))
}

func (m ReportModel) viewPanel() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Recent"))
	b.WriteString("\n")

	if m.rollingErr != nil {
		b.WriteString(errorStyle.Render("Stats unavailable: " + m.rollingErr.Error()))
	} else {
		s := m.rolling
		fmt.Fprintf(&b, "This month  %s / %s\n",
			incomeStyle.Render(FormatAmount(s.ThisMonthIncome)), expenseStyle.Render(FormatAmount(s.ThisMonthExpense)))
		fmt.Fprintf(&b, "Last month  %s / %s\n",
			incomeStyle.Render(FormatAmount(s.LastMonthIncome)), expenseStyle.Render(FormatAmount(s.LastMonthExpense)))
		fmt.Fprintf(&b, "7-day avg   %s / %s",
			incomeStyle.Render(FormatAmount(s.Last7DayAvgIncome)), expenseStyle.Render(FormatAmount(s.Last7DayAvgExpense)))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Top expense tags"))
	b.WriteString("\n")

	if len(m.topTags) == 0 {
		b.WriteString(faintStyle.Render("no tagged expenses"))
	}

	for i, t := range m.topTags {
		fmt.Fprintf(&b, "%d. %-16s %s\n", i+1, t.Tag, FormatAmount(t.Total))
	}

	return b.String()
}

// barLen scales v against peak to at most width cells. Any non-zero value
// gets at least one cell.
func barLen(v, peak decimal.Decimal, width int) int {
	if !v.IsPositive() || !peak.IsPositive() {
		return 0
	}

	n := int(v.Div(peak).Mul(decimal.NewFromInt(int64(width))).IntPart())

	return max(n, 1)
}

func barLabel(level drilldown.Level, label string) string {
	if level != drilldown.MonthOverview {
		return label
	}

	n, err := strconv.Atoi(label)
	if err != nil || n < 1 || n > 12 {
		return label
	}

	return time.Month(n).String()[:3]
}

func renderBars(chart drilldown.Chart, cursor int) string {
	if len(chart.Buckets) == 0 {
		return faintStyle.Render("no records yet")
	}

	peak := decimal.Zero
	for _, b := range chart.Buckets {
		peak = decimal.Max(peak, b.Income, b.Expense)
	}

	lines := make([]string, 0, len(chart.Buckets))

	for i, b := range chart.Buckets {
		marker := "  "
		if i == cursor {
			marker = activeStyle("> ")
		}

		in := strings.Repeat("█", barLen(b.Income, peak, barWidth))
		out := strings.Repeat("█", barLen(b.Expense, peak, barWidth))

		lines = append(lines, fmt.Sprintf("%s%-5s %s %s\n       %s %s",
			marker, barLabel(chart.State.Level, b.Label),
			incomeStyle.Render(in), faintStyle.Render(FormatAmount(b.Income)),
			expenseStyle.Render(out), faintStyle.Render(FormatAmount(b.Expense)),
		))
	}

	return strings.Join(lines, "\n")
}

type reportLoadedMsg struct {
	records []*record.Record
	err     error
}

func (m ReportModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		recs, err := m.recordService.All(ctx)

		return reportLoadedMsg{records: recs, err: err}
	}
}
