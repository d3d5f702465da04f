package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
	listStateConfirmDelete
)

var (
	typeFilterLabels = []string{"All", "Expense", "Income"}
	dateFilterLabels = []string{"All Time", "This Month", "Last Month"}
)

type ListModel struct {
	CommonModel
	recordService *record.Service

	state   listState
	table   table.Model
	records []*record.Record
	form    *huh.Form
	edit    *recordForm
	editing *record.Record

	typeFilterIdx int
	dateFilterIdx int

	filter  record.ListFilter
	loading bool
	err     error
	status  string
}

func NewListModel(svc *record.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 12},
		{Title: "Cur", Width: 4},
		{Title: "USD", Width: 12},
		{Title: "Tags", Width: 24},
		{Title: "Note", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		recordService: svc,
		table:         t,
		loading:       true,
	}
}

func (m ListModel) Title() string { return "Records" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	case listStateConfirmDelete:
		return "y: delete | any other key: cancel"
	}

	return "Esc: back | e: edit | x: delete | t: type filter | d: date filter | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadRecordsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.records = msg.records
			m.refreshTable()
		}

		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadRecordsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	case listStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m ListModel) selected() *record.Record {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}

	return m.records[idx]
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadRecordsCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			if m.selected() != nil {
				m.state = listStateConfirmDelete
			}

			return m, nil
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilterLabels)
			m.applyFilter(time.Now())

			return m, m.loadRecordsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilterLabels)
			m.applyFilter(time.Now())

			return m, m.loadRecordsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.state = listStateBrowse

	if keyMsg.String() != "y" {
		return m, nil
	}

	return m, m.deleteCmd(m.selected())
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	rec := m.selected()
	if rec == nil {
		return m, nil
	}

	m.editing = rec
	m.edit = newRecordForm(rec.Date)
	m.edit.fill(rec)
	m.form = m.edit.build("Edit Record", nil)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd(m.editing, m.edit)
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s | %d records",
		activeStyle(typeFilterLabels[m.typeFilterIdx]),
		activeStyle(dateFilterLabels[m.dateFilterIdx]),
		len(m.records),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.state == listStateConfirmDelete {
		if rec := m.selected(); rec != nil {
			content = errorStyle.Render(fmt.Sprintf(
				"Delete %s %s on %s? (y/N)", rec.Type, FormatAmount(rec.Amount), rec.Date,
			)) + "\n" + content
		}
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter(now time.Time) {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(record.TypeExpense)
	case 2:
		m.filter.Type = new(record.TypeIncome)
	default:
		m.filter.Type = nil
	}

	m.filter.StartDate, m.filter.EndDate = nil, nil

	tf := TimeframeAll

	switch m.dateFilterIdx {
	case 1:
		tf = TimeframeThisMonth
	case 2:
		tf = TimeframeLastMonth
	}

	if start, end, ok := DateRange(tf, now); ok {
		m.filter.StartDate, m.filter.EndDate = &start, &end
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{
			r.Date,
			string(r.Type),
			FormatAmount(r.Amount),
			string(r.Currency),
			FormatAmount(r.ConvertedUSD),
			FormatTags(r.Tags),
			r.Note,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

type loadListMsg struct {
	records []*record.Record
	err     error
}

func (m ListModel) loadRecordsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		recs, err := m.recordService.List(ctx, filter)

		return loadListMsg{records: recs, err: err}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd(rec *record.Record, edit *recordForm) tea.Cmd {
	return func() tea.Msg {
		params, err := edit.params()
		if err != nil {
			return listSaveMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := m.recordService.Update(ctx, rec.ID, params); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Record updated."}
	}
}

func (m ListModel) deleteCmd(rec *record.Record) tea.Cmd {
	if rec == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if err := m.recordService.Delete(ctx, rec.ID); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Record deleted."}
	}
}
