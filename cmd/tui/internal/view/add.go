package view

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
	"github.com/MrJamesThe3rd/ezexpenses/internal/tagpool"
)

type addState int

const (
	addStateLoading addState = iota
	addStateForm
	addStateSaving
)

// AddModel is the record entry form. ctrl+l copies the most recently
// created record into the form, keeping today's date.
type AddModel struct {
	CommonModel
	recordService *record.Service
	tagService    *tagpool.Service

	state addState
	form  *huh.Form
	input *recordForm
	tags  []string
	last  *record.Record

	status string
	err    error
}

func NewAddModel(recordSvc *record.Service, tagSvc *tagpool.Service) AddModel {
	return AddModel{
		recordService: recordSvc,
		tagService:    tagSvc,
	}
}

func (m AddModel) Title() string { return "Add Record" }

func (m AddModel) ShortHelp() string {
	return "Esc: back | ctrl+l: load last record | Enter: next field"
}

func (m AddModel) Init() tea.Cmd {
	return m.loadCmd()
}

func today() string {
	return time.Now().Format(time.DateOnly)
}

func (m *AddModel) resetForm(from *record.Record) tea.Cmd {
	m.input = newRecordForm(today())

	if from != nil {
		m.input.fill(from)
		m.input.Date = today()
	}

	m.form = m.input.build("New Record", m.tags)
	m.state = addStateForm

	return m.form.Init()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addLoadedMsg:
		m.tags = msg.tags
		m.last = msg.last
		if msg.err != nil {
			m.status = fmt.Sprintf("Suggestions unavailable: %v", msg.err)
		}

		return m, m.resetForm(nil)

	case addSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = addStateForm
			m.form = m.input.build("New Record", m.tags)

			return m, m.form.Init()
		}

		m.err = nil
		m.last = msg.record
		m.tags = appendNew(m.tags, msg.record.Tags)
		m.status = fmt.Sprintf("Saved %s %s %s on %s.",
			msg.record.Type, FormatAmount(msg.record.Amount), msg.record.Currency, msg.record.Date)

		return m, m.resetForm(nil)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "ctrl+l":
			if m.state == addStateForm && m.last != nil {
				m.status = "Loaded last record."
				return m, m.resetForm(m.last)
			}
		}
	}

	if m.state != addStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = addStateSaving

	return m, m.saveCmd(m.input)
}

func (m AddModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case addStateLoading:
		return style.Render("Loading...")
	case addStateSaving:
		return style.Render("Saving...")
	}

	header := ""
	if m.err != nil {
		header = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	} else if m.status != "" {
		header = faintStyle.Render(m.status) + "\n\n"
	}

	return style.Render(header + m.form.View())
}

func appendNew(pool, tags []string) []string {
	seen := make(map[string]struct{}, len(pool))
	for _, t := range pool {
		seen[t] = struct{}{}
	}

	for _, t := range tags {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			pool = append(pool, t)
		}
	}

	return pool
}

type addLoadedMsg struct {
	tags []string
	last *record.Record
	err  error
}

func (m AddModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		tags, err := m.tagService.List(ctx)
		if err != nil {
			return addLoadedMsg{err: err}
		}

		last, err := m.recordService.Last(ctx)
		if err != nil && !errors.Is(err, record.ErrNotFound) {
			return addLoadedMsg{tags: tags, err: err}
		}

		return addLoadedMsg{tags: tags, last: last}
	}
}

type addSavedMsg struct {
	record *record.Record
	err    error
}

func (m AddModel) saveCmd(input *recordForm) tea.Cmd {
	return func() tea.Msg {
		params, err := input.params()
		if err != nil {
			return addSavedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		rec, err := m.recordService.Create(ctx, params)

		return addSavedMsg{record: rec, err: err}
	}
}
