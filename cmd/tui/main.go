package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/ezexpenses/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/ezexpenses/internal/config"
	"github.com/MrJamesThe3rd/ezexpenses/internal/export"
	"github.com/MrJamesThe3rd/ezexpenses/internal/importer"
	"github.com/MrJamesThe3rd/ezexpenses/internal/logging"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
	recordStore "github.com/MrJamesThe3rd/ezexpenses/internal/record/store"
	"github.com/MrJamesThe3rd/ezexpenses/internal/storage"
	"github.com/MrJamesThe3rd/ezexpenses/internal/tagpool"
	tagStore "github.com/MrJamesThe3rd/ezexpenses/internal/tagpool/store"
)

type model struct {
	recordService *record.Service
	tagService    *tagpool.Service
	importService *importer.Service
	exportService *export.Service

	currentView View
	screen      view.View
}

type View int

const (
	ViewMenu View = iota
	ViewAdd
	ViewList
	ViewReport
	ViewImport
	ViewExport
)

var menu = []struct {
	key   string
	label string
	view  View
}{
	{"1", "Add Record", ViewAdd},
	{"2", "Browse Records", ViewList},
	{"3", "Report", ViewReport},
	{"4", "Import Spreadsheet", ViewImport},
	{"5", "Export Spreadsheet", ViewExport},
}

func (m model) open(v View) view.View {
	switch v {
	case ViewAdd:
		return view.NewAddModel(m.recordService, m.tagService)
	case ViewList:
		return view.NewListModel(m.recordService)
	case ViewReport:
		return view.NewReportModel(m.recordService)
	case ViewImport:
		return view.NewImportModel(m.importService)
	case ViewExport:
		return view.NewExportModel(m.exportService)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			if msg.String() == "q" {
				return m, tea.Quit
			}

			for _, item := range menu {
				if msg.String() == item.key {
					m.currentView = item.view
					m.screen = m.open(item.view)

					return m, m.screen.Init()
				}
			}

			return m, nil
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.screen = nil

		return m, nil
	}

	if m.screen == nil {
		return m, nil
	}

	next, cmd := m.screen.Update(msg)
	if s, ok := next.(view.View); ok {
		m.screen = s
	}

	return m, cmd
}

var helpStyle = lipgloss.NewStyle().Faint(true).PaddingLeft(1)

func (m model) View() string {
	if m.currentView == ViewMenu || m.screen == nil {
		s := "ezexpenses\n\n"
		for _, item := range menu {
			s += fmt.Sprintf("%s. %s\n", item.key, item.label)
		}

		return lipgloss.NewStyle().Padding(2).Render(s + "\nq. Quit")
	}

	header := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.screen.Title())

	return lipgloss.JoinVertical(lipgloss.Left, header, m.screen.View(), helpStyle.Render(m.screen.ShortHelp()))
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to bubbletea, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "path", cfg.Log.File, "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if _, err := logging.Setup(logFile, cfg.Log.Level, cfg.Log.Format); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := storage.Open(cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		fmt.Fprintf(os.Stderr, "failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	tagSvc := tagpool.NewService(tagStore.New(store))
	recordSvc := record.NewService(recordStore.New(store), tagSvc)

	m := model{
		recordService: recordSvc,
		tagService:    tagSvc,
		importService: importer.NewService(recordSvc),
		exportService: export.NewService(recordSvc),
		currentView:   ViewMenu,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
