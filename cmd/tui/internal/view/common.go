package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is implemented by every screen reachable from the menu.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type CommonModel struct {
	Width  int
	Height int
}

// BackMsg returns control to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
