package tui

import (
	"time"

	"agentdeck/internal/api"
	"agentdeck/internal/model"
	"agentdeck/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Deps is everything the dashboard needs from the caller. The session store is
// shared so organization switches made elsewhere reach mounted views without a
// restart.
type Deps struct {
	Client  *api.Client
	Session *session.Store
	User    model.User
	Timeout time.Duration
}

func Run(deps Deps) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
