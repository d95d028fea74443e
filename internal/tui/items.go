package tui

import (
	"fmt"
	"strings"

	"agentdeck/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type agentItem struct {
	agent model.Agent
	saved bool
}

func (i agentItem) FilterValue() string {
	return strings.TrimSpace(i.agent.Name + " " + i.agent.OwnerName)
}

func (i agentItem) Title() string {
	title := i.agent.Name
	if i.saved {
		title += " " + lipgloss.NewStyle().Foreground(colorStarFg).Render("★")
	}
	return title
}

func (i agentItem) Description() string {
	return fmt.Sprintf("%s  ↓%d  ★%d  runs:%d", i.agent.OwnerName, i.agent.Downloads, i.agent.Stars, i.agent.TasksExecuted)
}

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return strings.TrimSpace(i.task.Name) }
func (i taskItem) Title() string       { return i.task.Name }
func (i taskItem) Description() string {
	if i.task.CreatedTime == "" {
		return i.task.ID
	}
	return i.task.CreatedTime
}

type keyItem struct {
	key model.APIKey
}

func (i keyItem) FilterValue() string { return strings.TrimSpace(i.key.Name + " " + i.key.Provider) }
func (i keyItem) Title() string       { return i.key.Name }
func (i keyItem) Description() string { return i.key.Provider }

type bugItem struct {
	bug model.Bug
}

func (i bugItem) FilterValue() string { return strings.TrimSpace(i.bug.Name) }

func (i bugItem) Title() string {
	marker := "○"
	if i.bug.Status == model.BugClosed {
		marker = "●"
	}
	return marker + " " + i.bug.Name
}

func (i bugItem) Description() string {
	if i.bug.Description == "" {
		return string(i.bug.Status)
	}
	return string(i.bug.Status) + "  " + i.bug.Description
}

type memberItem struct {
	user model.User
}

func (i memberItem) FilterValue() string { return strings.TrimSpace(i.user.Name + " " + i.user.Email) }
func (i memberItem) Title() string       { return i.user.Name }
func (i memberItem) Description() string { return i.user.Email }

func newList(items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	// The dashboard renders its own header, footer and filter line.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Filtering is handled by the dashboard's own filter line so the derived
	// view stays consistent with the CLI flags.
	l.SetFilteringEnabled(false)
	// The list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("ctrl+c")
	return l
}
