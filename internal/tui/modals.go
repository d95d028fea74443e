package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const modalMaxBodyWidth = 72

func modalBodyWidth(width int) int {
	w := width - 8
	if w > modalMaxBodyWidth {
		w = modalMaxBodyWidth
	}
	if w < 24 {
		w = 24
	}
	return w
}

func renderModalBox(width int, title, content string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Width(bodyW + 2).
		Padding(0, 1).
		Render(title)
	body := lipgloss.NewStyle().
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Width(bodyW + 2).
		Padding(1, 1).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmFocus) string {
	// No borders here: nesting bordered components inside a modal with a
	// background color produces artifacts on some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{body, "", controls, "", help}, "\n")
	return renderModalBox(width, title, content)
}

// renderInputLine keeps a text input on a single visual line inside a modal;
// stray newlines from cursor styling would otherwise look like wrapping.
func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")
	return truncateLine(" "+inputView+" ", bodyW)
}

const helpText = `1-6: switch view (agents/saved/tasks/keys/bugs/org)
/: filter   esc: clear filter / close modal
enter: details   o: onboarding info   r: refresh view
b: toggle bookmark (agents)   s: share (tasks/keys)
p: cycle provider (keys)   f: cycle status (bugs)
n: new task   d: delete task   x: toggle bug status
u: switch organization (org)
q: quit`

func renderHelpModal(width int) string {
	return renderModalBox(width, "Help", helpText)
}
