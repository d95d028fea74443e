package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"agentdeck/internal/model"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width. Creating a renderer with WithAutoStyle
	// can block on terminal capability queries; a fixed style plus caching
	// keeps modal rendering fast and predictable.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	mdRendererMu.Lock()
	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// agentMarkdown builds the agent-info document shown in the details modal.
func agentMarkdown(a model.Agent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Name)
	fmt.Fprintf(&b, "by **%s**  ·  %d downloads  ·  %d stars  ·  %d runs\n\n", a.OwnerName, a.Downloads, a.Stars, a.TasksExecuted)

	for _, para := range a.Description {
		if strings.TrimSpace(para) == "" {
			continue
		}
		b.WriteString(para)
		b.WriteString("\n\n")
	}

	if mi := a.Marketplace; mi != nil {
		b.WriteString("## Marketplace\n\n")
		if mi.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", mi.Summary)
		}
		if mi.Category != "" {
			fmt.Fprintf(&b, "- Category: %s\n", mi.Category)
		}
		if mi.CostPerRun > 0 {
			fmt.Fprintf(&b, "- Cost per run: $%.4f\n", mi.CostPerRun)
		}
		if mi.Maintainers != "" {
			fmt.Fprintf(&b, "- Maintainers: %s\n", mi.Maintainers)
		}
		if mi.DemoURL != "" {
			fmt.Fprintf(&b, "- Demo: %s\n", mi.DemoURL)
		}
		b.WriteString("\n")
	}

	if ti := a.Technical; ti != nil {
		b.WriteString("## Technical\n\n")
		if ti.BaseAPI != "" {
			fmt.Fprintf(&b, "- Base API: `%s`\n", ti.BaseAPI)
		}
		if len(ti.InputFields) > 0 {
			fmt.Fprintf(&b, "- Inputs: %s\n", strings.Join(ti.InputFields, ", "))
		}
		if len(ti.OutputFields) > 0 {
			fmt.Fprintf(&b, "- Outputs: %s\n", strings.Join(ti.OutputFields, ", "))
		}
		b.WriteString("\n")
	}

	if a.Repository != "" {
		fmt.Fprintf(&b, "Repository: %s\n", a.Repository)
	}
	return strings.TrimSpace(b.String())
}

// onboardingMarkdown renders published onboarding entries, newest first as
// returned by the backend, each with its steps as an ordered list.
func onboardingMarkdown(infos []model.OnboardingInfo) string {
	var b strings.Builder
	for i, info := range infos {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		for j, step := range info.Steps {
			if strings.TrimSpace(step) == "" {
				continue
			}
			fmt.Fprintf(&b, "%d. %s\n", j+1, step)
		}
		if strings.TrimSpace(info.Notes) != "" {
			fmt.Fprintf(&b, "\n> %s\n", info.Notes)
		}
	}
	return strings.TrimSpace(b.String())
}
