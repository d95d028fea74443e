package tui

import (
	"fmt"
	"sort"
	"strings"

	"agentdeck/internal/bookmarks"
	"agentdeck/internal/fetch"
	"agentdeck/internal/filter"
	"agentdeck/internal/model"
	"agentdeck/internal/share"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewAgents view = iota
	viewSaved
	viewTasks
	viewKeys
	viewBugs
	viewOrg
)

func (v view) title() string {
	switch v {
	case viewAgents:
		return "Marketplace"
	case viewSaved:
		return "Saved agents"
	case viewTasks:
		return "Tasks"
	case viewKeys:
		return "API keys"
	case viewBugs:
		return "Bugs"
	case viewOrg:
		return "Organization"
	}
	return ""
}

type modal int

const (
	modalNone modal = iota
	modalHelp
	modalAgentInfo
	modalOnboarding
	modalShare
	modalNewTask
	modalConfirmDelete
)

type appModel struct {
	deps Deps
	user model.User

	width  int
	height int

	view view

	filterInput textinput.Model
	filtering   bool

	agentsRes   fetch.Result[[]model.Agent]
	agentsStale bool
	agentsList  list.Model
	agentsGuard *fetch.Guard

	savedRes    fetch.Result[[]model.Agent]
	savedFailed []string
	savedList   list.Model
	savedGuard  *fetch.Guard

	tasksRes   fetch.Result[[]model.Task]
	tasksStale bool
	tasksList  list.Model
	tasksGuard *fetch.Guard

	keysRes   fetch.Result[[]model.APIKey]
	keysStale bool
	keysList  list.Model
	keysGuard *fetch.Guard

	bugsRes    fetch.Result[[]model.Bug]
	bugsFailed []string
	bugsList   list.Model
	bugsGuard  *fetch.Guard

	orgRes      fetch.Result[model.Organization]
	membersList list.Model
	orgGuard    *fetch.Guard

	marks      *bookmarks.Store
	bookmarked map[string]bool

	keyRecipients  *share.RecipientSet
	taskRecipients *share.RecipientSet

	modal           modal
	modalAgentRes   fetch.Result[model.Agent]
	modalAgentID    string
	modalGuard      *fetch.Guard
	onboardingRes   fetch.Result[[]model.OnboardingInfo]
	onboardingName  string
	shareInput      textinput.Model
	shareResourceID string
	shareLabel      string
	nameInput       textinput.Model
	confirmTaskID   string
	confirmLabel    string
	confirmOn       confirmFocus

	// Categorical filters cycled with a key, AND-ed with the text filter.
	providerFilter string
	statusFilter   string

	status string

	sessionCh chan model.User
}

func newAppModel(deps Deps) appModel {
	m := appModel{
		deps:           deps,
		user:           deps.User,
		view:           viewAgents,
		agentsGuard:    &fetch.Guard{},
		savedGuard:     &fetch.Guard{},
		tasksGuard:     &fetch.Guard{},
		keysGuard:      &fetch.Guard{},
		bugsGuard:      &fetch.Guard{},
		orgGuard:       &fetch.Guard{},
		modalGuard:     &fetch.Guard{},
		keyRecipients:  share.NewRecipientSet(),
		taskRecipients: share.NewRecipientSet(),
		bookmarked:     map[string]bool{},
		sessionCh:      make(chan model.User, 1),
	}

	m.agentsList = newList(nil)
	m.savedList = newList(nil)
	m.tasksList = newList(nil)
	m.keysList = newList(nil)
	m.bugsList = newList(nil)
	m.membersList = newList(nil)

	m.filterInput = textinput.New()
	m.filterInput.Prompt = "/"
	m.filterInput.Placeholder = "filter"
	m.filterInput.CharLimit = 120

	m.shareInput = textinput.New()
	m.shareInput.Prompt = "> "
	m.shareInput.Placeholder = "recipient user id"
	m.shareInput.CharLimit = 120

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "> "
	m.nameInput.Placeholder = "task name"
	m.nameInput.CharLimit = 200

	if store, err := bookmarks.NewStore(deps.User.Email); err == nil {
		m.marks = store
		if saved, err := store.Load(); err == nil {
			m.bookmarked = saved
		}
	}

	if deps.Session != nil {
		ch := m.sessionCh
		deps.Session.Subscribe(func(u model.User) {
			// Non-blocking: a slow UI loses intermediate updates, never deadlocks
			// the saving goroutine.
			select {
			case ch <- u:
			default:
			}
		})
	}

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadAgents(m.agentsGuard.Issue()),
		m.loadGrants(),
		waitForSession(m.sessionCh),
	)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case sessionChangedMsg:
		// Organization switches (CLI `org use`, another view) land here; the
		// org view refetches instead of requiring a restart.
		m.user = msg.user
		cmds := []tea.Cmd{waitForSession(m.sessionCh)}
		if m.view == viewOrg {
			cmds = append(cmds, m.loadOrg(m.orgGuard.Issue()))
		}
		return m, tea.Batch(cmds...)

	case agentsLoadedMsg:
		if !m.agentsGuard.Current(msg.token) {
			return m, nil
		}
		m.agentsRes = msg.res
		m.agentsStale = msg.stale
		if !msg.res.Failed() && m.marks != nil {
			ids := make([]string, 0, len(msg.res.Data))
			for _, a := range msg.res.Data {
				ids = append(ids, a.ID)
			}
			if seeded, err := m.marks.Seed(ids); err == nil {
				m.bookmarked = seeded
			}
		}
		m.refreshAgents()
		return m, nil

	case savedLoadedMsg:
		if !m.savedGuard.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			m.savedRes = fetch.Fail[[]model.Agent](msg.err)
		} else {
			m.savedRes = fetch.Ok(msg.agents)
		}
		m.savedFailed = msg.failed
		m.refreshSaved()
		return m, nil

	case tasksLoadedMsg:
		if !m.tasksGuard.Current(msg.token) {
			return m, nil
		}
		m.tasksRes = msg.res
		m.tasksStale = msg.stale
		m.refreshTasks()
		return m, nil

	case keysLoadedMsg:
		if !m.keysGuard.Current(msg.token) {
			return m, nil
		}
		m.keysRes = msg.res
		m.keysStale = msg.stale
		m.refreshKeys()
		return m, nil

	case bugsLoadedMsg:
		if !m.bugsGuard.Current(msg.token) {
			return m, nil
		}
		if msg.err != nil {
			m.bugsRes = fetch.Fail[[]model.Bug](msg.err)
		} else {
			m.bugsRes = fetch.Ok(msg.bugs)
		}
		m.bugsFailed = msg.failed
		m.refreshBugs()
		return m, nil

	case orgLoadedMsg:
		if !m.orgGuard.Current(msg.token) {
			return m, nil
		}
		m.orgRes = msg.res
		m.refreshMembers()
		return m, nil

	case agentInfoMsg:
		if !m.modalGuard.Current(msg.token) {
			return m, nil
		}
		m.modalAgentRes = msg.res
		return m, nil

	case onboardingMsg:
		if !m.modalGuard.Current(msg.token) {
			return m, nil
		}
		m.onboardingRes = msg.res
		return m, nil

	case grantsLoadedMsg:
		m.keyRecipients.SeedFromGrants(msg.keyGrants)
		m.taskRecipients.SeedFromGrants(msg.taskGrants)
		return m, nil

	case orgSwitchedMsg:
		if msg.err != nil {
			m.status = "org switch failed: " + msg.err.Error()
			return m, nil
		}
		if msg.orgID == m.user.Organization {
			m.status = "no other organization to switch to"
			return m, nil
		}
		// The session subscription delivers the refreshed user; the status is
		// all that happens here.
		m.status = "switched to org " + msg.orgID
		return m, nil

	case shareDoneMsg:
		if msg.err != nil {
			m.status = "share failed: " + msg.err.Error()
			return m, nil
		}
		// Only a confirmed grant blocks future shares to this recipient; a
		// failed request must leave the retry path open.
		set := m.keyRecipients
		if msg.task {
			set = m.taskRecipients
		}
		set.Add(msg.resourceID, msg.recipientID)
		m.status = fmt.Sprintf("shared %s with %s", msg.resourceID, msg.recipientID)
		return m, nil

	case taskCreatedMsg:
		if msg.err != nil {
			m.status = "create failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "created " + msg.task.Name
		return m, m.loadTasks(m.tasksGuard.Issue())

	case taskDeletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "deleted " + msg.taskID
		return m, m.loadTasks(m.tasksGuard.Issue())

	case bugToggledMsg:
		if msg.res.Failed() {
			m.status = "bug update failed: " + msg.res.Err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("bug %s is now %s", msg.res.Data.ID, msg.res.Data.Status)
		return m, m.loadBugs(m.bugsGuard.Issue())

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateActiveList(msg)
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != modalNone {
		return m.updateModalKey(msg)
	}

	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filterInput.SetValue("")
			m.filterInput.Blur()
			m.refreshCurrent()
			return m, nil
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.refreshCurrent()
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1", "2", "3", "4", "5", "6":
		return m.switchView(view(int(msg.String()[0] - '1')))

	case "r":
		return m, m.refetchCurrent()

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "?":
		m.modal = modalHelp
		return m, nil

	case "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.refreshCurrent()
		}
		return m, nil

	case "enter":
		if m.view == viewAgents || m.view == viewSaved {
			if it, ok := m.selectedAgent(); ok {
				m.modal = modalAgentInfo
				m.modalAgentID = it.agent.ID
				m.modalAgentRes = fetch.Result[model.Agent]{}
				return m, m.loadAgentInfo(m.modalGuard.Issue(), it.agent.ID)
			}
		}
		return m, nil

	case "o":
		if m.view == viewAgents || m.view == viewSaved {
			if it, ok := m.selectedAgent(); ok {
				m.modal = modalOnboarding
				m.onboardingName = it.agent.Name
				m.onboardingRes = fetch.Result[[]model.OnboardingInfo]{}
				return m, m.loadOnboarding(m.modalGuard.Issue(), it.agent.ID)
			}
		}
		return m, nil

	case "p":
		if m.view == viewKeys {
			m.providerFilter = nextProvider(m.keysRes.Data, m.providerFilter)
			m.refreshKeys()
		}
		return m, nil

	case "f":
		if m.view == viewBugs {
			switch m.statusFilter {
			case "":
				m.statusFilter = string(model.BugOpen)
			case string(model.BugOpen):
				m.statusFilter = string(model.BugClosed)
			default:
				m.statusFilter = ""
			}
			m.refreshBugs()
		}
		return m, nil

	case "b":
		if m.view == viewAgents || m.view == viewSaved {
			if it, ok := m.selectedAgent(); ok && m.marks != nil {
				if updated, err := m.marks.Toggle(it.agent.ID); err == nil {
					m.bookmarked = updated
					m.refreshAgents()
					m.refreshSaved()
				}
			}
		}
		return m, nil

	case "s":
		switch m.view {
		case viewTasks:
			if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
				m.openShareModal(it.task.ID, it.task.Name)
				return m, textinput.Blink
			}
		case viewKeys:
			if it, ok := m.keysList.SelectedItem().(keyItem); ok {
				m.openShareModal(it.key.ID, it.key.Name)
				return m, textinput.Blink
			}
		}
		return m, nil

	case "n":
		if m.view == viewTasks {
			m.modal = modalNewTask
			m.nameInput.SetValue("")
			m.nameInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case "d":
		if m.view == viewTasks {
			if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
				m.modal = modalConfirmDelete
				m.confirmTaskID = it.task.ID
				m.confirmLabel = it.task.Name
				m.confirmOn = confirmFocusCancel
			}
		}
		return m, nil

	case "u":
		if m.view == viewOrg && m.deps.Session != nil {
			return m, m.switchOrganization()
		}
		return m, nil

	case "x":
		if m.view == viewBugs {
			if it, ok := m.bugsList.SelectedItem().(bugItem); ok {
				return m, m.toggleBug(it.bug)
			}
		}
		return m, nil
	}

	return m.updateActiveList(msg)
}

func (m appModel) updateModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalHelp, modalAgentInfo, modalOnboarding:
		switch msg.String() {
		case "esc", "q", "enter":
			m.modal = modalNone
			m.modalGuard.Invalidate()
		}
		return m, nil

	case modalShare:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			m.shareInput.Blur()
			return m, nil
		case "enter":
			recipient := strings.TrimSpace(m.shareInput.Value())
			if recipient == "" {
				return m, nil
			}
			m.modal = modalNone
			m.shareInput.Blur()
			set := m.keyRecipients
			if m.view == viewTasks {
				set = m.taskRecipients
			}
			// Repeat share with the same recipient is a no-op.
			if set.Has(m.shareResourceID, recipient) {
				m.status = fmt.Sprintf("%s already shared with %s", m.shareLabel, recipient)
				return m, nil
			}
			return m, m.shareResource(m.shareResourceID, recipient)
		default:
			var cmd tea.Cmd
			m.shareInput, cmd = m.shareInput.Update(msg)
			return m, cmd
		}

	case modalNewTask:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			m.nameInput.Blur()
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				return m, nil
			}
			m.modal = modalNone
			m.nameInput.Blur()
			return m, m.createTask(name)
		default:
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}

	case modalConfirmDelete:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			return m, nil
		case "tab", "left", "right":
			if m.confirmOn == confirmFocusConfirm {
				m.confirmOn = confirmFocusCancel
			} else {
				m.confirmOn = confirmFocusConfirm
			}
			return m, nil
		case "enter":
			m.modal = modalNone
			if m.confirmOn == confirmFocusConfirm {
				return m, m.deleteTask(m.confirmTaskID)
			}
			return m, nil
		}
		return m, nil
	}
	return m, nil
}

// switchView activates v and invalidates the departing view's guard so an
// in-flight response cannot land on the wrong screen.
func (m appModel) switchView(v view) (tea.Model, tea.Cmd) {
	if v < viewAgents || v > viewOrg || v == m.view {
		return m, nil
	}
	m.currentGuard().Invalidate()
	m.view = v
	m.status = ""
	m.filterInput.SetValue("")
	m.filtering = false
	m.providerFilter = ""
	m.statusFilter = ""
	return m, m.refetchCurrent()
}

func (m *appModel) refetchCurrent() tea.Cmd {
	switch m.view {
	case viewAgents:
		return m.loadAgents(m.agentsGuard.Issue())
	case viewSaved:
		return m.loadSaved(m.savedGuard.Issue())
	case viewTasks:
		return m.loadTasks(m.tasksGuard.Issue())
	case viewKeys:
		return m.loadKeys(m.keysGuard.Issue())
	case viewBugs:
		return m.loadBugs(m.bugsGuard.Issue())
	case viewOrg:
		return m.loadOrg(m.orgGuard.Issue())
	}
	return nil
}

func (m appModel) currentGuard() *fetch.Guard {
	switch m.view {
	case viewAgents:
		return m.agentsGuard
	case viewSaved:
		return m.savedGuard
	case viewTasks:
		return m.tasksGuard
	case viewKeys:
		return m.keysGuard
	case viewBugs:
		return m.bugsGuard
	default:
		return m.orgGuard
	}
}

func (m appModel) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case viewAgents:
		m.agentsList, cmd = m.agentsList.Update(msg)
	case viewSaved:
		m.savedList, cmd = m.savedList.Update(msg)
	case viewTasks:
		m.tasksList, cmd = m.tasksList.Update(msg)
	case viewKeys:
		m.keysList, cmd = m.keysList.Update(msg)
	case viewBugs:
		m.bugsList, cmd = m.bugsList.Update(msg)
	case viewOrg:
		m.membersList, cmd = m.membersList.Update(msg)
	}
	return m, cmd
}

func (m *appModel) openShareModal(resourceID, label string) {
	m.modal = modalShare
	m.shareResourceID = resourceID
	m.shareLabel = label
	m.shareInput.SetValue("")
	m.shareInput.Focus()
}

func (m appModel) selectedAgent() (agentItem, bool) {
	l := m.agentsList
	if m.view == viewSaved {
		l = m.savedList
	}
	it, ok := l.SelectedItem().(agentItem)
	return it, ok
}

func (m *appModel) resizeLists() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.agentsList.SetSize(w, h)
	m.savedList.SetSize(w, h)
	m.tasksList.SetSize(w, h)
	m.keysList.SetSize(w, h)
	m.bugsList.SetSize(w, h)
	m.membersList.SetSize(w, h)
}

func (m *appModel) refreshCurrent() {
	switch m.view {
	case viewAgents:
		m.refreshAgents()
	case viewSaved:
		m.refreshSaved()
	case viewTasks:
		m.refreshTasks()
	case viewKeys:
		m.refreshKeys()
	case viewBugs:
		m.refreshBugs()
	case viewOrg:
		m.refreshMembers()
	}
}

func (m *appModel) refreshAgents() {
	if m.agentsRes.Failed() {
		return
	}
	agents := filter.Apply(m.agentsRes.Data,
		filter.Text(m.filterInput.Value(), func(a model.Agent) []string { return []string{a.Name, a.OwnerName} }),
	)
	items := make([]list.Item, 0, len(agents))
	for _, a := range agents {
		items = append(items, agentItem{agent: a, saved: m.bookmarked[a.ID]})
	}
	m.agentsList.SetItems(items)
}

func (m *appModel) refreshSaved() {
	if m.savedRes.Failed() {
		return
	}
	agents := filter.Apply(m.savedRes.Data,
		filter.Text(m.filterInput.Value(), func(a model.Agent) []string { return []string{a.Name, a.OwnerName} }),
	)
	items := make([]list.Item, 0, len(agents))
	for _, a := range agents {
		items = append(items, agentItem{agent: a, saved: m.bookmarked[a.ID]})
	}
	m.savedList.SetItems(items)
}

func (m *appModel) refreshTasks() {
	if m.tasksRes.Failed() {
		return
	}
	tasks := filter.Apply(m.tasksRes.Data,
		filter.Text(m.filterInput.Value(), func(t model.Task) []string { return []string{t.Name} }),
	)
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t})
	}
	m.tasksList.SetItems(items)
}

func (m *appModel) refreshKeys() {
	if m.keysRes.Failed() {
		return
	}
	keys := filter.Apply(m.keysRes.Data,
		filter.Text(m.filterInput.Value(), func(k model.APIKey) []string { return []string{k.Name, k.Provider} }),
		filter.Category(m.providerFilter, func(k model.APIKey) string { return k.Provider }),
	)
	items := make([]list.Item, 0, len(keys))
	for _, k := range keys {
		items = append(items, keyItem{key: k})
	}
	m.keysList.SetItems(items)
}

func (m *appModel) refreshBugs() {
	if m.bugsRes.Failed() {
		return
	}
	bugs := filter.Apply(m.bugsRes.Data,
		filter.Text(m.filterInput.Value(), func(b model.Bug) []string { return []string{b.Name, b.Description} }),
		filter.Category(m.statusFilter, func(b model.Bug) string { return string(b.Status) }),
	)
	items := make([]list.Item, 0, len(bugs))
	for _, b := range bugs {
		items = append(items, bugItem{bug: b})
	}
	m.bugsList.SetItems(items)
}

func (m *appModel) refreshMembers() {
	if m.orgRes.Failed() {
		return
	}
	members := filter.Apply(m.orgRes.Data.Members,
		filter.Text(m.filterInput.Value(), func(u model.User) []string { return []string{u.Name, u.Email} }),
	)
	items := make([]list.Item, 0, len(members))
	for _, u := range members {
		items = append(items, memberItem{user: u})
	}
	m.membersList.SetItems(items)
}

func (m appModel) View() string {
	if m.modal != modalNone {
		return m.viewModal()
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(m.view.title())
	header := lipgloss.NewStyle().Bold(true).Render("agentdeck  ") + title +
		styleMuted().Render(fmt.Sprintf("  ·  %s  ·  org:%s", m.user.Email, emptyAsDash(m.user.Organization)))

	filterLine := ""
	if m.filtering || m.filterInput.Value() != "" {
		filterLine = m.filterInput.View()
	}

	body := m.viewBody()

	footer := styleMuted().Render("1-6: views  /: filter  enter: details  r: refresh  ?: help  q: quit")
	if m.status != "" {
		footer = m.status + "\n" + footer
	}

	parts := []string{header}
	if filterLine != "" {
		parts = append(parts, filterLine)
	}
	parts = append(parts, body, footer)
	return strings.Join(parts, "\n\n")
}

func (m appModel) viewBody() string {
	switch m.view {
	case viewAgents:
		return m.withStaleNotice(m.agentsStale,
			m.viewCollection(m.agentsRes.Err, len(m.agentsList.Items()), m.agentsList, "No agents in the marketplace."))
	case viewSaved:
		body := m.viewCollection(m.savedRes.Err, len(m.savedList.Items()), m.savedList, "No saved agents. Press b on an agent to save it.")
		if len(m.savedFailed) > 0 {
			body += "\n" + styleError().Render(fmt.Sprintf("%d agent(s) could not be loaded", len(m.savedFailed)))
		}
		return body
	case viewTasks:
		return m.withStaleNotice(m.tasksStale,
			m.viewCollection(m.tasksRes.Err, len(m.tasksList.Items()), m.tasksList, "No tasks yet. Press n to create one."))
	case viewKeys:
		return m.withStaleNotice(m.keysStale,
			m.viewCollection(m.keysRes.Err, len(m.keysList.Items()), m.keysList, "No API keys yet."))
	case viewBugs:
		body := m.viewCollection(m.bugsRes.Err, len(m.bugsList.Items()), m.bugsList, "No bugs reported.")
		if len(m.bugsFailed) > 0 {
			body += "\n" + styleError().Render(fmt.Sprintf("%d bug feed(s) failed", len(m.bugsFailed)))
		}
		return body
	case viewOrg:
		return m.viewOrg()
	}
	return ""
}

// withStaleNotice labels a body served from the snapshot cache after a failed
// fetch, so old data never masquerades as fresh.
func (m appModel) withStaleNotice(stale bool, body string) string {
	if !stale {
		return body
	}
	return body + "\n" + styleMuted().Render("showing cached snapshot; r: refresh")
}

// viewCollection keeps "failed" and "empty" visually distinct: an error is
// rendered as an error with a retry hint, never as a blank list.
func (m appModel) viewCollection(err error, n int, l list.Model, emptyText string) string {
	if err != nil {
		return styleError().Render("fetch failed: "+err.Error()) + "\n" + styleMuted().Render("r: retry")
	}
	if n == 0 {
		return styleMuted().Render(emptyText)
	}
	return l.View()
}

func (m appModel) viewOrg() string {
	if m.orgRes.Err != nil {
		return styleError().Render("fetch failed: "+m.orgRes.Err.Error()) + "\n" + styleMuted().Render("r: retry")
	}
	org := m.orgRes.Data
	if org.ID == "" {
		return styleMuted().Render("No active organization. Use `agentdeck org use <org-id>`.")
	}

	info := fmt.Sprintf("%s\nwallet: $%.2f\ninvite token: %s", org.Name, org.Wallet.Balance, org.InviteToken)
	if org.Admin != nil {
		info += "\nadmin: " + org.Admin.Name
	}

	bodyH := m.height - 10
	if bodyH < 6 {
		bodyH = 6
	}
	leftW := m.width / 3
	if leftW < 24 {
		leftW = 24
	}
	rightW := m.width - leftW - 2
	if rightW < 30 {
		rightW = 30
	}

	left := normalizePane(info, leftW, bodyH)
	right := normalizePane("Members\n\n"+m.membersList.View(), rightW, bodyH)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m appModel) viewModal() string {
	var box string
	switch m.modal {
	case modalHelp:
		box = renderHelpModal(m.width)
	case modalAgentInfo:
		box = m.viewAgentInfoModal()
	case modalOnboarding:
		box = m.viewOnboardingModal()
	case modalShare:
		bodyW := modalBodyWidth(m.width)
		content := strings.Join([]string{
			"Share " + m.shareLabel + " with:",
			"",
			renderInputLine(bodyW, m.shareInput.View()),
			"",
			styleMuted().Width(bodyW).Render("enter: share   esc: cancel"),
		}, "\n")
		box = renderModalBox(m.width, "Share", content)
	case modalNewTask:
		bodyW := modalBodyWidth(m.width)
		content := strings.Join([]string{
			renderInputLine(bodyW, m.nameInput.View()),
			"",
			styleMuted().Width(bodyW).Render("enter: create   esc: cancel"),
		}, "\n")
		box = renderModalBox(m.width, "New task", content)
	case modalConfirmDelete:
		box = renderConfirmModal(m.width, "Delete task",
			fmt.Sprintf("Delete %q? Its executions go with it.", m.confirmLabel),
			"Delete", "Cancel", m.confirmOn)
	}

	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) viewAgentInfoModal() string {
	switch {
	case m.modalAgentRes.Failed():
		return renderModalBox(m.width, "Agent",
			styleError().Render("fetch failed: "+m.modalAgentRes.Err.Error()))
	case m.modalAgentRes.Data.ID == "":
		return renderModalBox(m.width, "Agent", styleMuted().Render("Loading…"))
	default:
		a := m.modalAgentRes.Data
		md := renderMarkdown(agentMarkdown(a), modalBodyWidth(m.width))
		return renderModalBox(m.width, a.Name, md)
	}
}

// nextProvider cycles "" -> first provider -> ... -> last -> "". Providers
// come from the fetched keys themselves, deduped and sorted.
func nextProvider(keys []model.APIKey, current string) string {
	seen := map[string]struct{}{}
	providers := make([]string, 0)
	for _, k := range keys {
		p := strings.TrimSpace(k.Provider)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		providers = append(providers, p)
	}
	sort.Strings(providers)
	if len(providers) == 0 {
		return ""
	}
	if current == "" {
		return providers[0]
	}
	for i, p := range providers {
		if p == current {
			if i+1 < len(providers) {
				return providers[i+1]
			}
			return ""
		}
	}
	return ""
}

func (m appModel) viewOnboardingModal() string {
	title := "Onboarding: " + m.onboardingName
	switch {
	case m.onboardingRes.Failed():
		return renderModalBox(m.width, title,
			styleError().Render("fetch failed: "+m.onboardingRes.Err.Error()))
	case m.onboardingRes.Data == nil:
		return renderModalBox(m.width, title, styleMuted().Render("Loading…"))
	case len(m.onboardingRes.Data) == 0:
		return renderModalBox(m.width, title, styleMuted().Render("No onboarding info published."))
	default:
		md := renderMarkdown(onboardingMarkdown(m.onboardingRes.Data), modalBodyWidth(m.width))
		return renderModalBox(m.width, title, md)
	}
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
