package tui

import (
	"context"
	"errors"
	"sort"

	"agentdeck/internal/api"
	"agentdeck/internal/cache"
	"agentdeck/internal/fetch"
	"agentdeck/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Every load message carries the token issued when the request started. The
// update loop commits a response only while its token is still current, so a
// view switch or a newer refresh silently drops whatever was in flight.

type agentsLoadedMsg struct {
	token fetch.Token
	res   fetch.Result[[]model.Agent]
	stale bool
}

type savedLoadedMsg struct {
	token  fetch.Token
	agents []model.Agent
	failed []string
	err    error
}

type tasksLoadedMsg struct {
	token fetch.Token
	res   fetch.Result[[]model.Task]
	stale bool
}

type keysLoadedMsg struct {
	token fetch.Token
	res   fetch.Result[[]model.APIKey]
	stale bool
}

type bugsLoadedMsg struct {
	token  fetch.Token
	bugs   []model.Bug
	failed []string
	err    error
}

type orgLoadedMsg struct {
	token fetch.Token
	res   fetch.Result[model.Organization]
}

type agentInfoMsg struct {
	token fetch.Token
	res   fetch.Result[model.Agent]
}

type onboardingMsg struct {
	token fetch.Token
	res   fetch.Result[[]model.OnboardingInfo]
}

type grantsLoadedMsg struct {
	keyGrants  []model.ShareGrant
	taskGrants []model.ShareGrant
}

type shareDoneMsg struct {
	resourceID  string
	recipientID string
	task        bool
	err         error
}

type taskCreatedMsg struct {
	task model.Task
	err  error
}

type taskDeletedMsg struct {
	taskID string
	err    error
}

type bugToggledMsg struct {
	res fetch.Result[model.Bug]
}

type sessionChangedMsg struct {
	user model.User
}

type orgSwitchedMsg struct {
	orgID string
	err   error
}

func (m appModel) loadAgents(token fetch.Token) tea.Cmd {
	client, timeout, email := m.deps.Client, m.deps.Timeout, m.user.Email
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		agents, stale, err := cache.WithSnapshot(ctx, email, "agents", func() ([]model.Agent, error) {
			return client.GetAllAgents(ctx)
		})
		if err != nil {
			return agentsLoadedMsg{token: token, res: fetch.Fail[[]model.Agent](err)}
		}
		return agentsLoadedMsg{token: token, res: fetch.Ok(agents), stale: stale}
	}
}

func (m appModel) loadSaved(token fetch.Token) tea.Cmd {
	client, timeout, userID := m.deps.Client, m.deps.Timeout, m.user.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ids, err := client.GetSavedAgents(ctx, userID)
		if err != nil {
			return savedLoadedMsg{token: token, err: err}
		}
		details, errs := fetch.Details(ctx, ids, 0, client.GetAgentInfo, func(a model.Agent) string { return a.ID })
		agents := make([]model.Agent, 0, len(ids))
		failed := make([]string, 0)
		for _, id := range ids {
			if a, ok := details[id]; ok {
				agents = append(agents, a)
			} else if _, ok := errs[id]; ok {
				failed = append(failed, id)
			}
		}
		return savedLoadedMsg{token: token, agents: agents, failed: failed}
	}
}

func (m appModel) loadTasks(token fetch.Token) tea.Cmd {
	client, timeout, userID, email := m.deps.Client, m.deps.Timeout, m.user.ID, m.user.Email
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		tasks, stale, err := cache.WithSnapshot(ctx, email, "tasks", func() ([]model.Task, error) {
			return client.GetTasks(ctx, userID)
		})
		if err != nil {
			return tasksLoadedMsg{token: token, res: fetch.Fail[[]model.Task](err)}
		}
		return tasksLoadedMsg{token: token, res: fetch.Ok(tasks), stale: stale}
	}
}

func (m appModel) loadKeys(token fetch.Token) tea.Cmd {
	client, timeout, userID, email := m.deps.Client, m.deps.Timeout, m.user.ID, m.user.Email
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		keys, stale, err := cache.WithSnapshot(ctx, email, "keys", func() ([]model.APIKey, error) {
			return client.GetKeys(ctx, userID)
		})
		if err != nil {
			return keysLoadedMsg{token: token, res: fetch.Fail[[]model.APIKey](err)}
		}
		return keysLoadedMsg{token: token, res: fetch.Ok(keys), stale: stale}
	}
}

func (m appModel) loadBugs(token fetch.Token) tea.Cmd {
	client, timeout, userID := m.deps.Client, m.deps.Timeout, m.user.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		agents, err := client.GetAgents(ctx, userID)
		if err != nil {
			return bugsLoadedMsg{token: token, err: err}
		}
		ids := make([]string, 0, len(agents))
		for _, a := range agents {
			ids = append(ids, a.ID)
		}
		perAgent, errs := fetch.Details(ctx, ids, 0,
			func(ctx context.Context, id string) ([]model.Bug, error) {
				return client.FetchBugs(ctx, id)
			},
			func([]model.Bug) string { return "" })

		bugs := make([]model.Bug, 0)
		for _, id := range ids {
			bugs = append(bugs, perAgent[id]...)
		}
		failed := make([]string, 0, len(errs))
		for id := range errs {
			failed = append(failed, id)
		}
		sort.Strings(failed)
		return bugsLoadedMsg{token: token, bugs: bugs, failed: failed}
	}
}

func (m appModel) loadOrg(token fetch.Token) tea.Cmd {
	client, timeout, orgID := m.deps.Client, m.deps.Timeout, m.user.Organization
	return func() tea.Msg {
		if orgID == "" {
			return orgLoadedMsg{token: token, res: fetch.Ok(model.Organization{})}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		org, err := client.GetOrganizationDetails(ctx, orgID)
		if err != nil {
			return orgLoadedMsg{token: token, res: fetch.Fail[model.Organization](err)}
		}
		return orgLoadedMsg{token: token, res: fetch.Ok(org)}
	}
}

func (m appModel) loadAgentInfo(token fetch.Token, agentID string) tea.Cmd {
	client, timeout := m.deps.Client, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a, err := client.GetAgentInfo(ctx, agentID)
		if err != nil {
			return agentInfoMsg{token: token, res: fetch.Fail[model.Agent](err)}
		}
		return agentInfoMsg{token: token, res: fetch.Ok(a)}
	}
}

func (m appModel) loadOnboarding(token fetch.Token, agentID string) tea.Cmd {
	client, timeout := m.deps.Client, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		infos, err := client.FetchAllOnboardingInfo(ctx, agentID)
		if err != nil {
			return onboardingMsg{token: token, res: fetch.Fail[[]model.OnboardingInfo](err)}
		}
		return onboardingMsg{token: token, res: fetch.Ok(infos)}
	}
}

// loadGrants seeds the share recipient sets so "already shared" is known
// before the first share modal opens. Failures are fine; the sets just start
// empty and the backend remains the source of truth.
func (m appModel) loadGrants() tea.Cmd {
	client, timeout, userID := m.deps.Client, m.deps.Timeout, m.user.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var msg grantsLoadedMsg
		if grants, err := client.KeysYouShared(ctx, userID); err == nil {
			msg.keyGrants = grants
		}
		if grants, err := client.TasksYouShared(ctx, userID); err == nil {
			msg.taskGrants = grants
		}
		return msg
	}
}

func (m appModel) shareResource(resourceID, recipientID string) tea.Cmd {
	client, timeout, userID := m.deps.Client, m.deps.Timeout, m.user.ID
	isTask := m.view == viewTasks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var err error
		if isTask {
			_, err = client.ShareTask(ctx, resourceID, userID, recipientID)
		} else {
			_, err = client.ShareKey(ctx, resourceID, userID, recipientID)
		}
		return shareDoneMsg{resourceID: resourceID, recipientID: recipientID, task: isTask, err: err}
	}
}

func (m appModel) createTask(name string) tea.Cmd {
	client, timeout, userID := m.deps.Client, m.deps.Timeout, m.user.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		t, err := client.CreateTask(ctx, api.CreateTaskRequest{Name: name, UserID: userID})
		return taskCreatedMsg{task: t, err: err}
	}
}

func (m appModel) deleteTask(taskID string) tea.Cmd {
	client, timeout := m.deps.Client, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.DeleteTask(ctx, taskID)
		return taskDeletedMsg{taskID: taskID, err: err}
	}
}

func (m appModel) toggleBug(bug model.Bug) tea.Cmd {
	client, timeout := m.deps.Client, m.deps.Timeout
	next := model.BugClosed
	if bug.Status == model.BugClosed {
		next = model.BugOpen
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		b, err := client.BugStatusUpdate(ctx, bug.ID, next)
		if err != nil {
			return bugToggledMsg{res: fetch.Fail[model.Bug](err)}
		}
		return bugToggledMsg{res: fetch.Ok(b)}
	}
}

// switchOrganization rotates the session to the next organization the user
// belongs to. The session store notifies its subscribers on save, so every
// mounted view hears about the switch the same way it hears about `org use`
// from another process.
func (m appModel) switchOrganization() tea.Cmd {
	client, timeout, userID := m.deps.Client, m.deps.Timeout, m.user.ID
	sess, current := m.deps.Session, m.user.Organization
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		orgs, err := client.GetYourOrganizations(ctx, userID)
		if err != nil {
			return orgSwitchedMsg{err: err}
		}
		if len(orgs) == 0 {
			return orgSwitchedMsg{err: errors.New("you belong to no organizations")}
		}
		next := orgs[0].ID
		for i, o := range orgs {
			if o.ID == current {
				next = orgs[(i+1)%len(orgs)].ID
				break
			}
		}
		if next == current {
			return orgSwitchedMsg{orgID: current}
		}
		if _, err := sess.SetActiveOrganization(next); err != nil {
			return orgSwitchedMsg{err: err}
		}
		return orgSwitchedMsg{orgID: next}
	}
}

// waitForSession re-arms after every delivery; the session store pushes
// updates into the channel from whichever goroutine saved.
func waitForSession(ch <-chan model.User) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return sessionChangedMsg{user: u}
	}
}
