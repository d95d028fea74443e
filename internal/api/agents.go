package api

import (
	"context"
	"net/url"

	"agentdeck/internal/model"
)

func (c *Client) GetAllAgents(ctx context.Context) ([]model.Agent, error) {
	var agents []model.Agent
	if err := c.getJSON(ctx, "/agents/get-all-agents", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

func (c *Client) GetAgentInfo(ctx context.Context, agentID string) (model.Agent, error) {
	var a model.Agent
	q := url.Values{"agent_id": {agentID}}
	if err := c.getJSON(ctx, "/agents/get_agent_info", q, &a); err != nil {
		return model.Agent{}, err
	}
	return a, nil
}

func (c *Client) FetchBugs(ctx context.Context, agentID string) ([]model.Bug, error) {
	var bugs []model.Bug
	q := url.Values{"agent_id": {agentID}}
	if err := c.getJSON(ctx, "/agents/fetch_bugs", q, &bugs); err != nil {
		return nil, err
	}
	return bugs, nil
}

type bugStatusUpdateRequest struct {
	BugID  string          `json:"bug_id"`
	Status model.BugStatus `json:"status"`
}

func (c *Client) BugStatusUpdate(ctx context.Context, bugID string, status model.BugStatus) (model.Bug, error) {
	var b model.Bug
	req := bugStatusUpdateRequest{BugID: bugID, Status: status}
	if err := c.postJSON(ctx, "/agents/bug_status_update", req, &b); err != nil {
		return model.Bug{}, err
	}
	return b, nil
}

func (c *Client) FetchAllOnboardingInfo(ctx context.Context, agentID string) ([]model.OnboardingInfo, error) {
	var infos []model.OnboardingInfo
	q := url.Values{"agent_id": {agentID}}
	if err := c.getJSON(ctx, "/agents/fetch_all_onboarding_info", q, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

func (c *Client) CreateOnboardingInfo(ctx context.Context, info model.OnboardingInfo) (model.OnboardingInfo, error) {
	var out model.OnboardingInfo
	if err := c.postJSON(ctx, "/agents/create_onboarding_info", info, &out); err != nil {
		return model.OnboardingInfo{}, err
	}
	return out, nil
}
