package api

import (
	"context"
	"net/url"
)

func (c *Client) TotalTasksExecuted(ctx context.Context, userID string) (int, error) {
	var out struct {
		Total int `json:"total_tasks_executed"`
	}
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/analytics/total_tasks_executed", q, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

func (c *Client) TotalBudgetConsumed(ctx context.Context, userID string) (float64, error) {
	var out struct {
		Total float64 `json:"total_budget_consumed"`
	}
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/analytics/total_budget_consumed", q, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}
