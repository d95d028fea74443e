package api

import (
	"context"
	"net/url"

	"agentdeck/internal/model"
)

type CreateTaskRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (model.Task, error) {
	var t model.Task
	if err := c.postJSON(ctx, "/tasks/create-task", req, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (c *Client) GetTasks(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/tasks/get-tasks", q, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTaskInfo(ctx context.Context, taskID string) (model.Task, error) {
	var t model.Task
	q := url.Values{"task_id": {taskID}}
	if err := c.getJSON(ctx, "/tasks/get-task-info", q, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

type editTaskNameRequest struct {
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
}

func (c *Client) EditTaskName(ctx context.Context, taskID, name string) (model.Task, error) {
	var t model.Task
	if err := c.postJSON(ctx, "/tasks/edit-task-name", editTaskNameRequest{TaskID: taskID, Name: name}, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.postJSON(ctx, "/tasks/delete-task", map[string]string{"task_id": taskID}, nil)
}

// GetExecutions returns a task's executions. The backend orders them by
// sequence_number; the client does not re-sort.
func (c *Client) GetExecutions(ctx context.Context, taskID string) ([]model.Execution, error) {
	var execs []model.Execution
	q := url.Values{"task_id": {taskID}}
	if err := c.getJSON(ctx, "/tasks/get-executions", q, &execs); err != nil {
		return nil, err
	}
	return execs, nil
}

func (c *Client) TaskAnalysis(ctx context.Context, taskID string) (model.TaskAnalysis, error) {
	var a model.TaskAnalysis
	q := url.Values{"task_id": {taskID}}
	if err := c.getJSON(ctx, "/tasks/task-analysis", q, &a); err != nil {
		return model.TaskAnalysis{}, err
	}
	return a, nil
}

func (c *Client) ShareTask(ctx context.Context, taskID, senderID, receiverID string) (model.ShareGrant, error) {
	var g model.ShareGrant
	req := shareRequest{ResourceID: taskID, SenderID: senderID, ReceiverID: receiverID}
	if err := c.postJSON(ctx, "/tasks/share-task", req, &g); err != nil {
		return model.ShareGrant{}, err
	}
	return g, nil
}

func (c *Client) TasksYouShared(ctx context.Context, userID string) ([]model.ShareGrant, error) {
	var grants []model.ShareGrant
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/tasks/fetch-tasks-you-shared", q, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (c *Client) TasksSharedWithYou(ctx context.Context, userID string) ([]model.ShareGrant, error) {
	var grants []model.ShareGrant
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/tasks/fetch-tasks-shared-with-you", q, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}
