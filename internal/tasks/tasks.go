package tasks

import (
	"context"
	"fmt"

	tasks "google.golang.org/api/tasks/v1"
)

// DefaultTaskList is the alias the Tasks API resolves to the user's
// primary task list
const DefaultTaskList = "@default"

// ListTasks lists tasks in a task list. An empty taskListID means the
// default list; a maxResults of zero or less means the default of 20.
func (c *Client) ListTasks(ctx context.Context, taskListID string, maxResults int64) ([]*tasks.Task, error) {
	if taskListID == "" {
		taskListID = DefaultTaskList
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	res, err := c.svc.Tasks.List(taskListID).
		MaxResults(maxResults).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return res.Items, nil
}

// CreateTask creates a task on a task list. Notes and due (RFC 3339) are
// optional.
func (c *Client) CreateTask(ctx context.Context, taskListID, title, notes, due string) (*tasks.Task, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	task := &tasks.Task{Title: title}
	if notes != "" {
		task.Notes = notes
	}
	if due != "" {
		task.Due = due
	}

	created, err := c.svc.Tasks.Insert(taskListID, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// CompleteTask marks a task as completed. The full task is fetched first so
// the update keeps every other field intact.
func (c *Client) CompleteTask(ctx context.Context, taskListID, taskID string) (*tasks.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("taskID is required")
	}
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	task, err := c.svc.Tasks.Get(taskListID, taskID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}

	task.Status = "completed"

	updated, err := c.svc.Tasks.Update(taskListID, taskID, task).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to complete task %s: %w", taskID, err)
	}
	return updated, nil
}

// DeleteTask deletes a task from a task list
func (c *Client) DeleteTask(ctx context.Context, taskListID, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("taskID is required")
	}
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	if err := c.svc.Tasks.Delete(taskListID, taskID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	return nil
}
