package tasks_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tasks"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// getTasksClient retrieves or creates a Tasks client for the specified account
func getTasksClient(ctx context.Context, account string, sc *server.ServerContext) (*tasks.Client, error) {
	client := sc.TasksClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !tasks.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = tasks.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Tasks client for account %s: %w", account, err)
		}
		sc.SetTasksClientForAccount(account, client)
	}
	return client, nil
}

// taskIDFromArgs extracts the task_id argument shared by the task-scoped tools
func taskIDFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id, ok := args["task_id"].(string)
	if !ok || id == "" {
		return "", mcp.NewToolResultError("task_id is required")
	}
	return id, nil
}

// intOrDefault returns a whole-number argument, falling back to def when
// the argument is absent
func intOrDefault(args map[string]interface{}, key string, def int64) int64 {
	if v, ok := args[key].(float64); ok {
		return int64(v)
	}
	return def
}

// RegisterTasksTools registers all Google Tasks-related tools with the MCP server
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("tasks_list",
		mcp.WithDescription("List tasks from a task list."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("task_list_id",
			mcp.Description("Task list ID (default: @default, the primary list)"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of tasks to return (default: 20)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"tasks_list", "tasks", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)
			taskListID, _ := args["task_list_id"].(string)

			client, err := getTasksClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			list, err := client.ListTasks(ctx, taskListID, intOrDefault(args, "max_results", 20))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list tasks: %v", err)), nil
			}

			if len(list) == 0 {
				return mcp.NewToolResultText("No tasks found."), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Found %d task(s):\n\n", len(list))
			for _, task := range list {
				status := "⬜"
				if task.Status == "completed" {
					status = "✅"
				}

				fmt.Fprintf(&sb, "%s %s\n", status, task.Title)
				if task.Notes != "" {
					fmt.Fprintf(&sb, "   Notes: %s\n", task.Notes)
				}
				if task.Due != "" {
					fmt.Fprintf(&sb, "   Due: %s\n", task.Due)
				}
				fmt.Fprintf(&sb, "   ID: %s\n\n", task.Id)
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("tasks_create",
		mcp.WithDescription("Create a new task."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("notes",
			mcp.Description("Task notes"),
		),
		mcp.WithString("due",
			mcp.Description("Due date in RFC3339 format, like 2026-04-15T00:00:00Z (only the date is honored)"),
		),
		mcp.WithString("task_list_id",
			mcp.Description("Task list ID (default: @default, the primary list)"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"tasks_create", "tasks", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}
			notes, _ := args["notes"].(string)
			due, _ := args["due"].(string)
			taskListID, _ := args["task_list_id"].(string)

			client, err := getTasksClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			created, err := client.CreateTask(ctx, taskListID, title, notes, due)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Task created!\nTitle: %s\nID: %s",
				created.Title, created.Id)), nil
		}))

	completeTool := mcp.NewTool("tasks_complete",
		mcp.WithDescription("Mark a task as completed."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID"),
		),
		mcp.WithString("task_list_id",
			mcp.Description("Task list ID (default: @default, the primary list)"),
		),
	)

	s.AddTool(completeTool, common.InstrumentedToolHandlerWithService(
		"tasks_complete", "tasks", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			taskID, errResult := taskIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			taskListID, _ := args["task_list_id"].(string)

			client, err := getTasksClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if _, err := client.CompleteTask(ctx, taskListID, taskID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Task %s marked as completed", taskID)), nil
		}))

	deleteTool := mcp.NewTool("tasks_delete",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The task ID"),
		),
		mcp.WithString("task_list_id",
			mcp.Description("Task list ID (default: @default, the primary list)"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"tasks_delete", "tasks", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			taskID, errResult := taskIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			taskListID, _ := args["task_list_id"].(string)

			client, err := getTasksClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteTask(ctx, taskListID, taskID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete task: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Task %s deleted", taskID)), nil
		}))

	return nil
}
