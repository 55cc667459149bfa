// Package tasks_tools registers MCP tools for working with Google Tasks.
//
//   - tasks_list: tasks from a list with status, notes and due dates
//   - tasks_create: new task with optional notes and due date
//   - tasks_complete: mark a task completed
//   - tasks_delete: delete a task
//
// Every tool takes an optional task_list_id, defaulting to @default, the
// user's primary list.
//
// In read-only mode only tasks_list is registered.
package tasks_tools
