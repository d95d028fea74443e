package cli

import (
	"agentdeck/internal/api"
	"agentdeck/internal/cache"
	"agentdeck/internal/filter"
	"agentdeck/internal/model"
	"agentdeck/internal/share"

	"github.com/spf13/cobra"
)

func filterTasks(tasks []model.Task, search string) []model.Task {
	return filter.Apply(tasks,
		filter.Text(search, func(t model.Task) []string { return []string{t.Name} }),
	)
}

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks and inspect their executions",
	}

	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksRenameCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksExecutionsCmd(app))
	cmd.AddCommand(newTasksAnalysisCmd(app))
	cmd.AddCommand(newTasksShareCmd(app))
	cmd.AddCommand(newTasksSharedCmd(app))

	return cmd
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := client.CreateTask(cmdContext(cmd), api.CreateTaskRequest{Name: name, UserID: user.ID})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmdContext(cmd)

			tasks, stale, err := cache.WithSnapshot(ctx, user.Email, "tasks", func() ([]model.Task, error) {
				return client.GetTasks(ctx, user.ID)
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			tasks = filterTasks(tasks, search)

			// An empty list is a valid answer, distinct from a failed fetch.
			out := map[string]any{"data": tasks}
			if stale {
				out["meta"] = map[string]any{"stale": true}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring match on task name")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := client.GetTaskInfo(cmdContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	return cmd
}

func newTasksRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <task-id>",
		Short: "Rename a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := client.EditTaskName(cmdContext(cmd), args[0], name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New task name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := client.DeleteTask(cmdContext(cmd), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}

func newTasksExecutionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "executions <task-id>",
		Short: "List a task's executions in sequence order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			execs, err := client.GetExecutions(cmdContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": execs})
		},
	}
	return cmd
}

func newTasksAnalysisCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analysis <task-id>",
		Short: "Show cost and runtime analysis for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			a, err := client.TaskAnalysis(cmdContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}
	return cmd
}

func newTasksShareCmd(app *App) *cobra.Command {
	var taskID, receiverID string

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a task with another user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmdContext(cmd)

			recipients := share.NewRecipientSet()
			if grants, err := client.TasksYouShared(ctx, user.ID); err == nil {
				recipients.SeedFromGrants(grants)
			}
			if recipients.Has(taskID, receiverID) {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"taskId":        taskID,
					"receiverId":    receiverID,
					"alreadyShared": true,
				}})
			}

			grant, err := client.ShareTask(ctx, taskID, user.ID, receiverID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": grant})
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "Task id to share")
	cmd.Flags().StringVar(&receiverID, "to", "", "Recipient user id")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newTasksSharedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shared",
		Short: "List tasks you shared and tasks shared with you",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmdContext(cmd)

			byYou, err := client.TasksYouShared(ctx, user.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			withYou, err := client.TasksSharedWithYou(ctx, user.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"sharedByYou":   byYou,
				"sharedWithYou": withYou,
				"recipients":    resolveRecipients(ctx, client, byYou),
			}})
		},
	}
	return cmd
}
