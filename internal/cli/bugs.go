package cli

import (
	"context"
	"fmt"

	"agentdeck/internal/fetch"
	"agentdeck/internal/model"

	"github.com/spf13/cobra"
)

func newBugsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bugs",
		Short: "Track bug reports across your agents",
	}

	cmd.AddCommand(newBugsListCmd(app))
	cmd.AddCommand(newBugsStatusCmd(app))

	return cmd
}

func newBugsListCmd(app *App) *cobra.Command {
	var agentID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bugs, for one agent or across all agents you've worked with",
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

			if agentID != "" {
				bugs, err := client.FetchBugs(ctx, agentID)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": bugs})
			}

			agents, err := client.GetAgents(ctx, user.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			ids := make([]string, 0, len(agents))
			for _, a := range agents {
				ids = append(ids, a.ID)
			}

			// One bug feed per agent; an agent whose feed fails is reported
			// alongside the rest instead of failing the whole listing.
			perAgent, errs := fetch.Details(ctx, ids, 0,
				func(ctx context.Context, id string) ([]model.Bug, error) {
					return client.FetchBugs(ctx, id)
				},
				func([]model.Bug) string { return "" })

			bugs := make([]model.Bug, 0)
			for _, id := range ids {
				bugs = append(bugs, perAgent[id]...)
			}
			failed := make([]string, 0)
			for id := range errs {
				failed = append(failed, id)
			}

			out := map[string]any{"data": bugs}
			if len(failed) > 0 {
				out["meta"] = map[string]any{"failedAgentIds": failed}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&agentID, "agent", "", "Limit to one agent id")
	return cmd
}

func newBugsStatusCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "status <bug-id>",
		Short: "Update a bug's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}

			var st model.BugStatus
			switch status {
			case "open":
				st = model.BugOpen
			case "closed":
				st = model.BugClosed
			default:
				return writeErr(cmd, fmt.Errorf("invalid status %q (want open or closed)", status))
			}

			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := client.BugStatusUpdate(cmdContext(cmd), args[0], st)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New status: open or closed")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}
