package cli

import (
	"errors"
	"net/http"

	"agentdeck/internal/api"
	"agentdeck/internal/bookmarks"
	"agentdeck/internal/cache"
	"agentdeck/internal/fetch"
	"agentdeck/internal/filter"
	"agentdeck/internal/model"

	"github.com/spf13/cobra"
)

func newAgentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Browse the agent marketplace",
	}

	cmd.AddCommand(newAgentsListCmd(app))
	cmd.AddCommand(newAgentsInfoCmd(app))
	cmd.AddCommand(newAgentsSaveCmd(app))
	cmd.AddCommand(newAgentsSavedCmd(app))
	cmd.AddCommand(newAgentsOnboardingCmd(app))

	return cmd
}

func newAgentsOnboardingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "View or publish onboarding steps for an agent",
	}

	show := &cobra.Command{
		Use:   "show <agent-id>",
		Short: "Show all onboarding info for an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			infos, err := client.FetchAllOnboardingInfo(cmdContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": infos})
		},
	}

	var steps []string
	var notes string
	add := &cobra.Command{
		Use:   "add <agent-id>",
		Short: "Publish onboarding steps for an agent you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			info, err := client.CreateOnboardingInfo(cmdContext(cmd), model.OnboardingInfo{
				AgentID: args[0],
				Steps:   steps,
				Notes:   notes,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": info})
		},
	}
	add.Flags().StringArrayVar(&steps, "step", nil, "Onboarding step (repeatable, in order)")
	add.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = add.MarkFlagRequired("step")

	cmd.AddCommand(show)
	cmd.AddCommand(add)
	return cmd
}

func newAgentsListCmd(app *App) *cobra.Command {
	var search string
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all marketplace agents",
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

			agents, stale, err := cache.WithSnapshot(ctx, user.Email, "agents", func() ([]model.Agent, error) {
				return client.GetAllAgents(ctx)
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			agents = filter.Apply(agents,
				filter.Text(search, func(a model.Agent) []string { return []string{a.Name, a.OwnerName} }),
				filter.Category(owner, func(a model.Agent) string { return a.OwnerName }),
			)

			out := map[string]any{"data": agents}
			if stale {
				out["meta"] = map[string]any{"stale": true}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring match on name/owner")
	cmd.Flags().StringVar(&owner, "owner", "", "Exact owner filter")
	return cmd
}

func newAgentsInfoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <agent-id>",
		Short: "Show marketplace and technical details for an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			agent, err := client.GetAgentInfo(cmdContext(cmd), args[0])
			if err != nil {
				var se *api.StatusError
				if errors.As(err, &se) && se.Code == http.StatusNotFound {
					return writeErr(cmd, errNotFound("agent", args[0]))
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": agent})
		},
	}
	return cmd
}

func newAgentsSaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <agent-id>",
		Short: "Toggle the bookmark flag for an agent (client-local)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			store, err := bookmarks.NewStore(user.Email)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := store.Toggle(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"agentId":    args[0],
				"bookmarked": m[args[0]],
				"bookmarks":  m,
			}})
		},
	}
	return cmd
}

func newAgentsSavedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List your saved agents with details",
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

			ids, err := client.GetSavedAgents(ctx, user.ID)
			if err != nil {
				return writeErr(cmd, err)
			}

			// N+1 join: fetch details per id concurrently, keyed by the
			// agent's own id. A failed lookup only drops that agent.
			details, errs := fetch.Details(ctx, ids, 0, client.GetAgentInfo, func(a model.Agent) string { return a.ID })

			agents := make([]model.Agent, 0, len(ids))
			failed := make([]string, 0)
			for _, id := range ids {
				if a, ok := details[id]; ok {
					agents = append(agents, a)
					continue
				}
				if _, ok := errs[id]; ok {
					failed = append(failed, id)
				}
			}

			out := map[string]any{"data": agents}
			if len(failed) > 0 {
				out["meta"] = map[string]any{"failedIds": failed}
			}
			return writeOut(cmd, app, out)
		},
	}
	return cmd
}
