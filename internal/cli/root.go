package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agentdeck/internal/api"
	"agentdeck/internal/config"
	"agentdeck/internal/format"
	"agentdeck/internal/model"
	"agentdeck/internal/session"
	"agentdeck/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	PrettyJSON bool

	// cached per invocation
	cfg    *config.Config
	client *api.Client
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "agentdeck",
		Short:        "Agent marketplace dashboard (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  agentdeck

  # Scriptable commands
  agentdeck agents list
  agentdeck tasks list
  agentdeck keys share --key key-1 --to u2
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runDashboard(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newOrgCmd(app))
	cmd.AddCommand(newAgentsCmd(app))
	cmd.AddCommand(newKeysCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newBugsCmd(app))
	cmd.AddCommand(newStatsCmd(app))

	return cmd
}

func runDashboard(app *App) error {
	user, err := requireSession()
	if err != nil {
		return err
	}
	client, cfg, err := app.backend()
	if err != nil {
		return err
	}
	return tui.Run(tui.Deps{
		Client:  client,
		Session: session.NewStore(),
		User:    user,
		Timeout: cfg.HTTPTimeout,
	})
}

func (app *App) backend() (*api.Client, config.Config, error) {
	if app.client != nil {
		return app.client, *app.cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	app.cfg = &cfg
	app.client = api.New(cfg.BaseURL, cfg.HTTPTimeout)
	return app.client, cfg, nil
}

// requireSession loads the stored session. No session means "must
// authenticate": the caller returns before issuing any resource fetch.
func requireSession() (model.User, error) {
	u, err := session.NewStore().Load()
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			return model.User{}, fmt.Errorf("not logged in; run `agentdeck login`")
		}
		return model.User{}, err
	}
	return u, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
