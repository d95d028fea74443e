package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your usage totals",
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

			executed, err := client.TotalTasksExecuted(ctx, user.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			budget, err := client.TotalBudgetConsumed(ctx, user.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"totalTasksExecuted":  executed,
				"totalBudgetConsumed": budget,
			}})
		},
	}
	return cmd
}
