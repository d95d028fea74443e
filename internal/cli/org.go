package cli

import (
	"strings"

	"agentdeck/internal/api"
	"agentdeck/internal/session"

	"github.com/spf13/cobra"
)

func newOrgCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organizations",
	}

	cmd.AddCommand(newOrgCreateCmd(app))
	cmd.AddCommand(newOrgJoinCmd(app))
	cmd.AddCommand(newOrgUseCmd(app))
	cmd.AddCommand(newOrgListCmd(app))
	cmd.AddCommand(newOrgShowCmd(app))
	cmd.AddCommand(newOrgMembersCmd(app))

	return cmd
}

func newOrgCreateCmd(app *App) *cobra.Command {
	var name string
	var use bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization (you become admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}

			org, err := client.CreateOrganization(cmdContext(cmd), api.CreateOrganizationRequest{Name: name, AdminID: user.ID})
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				if _, err := session.NewStore().SetActiveOrganization(org.ID); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": org})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Organization name")
	cmd.Flags().BoolVar(&use, "use", true, "Set as the active organization")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newOrgJoinCmd(app *App) *cobra.Command {
	var token string
	var use bool

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join an organization via invite token",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}

			// A rejected token (already a member, unknown token) comes back as
			// an inline message, not a stack trace.
			org, err := client.JoinOrganization(cmdContext(cmd), user.ID, strings.TrimSpace(token))
			if err != nil {
				return writeErr(cmd, err)
			}
			if use {
				if _, err := session.NewStore().SetActiveOrganization(org.ID); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": org})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Invite token")
	cmd.Flags().BoolVar(&use, "use", true, "Set as the active organization")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newOrgUseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <org-id>",
		Short: "Set the active organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			user, err := session.NewStore().SetActiveOrganization(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"organization": user.Organization}})
		},
	}
	return cmd
}

func newOrgListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			orgs, err := client.GetYourOrganizations(cmdContext(cmd), user.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"activeOrganization": user.Organization,
				"organizations":      orgs,
			}})
		},
	}
	return cmd
}

func newOrgShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [org-id]",
		Short: "Show organization details (defaults to the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			orgID := user.Organization
			if len(args) == 1 {
				orgID = args[0]
			}
			if strings.TrimSpace(orgID) == "" {
				return writeErr(cmd, errNoOrganization())
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			org, err := client.GetOrganizationDetails(cmdContext(cmd), orgID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": org})
		},
	}
	return cmd
}

func newOrgMembersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members [org-id]",
		Short: "List members of an organization (defaults to the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			orgID := user.Organization
			if len(args) == 1 {
				orgID = args[0]
			}
			if strings.TrimSpace(orgID) == "" {
				return writeErr(cmd, errNoOrganization())
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			members, err := client.GetMembers(cmdContext(cmd), orgID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": members})
		},
	}
	return cmd
}
