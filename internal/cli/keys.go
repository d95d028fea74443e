package cli

import (
	"agentdeck/internal/api"
	"agentdeck/internal/cache"
	"agentdeck/internal/model"
	"agentdeck/internal/share"

	"github.com/spf13/cobra"
)

func newKeysCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}

	cmd.AddCommand(newKeysListCmd(app))
	cmd.AddCommand(newKeysAddCmd(app))
	cmd.AddCommand(newKeysInfoCmd(app))
	cmd.AddCommand(newKeysShareCmd(app))
	cmd.AddCommand(newKeysSharedCmd(app))

	return cmd
}

func newKeysListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your API keys",
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

			keys, stale, err := cache.WithSnapshot(ctx, user.Email, "keys", func() ([]model.APIKey, error) {
				return client.GetKeys(ctx, user.ID)
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			out := map[string]any{"data": keys}
			if stale {
				out["meta"] = map[string]any{"stale": true}
			}
			return writeOut(cmd, app, out)
		},
	}
	return cmd
}

func newKeysAddCmd(app *App) *cobra.Command {
	var name, provider, key string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			created, err := client.AddKey(cmdContext(cmd), api.AddKeyRequest{
				Name:     name,
				Provider: provider,
				UserID:   user.ID,
				Key:      key,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the key")
	cmd.Flags().StringVar(&provider, "provider", "", "Provider the key belongs to")
	cmd.Flags().StringVar(&key, "key", "", "The key material")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newKeysInfoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <key-id>",
		Short: "Show one API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return writeErr(cmd, err)
			}
			client, _, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			k, err := client.GetKeyInfo(cmdContext(cmd), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": k})
		},
	}
	return cmd
}

func newKeysShareCmd(app *App) *cobra.Command {
	var keyID, receiverID string

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a key with another user",
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

			// Existing grants make a repeat share a no-op before any request
			// reaches the backend.
			recipients := share.NewRecipientSet()
			if grants, err := client.KeysYouShared(ctx, user.ID); err == nil {
				recipients.SeedFromGrants(grants)
			}
			if recipients.Has(keyID, receiverID) {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"keyId":         keyID,
					"receiverId":    receiverID,
					"alreadyShared": true,
				}})
			}

			grant, err := client.ShareKey(ctx, keyID, user.ID, receiverID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": grant})
		},
	}

	cmd.Flags().StringVar(&keyID, "key", "", "Key id to share")
	cmd.Flags().StringVar(&receiverID, "to", "", "Recipient user id")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newKeysSharedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shared",
		Short: "List keys you shared and keys shared with you",
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

			byYou, err := client.KeysYouShared(ctx, user.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			withYou, err := client.KeysSharedWithYou(ctx, user.ID)
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
