package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"agentdeck/internal/authproxy"
	"agentdeck/internal/session"

	"github.com/spf13/cobra"
)

const loginWaitTimeout = 5 * time.Minute

func newLoginCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in via GitHub OAuth (or --email for a pre-provisioned user)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := app.backend()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmdContext(cmd)

			// --email skips OAuth: resolve the user directly. Useful for dev
			// setups where the backend trusts the caller.
			if strings.TrimSpace(email) == "" {
				resolved, err := oauthLogin(ctx, cmd, cfg.GitHubOAuthClientID, cfg.GitHubOAuthClientSecret, cfg.OAuthListenAddr)
				if err != nil {
					return writeErr(cmd, err)
				}
				email = resolved
			}

			user, err := client.GetUser(ctx, strings.TrimSpace(email))
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := session.NewStore().Save(user); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": user})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Log in as this email without the OAuth flow")
	return cmd
}

// oauthLogin runs the loopback OAuth flow and returns the GitHub account's
// primary email.
func oauthLogin(ctx context.Context, cmd *cobra.Command, clientID, clientSecret, listenAddr string) (string, error) {
	srv, err := authproxy.New(clientID, clientSecret, listenAddr)
	if err != nil {
		return "", err
	}

	// Bind before printing the URL: a taken port must fail the command, not
	// leave the user waiting on a callback that can never arrive.
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return "", fmt.Errorf("oauth callback listener: %w", err)
	}

	httpSrv := &http.Server{Handler: srv.Router()}
	go func() { _ = httpSrv.Serve(ln) }()
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shCtx)
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL in your browser to log in:\n\n  %s\n\n", srv.AuthorizeURL())

	waitCtx, cancel := context.WithTimeout(ctx, loginWaitTimeout)
	defer cancel()
	tok, err := srv.Wait(waitCtx)
	if err != nil {
		return "", err
	}

	email, err := fetchGitHubEmail(ctx, tok.AccessToken)
	if err != nil {
		return "", err
	}
	if email == "" {
		return "", errors.New("GitHub account has no visible email; re-run with --email")
	}
	return email, nil
}

func fetchGitHubEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.github.com/user", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", "agentdeck")

	client := &http.Client{Timeout: 10 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("github user http %d", res.StatusCode)
	}

	var u struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(b, &u); err != nil {
		return "", err
	}
	return strings.TrimSpace(u.Email), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.NewStore().Clear(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"loggedOut": true}})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user and active organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := requireSession()
			if err != nil {
				return writeErr(cmd, err)
			}
			if refresh {
				client, _, err := app.backend()
				if err != nil {
					return writeErr(cmd, err)
				}
				// The cached copy may be stale/partial; re-fetch by email.
				fresh, err := client.GetUser(cmdContext(cmd), user.Email)
				if err != nil {
					return writeErr(cmd, err)
				}
				if err := session.NewStore().Save(fresh); err != nil {
					return writeErr(cmd, err)
				}
				user = fresh
			}
			return writeOut(cmd, app, map[string]any{"data": user})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-fetch the user record from the backend")
	return cmd
}
