package cli

import (
	"context"

	"agentdeck/internal/api"
	"agentdeck/internal/fetch"
	"agentdeck/internal/model"
)

// resolveRecipients maps the recipient ids in grants to display names so the
// output is readable without a second lookup. Best-effort: an id that fails
// to resolve is simply absent.
func resolveRecipients(ctx context.Context, client *api.Client, grants []model.ShareGrant) map[string]string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(grants))
	for _, g := range grants {
		if g.ReceiverID == "" {
			continue
		}
		if _, ok := seen[g.ReceiverID]; ok {
			continue
		}
		seen[g.ReceiverID] = struct{}{}
		ids = append(ids, g.ReceiverID)
	}
	users, _ := fetch.Details(ctx, ids, 0, client.GetUserInfo, func(u model.User) string { return u.ID })
	out := make(map[string]string, len(users))
	for id, u := range users {
		out[id] = u.Name
	}
	return out
}
