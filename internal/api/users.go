package api

import (
	"context"
	"net/url"

	"agentdeck/internal/model"
)

// User-scoped endpoints. Endpoint names mirror the backend routes verbatim;
// the backend mixes snake_case and kebab-case and the client does not paper
// over that.

func (c *Client) GetUser(ctx context.Context, email string) (model.User, error) {
	var u model.User
	q := url.Values{"email": {email}}
	if err := c.getJSON(ctx, "/users/get_user", q, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (c *Client) GetUserInfo(ctx context.Context, userID string) (model.User, error) {
	var u model.User
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/users/get_user_info", q, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetAgents lists the agents the user has worked with.
func (c *Client) GetAgents(ctx context.Context, userID string) ([]model.Agent, error) {
	var agents []model.Agent
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/users/get-agents", q, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// GetSavedAgents returns the ids of the user's saved agents. Details are
// fetched separately and joined client-side by id.
func (c *Client) GetSavedAgents(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/users/get_saved_agents", q, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) GetKeys(ctx context.Context, userID string) ([]model.APIKey, error) {
	var keys []model.APIKey
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/users/get_keys", q, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *Client) GetKeyInfo(ctx context.Context, keyID string) (model.APIKey, error) {
	var k model.APIKey
	q := url.Values{"key_id": {keyID}}
	if err := c.getJSON(ctx, "/users/get_key_info", q, &k); err != nil {
		return model.APIKey{}, err
	}
	return k, nil
}

type AddKeyRequest struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
	UserID   string `json:"user_id"`
	Key      string `json:"key"`
}

func (c *Client) AddKey(ctx context.Context, req AddKeyRequest) (model.APIKey, error) {
	var k model.APIKey
	if err := c.postJSON(ctx, "/users/add_key", req, &k); err != nil {
		return model.APIKey{}, err
	}
	return k, nil
}

type shareRequest struct {
	ResourceID string `json:"resource_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"reciever_id"` // backend wire spelling
}

func (c *Client) ShareKey(ctx context.Context, keyID, senderID, receiverID string) (model.ShareGrant, error) {
	var g model.ShareGrant
	req := shareRequest{ResourceID: keyID, SenderID: senderID, ReceiverID: receiverID}
	if err := c.postJSON(ctx, "/users/share-key", req, &g); err != nil {
		return model.ShareGrant{}, err
	}
	return g, nil
}

func (c *Client) KeysYouShared(ctx context.Context, userID string) ([]model.ShareGrant, error) {
	var grants []model.ShareGrant
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/users/keys-you-shared", q, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (c *Client) KeysSharedWithYou(ctx context.Context, userID string) ([]model.ShareGrant, error) {
	var grants []model.ShareGrant
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/users/keys-shared-with-you", q, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (c *Client) GetYourOrganizations(ctx context.Context, userID string) ([]model.Organization, error) {
	var orgs []model.Organization
	q := url.Values{"user_id": {userID}}
	if err := c.getJSON(ctx, "/users/get_your_organizations", q, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

type joinOrganizationRequest struct {
	UserID      string `json:"user_id"`
	InviteToken string `json:"invite_token"`
}

// JoinOrganization joins via invite token. A rejected token (already joined,
// unknown token) comes back as a StatusError whose Message is meant for
// inline display.
func (c *Client) JoinOrganization(ctx context.Context, userID, inviteToken string) (model.Organization, error) {
	var org model.Organization
	req := joinOrganizationRequest{UserID: userID, InviteToken: inviteToken}
	if err := c.postJSON(ctx, "/users/join_organization", req, &org); err != nil {
		return model.Organization{}, err
	}
	return org, nil
}
