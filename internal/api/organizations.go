package api

import (
	"context"
	"net/url"

	"agentdeck/internal/model"
)

type CreateOrganizationRequest struct {
	Name    string `json:"name"`
	AdminID string `json:"admin_id"`
}

// CreateOrganization creates an organization with the caller as admin.
func (c *Client) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (model.Organization, error) {
	var org model.Organization
	if err := c.postJSON(ctx, "/organizations/create", req, &org); err != nil {
		return model.Organization{}, err
	}
	return org, nil
}

func (c *Client) GetOrganizationDetails(ctx context.Context, orgID string) (model.Organization, error) {
	var org model.Organization
	q := url.Values{"organization_id": {orgID}}
	if err := c.getJSON(ctx, "/organizations/get_organization_details", q, &org); err != nil {
		return model.Organization{}, err
	}
	return org, nil
}

func (c *Client) GetMembers(ctx context.Context, orgID string) ([]model.User, error) {
	var members []model.User
	q := url.Values{"organization_id": {orgID}}
	if err := c.getJSON(ctx, "/organizations/get_members", q, &members); err != nil {
		return nil, err
	}
	return members, nil
}
