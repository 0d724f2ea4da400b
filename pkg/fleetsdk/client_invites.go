package fleetsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListInvites(ctx context.Context) (*InviteListResponse, error) {
	var out InviteListResponse
	if err := c.do(ctx, http.MethodGet, "/v1/settings/invites", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInvite(ctx context.Context, req CreateInviteRequest) (*Invite, error) {
	var out Invite
	if err := c.do(ctx, http.MethodPost, "/v1/settings/invites", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RevokeInvite(ctx context.Context, inviteID string) (*Invite, error) {
	var out Invite
	path := "/v1/settings/invites/" + url.PathEscape(inviteID) + "/revoke"
	if err := c.do(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// PreviewInvite shows what accepting token would do, without accepting it.
func (c *Client) PreviewInvite(ctx context.Context, token string) (*InvitePreview, error) {
	var out InvitePreview
	if err := c.do(ctx, http.MethodGet, "/v1/invites/accept/"+url.PathEscape(token), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AcceptInvite(ctx context.Context, token string) (*AcceptInviteResponse, error) {
	var out AcceptInviteResponse
	if err := c.do(ctx, http.MethodPost, "/v1/invites/accept/"+url.PathEscape(token), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
