package fleetsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) GetSettings(ctx context.Context) (*SettingsOverview, error) {
	var out SettingsOverview
	if err := c.do(ctx, http.MethodGet, "/v1/settings", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrganization(ctx context.Context, req UpdateOrganizationRequest) (*UpdateOrganizationResponse, error) {
	var out UpdateOrganizationResponse
	if err := c.do(ctx, http.MethodPatch, "/v1/settings/organization", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMembers lists members of the active tenant. query and role are
// optional filters.
func (c *Client) ListMembers(ctx context.Context, query, role string) (*MemberListResponse, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	if role != "" {
		q.Set("role", role)
	}
	path := "/v1/settings/members"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out MemberListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddMember(ctx context.Context, req AddMemberRequest) (*Member, error) {
	var out Member
	if err := c.do(ctx, http.MethodPost, "/v1/settings/members", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveMember(ctx context.Context, membershipID string) error {
	path := "/v1/settings/members/" + url.PathEscape(membershipID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

func (c *Client) UpdateMemberRole(ctx context.Context, membershipID, role string) (*UpdateRoleResponse, error) {
	var out UpdateRoleResponse
	path := "/v1/settings/members/" + url.PathEscape(membershipID) + "/role"
	if err := c.do(ctx, http.MethodPut, path, UpdateRoleRequest{Role: role}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAudit lists audit events. start and end are optional YYYY-MM-DD dates.
func (c *Client) ListAudit(ctx context.Context, action, start, end string) (*AuditListResponse, error) {
	q := url.Values{}
	if action != "" {
		q.Set("action", action)
	}
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	path := "/v1/settings/audit"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out AuditListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
