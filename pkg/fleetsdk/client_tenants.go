package fleetsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListTenants(ctx context.Context) (*TenantListResponse, error) {
	var out TenantListResponse
	if err := c.do(ctx, http.MethodGet, "/v1/tenants", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTenant creates a tenant with the caller as admin and selects it.
func (c *Client) CreateTenant(ctx context.Context, req CreateTenantRequest) (*Tenant, error) {
	var out Tenant
	if err := c.do(ctx, http.MethodPost, "/v1/tenants", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectTenant makes tenantID the active tenant of the caller's session.
func (c *Client) SelectTenant(ctx context.Context, tenantID string) (*Tenant, error) {
	var out Tenant
	path := "/v1/tenants/" + url.PathEscape(tenantID) + "/select"
	if err := c.do(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
