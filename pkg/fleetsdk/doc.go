/*
Package fleetsdk is a small client for the FleetGuard tenancy API.

The request and response types are shared with the server handlers, so the
JSON shapes stay in one place.

	client := fleetsdk.NewClient("https://fleet.example.com", accessToken)

	tenants, err := client.ListTenants(ctx)
	created, err := client.CreateTenant(ctx, fleetsdk.CreateTenantRequest{Name: "Acme Logistics"})

Non-2xx responses are returned as *APIError, carrying the error code, the
suggested redirect and any field errors:

	var apiErr *fleetsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == fleetsdk.ErrorCodeLastAdmin {
		// ...
	}
*/
package fleetsdk
