package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/pkg/slogx"
	"github.com/abyford453/FleetGuard/pkg/validatex"
)

// TenantService lists, selects, creates and configures tenants.
type TenantService struct {
	Store     store.Store
	Audit     *Recorder
	Metrics   *metrics.Metrics
	Validator *validatex.Validator
	Now       func() time.Time
}

type CreateTenantInput struct {
	Name string `json:"name" validate:"notblank,max=150"`
}

// OrganizationInput is the full editable state of a tenant.
type OrganizationInput struct {
	Name     string          `json:"name" validate:"notblank,max=150"`
	Settings domain.Settings `json:"settings"`
}

// OrganizationChange reports what UpdateOrganization changed.
type OrganizationChange struct {
	Tenant  domain.Tenant
	Changed []string
}

// ListSelectable returns the tenants identity may select: the ones it is a
// member of. A superuser without memberships gets the oldest tenant, the same
// one Resolve falls back to.
func (s *TenantService) ListSelectable(ctx context.Context, identity domain.Identity) ([]domain.Tenant, error) {
	tenants, err := s.Store.Tenants().ListTenantsForIdentity(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	if len(tenants) > 0 || !identity.Superuser {
		return tenants, nil
	}

	first, err := s.Store.Tenants().FirstTenant(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load first tenant: %w", err)
	}
	return []domain.Tenant{first}, nil
}

// Select points the session slot at tenantID when it is one of the tenants
// ListSelectable offers. Anything else would be discarded by Resolve on the
// next request.
func (s *TenantService) Select(ctx context.Context, identity domain.Identity, sessionKey, tenantID string) (selected domain.Tenant, err error) {
	ctx, span := startSpan(ctx, "tenancy.tenant.select", attribute.String("tenant.id", tenantID))
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)

	// 1. Must be selectable
	tenants, err := s.ListSelectable(ctx, identity)
	if err != nil {
		return domain.Tenant{}, err
	}
	i := slices.IndexFunc(tenants, func(t domain.Tenant) bool { return t.ID == tenantID })
	if i < 0 {
		log.Warn("tenant selection denied", slog.String("tenant_id", tenantID))
		return domain.Tenant{}, ErrTenantNotAllowed
	}
	t := tenants[i]

	// 2. Persist the selection
	if err := rememberTenant(ctx, s.Store, identity.ID, sessionKey, t.ID, now(s.Now)); err != nil {
		return domain.Tenant{}, err
	}

	log.Info("tenant selected", slog.String("tenant_id", t.ID))
	return t, nil
}

// Create makes a new tenant with identity as its first admin and selects it.
func (s *TenantService) Create(ctx context.Context, identity domain.Identity, sessionKey string, in CreateTenantInput) (created domain.Tenant, err error) {
	ctx, span := startSpan(ctx, "tenancy.tenant.create")
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)

	// 1. Validate
	in.Name = strings.TrimSpace(in.Name)
	if err := validatorOrDefault(s.Validator).Struct(in); err != nil {
		return domain.Tenant{}, invalid(err)
	}

	at := now(s.Now)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Name must be free
		_, err := tx.Tenants().GetTenantByName(ctx, in.Name)
		if err == nil {
			return ErrTenantNameTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load tenant by name: %w", err)
		}

		// 3. Pick a free slug
		slug, err := freeSlug(ctx, tx, domain.Slugify(in.Name))
		if err != nil {
			return err
		}

		// 4. Tenant and admin membership together
		created = domain.Tenant{
			ID:        domain.NewID(),
			Name:      in.Name,
			Slug:      slug,
			Settings:  domain.DefaultSettings(),
			CreatedAt: at,
			UpdatedAt: at,
		}
		if err := tx.Tenants().CreateTenant(ctx, created); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrTenantNameTaken
			}
			return fmt.Errorf("create tenant: %w", err)
		}

		err = tx.Memberships().CreateMembership(ctx, domain.Membership{
			ID:         domain.NewID(),
			TenantID:   created.ID,
			IdentityID: identity.ID,
			Role:       domain.RoleAdmin,
			CreatedAt:  at,
		})
		if err != nil {
			return fmt.Errorf("create admin membership: %w", err)
		}

		return rememberTenant(ctx, tx, identity.ID, sessionKey, created.ID, at)
	})
	if err != nil {
		return domain.Tenant{}, err
	}

	s.Metrics.IncTenantsCreated()
	log.Info("tenant created",
		slog.String("tenant_id", created.ID),
		slog.String("slug", created.Slug),
	)

	return created, nil
}

// freeSlug returns base, or base-N for the smallest N >= 2 not yet taken.
func freeSlug(ctx context.Context, tx store.Tx, base string) (string, error) {
	for n := 1; ; n++ {
		candidate := domain.SlugCandidate(base, n)
		taken, err := tx.Tenants().SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
}

// UpdateOrganization rewrites the tenant name and settings. The slug is
// left unchanged.
func (s *TenantService) UpdateOrganization(ctx context.Context, actor domain.Identity, tenant domain.Tenant, in OrganizationInput) (change OrganizationChange, err error) {
	ctx, span := startSpan(ctx, "tenancy.tenant.update_organization", attribute.String("tenant.id", tenant.ID))
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)

	// 1. Validate
	in.Name = strings.TrimSpace(in.Name)
	if err := validatorOrDefault(s.Validator).Struct(in); err != nil {
		return OrganizationChange{}, invalid(err)
	}

	// 2. Name must stay unique
	if !strings.EqualFold(in.Name, tenant.Name) {
		other, err := s.Store.Tenants().GetTenantByName(ctx, in.Name)
		if err == nil && other.ID != tenant.ID {
			return OrganizationChange{}, ErrTenantNameTaken
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return OrganizationChange{}, fmt.Errorf("load tenant by name: %w", err)
		}
	}

	changed := organizationDiff(tenant, in)
	updated := tenant
	updated.Name = in.Name
	updated.Settings = in.Settings
	if len(changed) == 0 {
		return OrganizationChange{Tenant: updated}, nil
	}

	// 3. Persist
	at := now(s.Now)
	if err := s.Store.Tenants().UpdateTenant(ctx, tenant.ID, in.Name, in.Settings, at); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return OrganizationChange{}, ErrTenantNameTaken
		}
		return OrganizationChange{}, fmt.Errorf("update tenant: %w", err)
	}

	updated.UpdatedAt = at

	// 4. Audit
	s.Audit.Record(ctx, AuditEntry{
		TenantID: tenant.ID,
		ActorID:  actor.ID,
		Action:   domain.ActionOrganizationUpdated,
		Message:  fmt.Sprintf("%s updated organization settings.", actor.Label()),
		Metadata: map[string]any{"changed": changed},
	})

	log.Info("organization updated",
		slog.String("tenant_id", tenant.ID),
		slog.Any("changed", changed),
	)

	return OrganizationChange{Tenant: updated, Changed: changed}, nil
}

// organizationDiff lists the json names of the fields that differ.
func organizationDiff(t domain.Tenant, in OrganizationInput) []string {
	var changed []string
	if t.Name != in.Name {
		changed = append(changed, "name")
	}

	before, after := t.Settings, in.Settings
	fields := map[string]bool{
		"default_inspection_due_days":    before.DefaultInspectionDueDays != after.DefaultInspectionDueDays,
		"inspection_alert_days_before":   before.InspectionAlertDaysBefore != after.InspectionAlertDaysBefore,
		"maintenance_alert_miles_before": before.MaintenanceAlertMilesBefore != after.MaintenanceAlertMilesBefore,
		"maintenance_alert_days_before":  before.MaintenanceAlertDaysBefore != after.MaintenanceAlertDaysBefore,
		"units_distance":                 before.UnitsDistance != after.UnitsDistance,
		"units_fuel":                     before.UnitsFuel != after.UnitsFuel,
	}
	for name, differs := range fields {
		if differs {
			changed = append(changed, name)
		}
	}
	slices.Sort(changed)
	return changed
}
