package sqlite

import (
	"context"
	"time"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
)

const tenantColumns = `t.id, t.name, t.slug,
	t.default_inspection_due_days, t.inspection_alert_days_before,
	t.maintenance_alert_miles_before, t.maintenance_alert_days_before,
	t.units_distance, t.units_fuel, t.created_at, t.updated_at`

type tenantsRepo struct {
	db dbtx
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	now := toMillis(t.CreatedAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tenants (
			id, name, slug,
			default_inspection_due_days, inspection_alert_days_before,
			maintenance_alert_miles_before, maintenance_alert_days_before,
			units_distance, units_fuel, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Slug,
		t.Settings.DefaultInspectionDueDays, t.Settings.InspectionAlertDaysBefore,
		t.Settings.MaintenanceAlertMilesBefore, t.Settings.MaintenanceAlertDaysBefore,
		string(t.Settings.UnitsDistance), string(t.Settings.UnitsFuel), now, now,
	)
	return mapConflict(err)
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.id = ?`, id)
	t, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tenantsRepo) GetTenantByName(ctx context.Context, name string) (domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants t WHERE t.name = ? COLLATE NOCASE`, name)
	t, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tenantsRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tenants WHERE slug = ?)`, slug).Scan(&exists)
	return exists, err
}

func (r *tenantsRepo) FirstTenant(ctx context.Context) (domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants t ORDER BY t.created_at, t.id LIMIT 1`)
	t, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tenantsRepo) ListTenantsForIdentity(ctx context.Context, identityID string) ([]domain.Tenant, error) {
	return r.list(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN memberships m ON m.tenant_id = t.id
		WHERE m.identity_id = ?
		ORDER BY t.name COLLATE NOCASE, t.id`, identityID)
}

func (r *tenantsRepo) UpdateTenant(ctx context.Context, id, name string, settings domain.Settings, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tenants SET
			name = ?,
			default_inspection_due_days = ?,
			inspection_alert_days_before = ?,
			maintenance_alert_miles_before = ?,
			maintenance_alert_days_before = ?,
			units_distance = ?,
			units_fuel = ?,
			updated_at = ?
		WHERE id = ?`,
		name,
		settings.DefaultInspectionDueDays, settings.InspectionAlertDaysBefore,
		settings.MaintenanceAlertMilesBefore, settings.MaintenanceAlertDaysBefore,
		string(settings.UnitsDistance), string(settings.UnitsFuel),
		toMillis(at), id,
	)
	ok, err := affected(res, mapConflict(err))
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (r *tenantsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTenant(s scanner) (domain.Tenant, error) {
	var (
		t         domain.Tenant
		distance  string
		fuel      string
		createdAt int64
		updatedAt int64
	)
	err := s.Scan(
		&t.ID, &t.Name, &t.Slug,
		&t.Settings.DefaultInspectionDueDays, &t.Settings.InspectionAlertDaysBefore,
		&t.Settings.MaintenanceAlertMilesBefore, &t.Settings.MaintenanceAlertDaysBefore,
		&distance, &fuel, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Tenant{}, err
	}
	t.Settings.UnitsDistance = domain.DistanceUnit(distance)
	t.Settings.UnitsFuel = domain.FuelUnit(fuel)
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}
