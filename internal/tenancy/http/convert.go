package http

import (
	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/service"
	"github.com/abyford453/FleetGuard/pkg/fleetsdk"
)

func toSettings(s domain.Settings) fleetsdk.Settings {
	return fleetsdk.Settings{
		DefaultInspectionDueDays:    s.DefaultInspectionDueDays,
		InspectionAlertDaysBefore:   s.InspectionAlertDaysBefore,
		MaintenanceAlertMilesBefore: s.MaintenanceAlertMilesBefore,
		MaintenanceAlertDaysBefore:  s.MaintenanceAlertDaysBefore,
		UnitsDistance:               string(s.UnitsDistance),
		UnitsFuel:                   string(s.UnitsFuel),
	}
}

func fromSettings(s fleetsdk.Settings) domain.Settings {
	return domain.Settings{
		DefaultInspectionDueDays:    s.DefaultInspectionDueDays,
		InspectionAlertDaysBefore:   s.InspectionAlertDaysBefore,
		MaintenanceAlertMilesBefore: s.MaintenanceAlertMilesBefore,
		MaintenanceAlertDaysBefore:  s.MaintenanceAlertDaysBefore,
		UnitsDistance:               domain.DistanceUnit(s.UnitsDistance),
		UnitsFuel:                   domain.FuelUnit(s.UnitsFuel),
	}
}

func toTenant(t domain.Tenant) fleetsdk.Tenant {
	return fleetsdk.Tenant{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Settings:  toSettings(t.Settings),
		CreatedAt: t.CreatedAt,
	}
}

func toMember(m domain.Member) fleetsdk.Member {
	return fleetsdk.Member{
		MembershipID: m.ID,
		IdentityID:   m.IdentityID,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		Email:        m.Email,
		Role:         string(m.Role),
		JoinedAt:     m.CreatedAt,
	}
}

func toMemberView(v service.MemberView) fleetsdk.Member {
	m := toMember(v.Member)
	m.CanRemove = v.CanRemove
	m.RemoveReason = v.RemoveReason
	m.CanChangeRole = v.CanChangeRole
	m.ChangeRoleReason = v.ChangeRoleReason
	return m
}

// toInvite never exposes the raw token except inside the accept URL.
func toInvite(v service.InviteView) fleetsdk.Invite {
	return fleetsdk.Invite{
		ID:        v.ID,
		Role:      string(v.Role),
		Email:     v.Email,
		Status:    string(v.Status),
		AcceptURL: v.AcceptURL,
		Uses:      v.Uses,
		MaxUses:   v.MaxUses,
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt,
		ExpiresAt: v.ExpiresAt,
		RevokedAt: v.RevokedAt,
	}
}

func toAuditEvent(e domain.AuditEvent) fleetsdk.AuditEvent {
	return fleetsdk.AuditEvent{
		ID:        e.ID,
		ActorID:   e.ActorID,
		Action:    string(e.Action),
		Message:   e.Message,
		Metadata:  e.Metadata,
		CreatedAt: e.CreatedAt,
	}
}
