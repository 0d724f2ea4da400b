package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
	"github.com/abyford453/FleetGuard/pkg/cryptox"
	"github.com/abyford453/FleetGuard/pkg/slogx"
	"github.com/abyford453/FleetGuard/pkg/validatex"
)

const (
	inviteListLimit        = 200
	tokenFingerprintLength = 12
	acceptPathPrefix       = "/v1/invites/accept/"
)

// InviteService manages invite links.
type InviteService struct {
	Store     store.Store
	Audit     *Recorder
	Metrics   *metrics.Metrics
	Validator *validatex.Validator

	// PublicURL prefixes accept links, e.g. https://fleet.example.com.
	PublicURL string
	// DefaultExpiryDays applies when CreateInviteInput.ExpiresInDays is zero.
	DefaultExpiryDays int

	Now func() time.Time
}

// CreateInviteInput holds the admin's choices. Zero values take defaults.
type CreateInviteInput struct {
	Role          string `json:"role" validate:"omitempty,oneof=admin user"`
	Email         string `json:"email" validate:"omitempty,email,max=254"`
	ExpiresInDays int    `json:"expires_in_days" validate:"min=1,max=365"`
	MaxUses       int    `json:"max_uses" validate:"min=1"`
}

// InviteView is an invite with its derived status and accept link.
type InviteView struct {
	domain.Invite

	Status    domain.InviteStatus
	AcceptURL string
}

// AcceptPreview is what an identity sees before confirming an invite.
type AcceptPreview struct {
	Invite        domain.Invite
	Tenant        domain.Tenant
	AlreadyMember bool
}

// AcceptResult is the outcome of a confirmed accept. AlreadyMember is set
// when nothing changed because the identity already belonged to the tenant.
type AcceptResult struct {
	Tenant        domain.Tenant
	Membership    domain.Membership
	Role          domain.Role
	AlreadyMember bool
}

// AcceptURL returns the link that redeems token.
func (s *InviteService) AcceptURL(token string) string {
	return strings.TrimRight(s.PublicURL, "/") + acceptPathPrefix + token
}

func (s *InviteService) view(inv domain.Invite, at time.Time) InviteView {
	return InviteView{Invite: inv, Status: inv.Status(at), AcceptURL: s.AcceptURL(inv.Token)}
}

// Create mints a new invite for tenant.
func (s *InviteService) Create(ctx context.Context, actor domain.Identity, tenant domain.Tenant, in CreateInviteInput) (created InviteView, err error) {
	ctx, span := startSpan(ctx, "tenancy.invite.create", attribute.String("tenant.id", tenant.ID))
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)

	// 1. Apply defaults and validate
	if in.Role == "" {
		in.Role = string(domain.RoleUser)
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.ExpiresInDays == 0 {
		in.ExpiresInDays = s.DefaultExpiryDays
		if in.ExpiresInDays <= 0 {
			in.ExpiresInDays = domain.DefaultInviteExpiryDays
		}
	}
	if in.MaxUses == 0 {
		in.MaxUses = domain.DefaultInviteMaxUses
	}
	if err := validatorOrDefault(s.Validator).Struct(in); err != nil {
		return InviteView{}, invalid(err)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return InviteView{}, ErrInvalidRole
	}

	// 2. Generate the bearer token
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return InviteView{}, err
	}

	// 3. Store the invite
	at := now(s.Now)
	expiresAt := at.Add(time.Duration(in.ExpiresInDays) * 24 * time.Hour)
	inv := domain.Invite{
		ID:        domain.NewID(),
		TenantID:  tenant.ID,
		Token:     token,
		Role:      role,
		Email:     in.Email,
		CreatedBy: actor.ID,
		CreatedAt: at,
		ExpiresAt: &expiresAt,
		MaxUses:   in.MaxUses,
		IsActive:  true,
	}
	if err := s.Store.Invites().CreateInvite(ctx, inv); err != nil {
		log.Error("failed to create invite",
			slog.String("invite_id", inv.ID),
			slog.Any("error", err),
		)
		return InviteView{}, fmt.Errorf("create invite: %w", err)
	}

	// 4. Audit without the raw token
	s.Audit.Record(ctx, AuditEntry{
		TenantID: tenant.ID,
		ActorID:  actor.ID,
		Action:   domain.ActionInviteCreated,
		Message:  fmt.Sprintf("%s created an invite link for role %s.", actor.Label(), role),
		Metadata: map[string]any{
			"invite_id":         inv.ID,
			"role":              string(role),
			"email":             inv.Email,
			"expires_in_days":   in.ExpiresInDays,
			"max_uses":          in.MaxUses,
			"token_fingerprint": cryptox.ShortFingerprint(token, tokenFingerprintLength),
		},
	})

	log.Info("invite created",
		slog.String("tenant_id", tenant.ID),
		slog.String("invite_id", inv.ID),
		slog.String("role", string(role)),
		slog.Int("max_uses", in.MaxUses),
		slog.Time("expires_at", expiresAt),
	)

	return s.view(inv, at), nil
}

// Revoke permanently disables an unused invite of tenant.
func (s *InviteService) Revoke(ctx context.Context, actor domain.Identity, tenant domain.Tenant, inviteID string) (revoked domain.Invite, err error) {
	ctx, span := startSpan(ctx, "tenancy.invite.revoke",
		attribute.String("tenant.id", tenant.ID),
		attribute.String("invite.id", inviteID),
	)
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)
	at := now(s.Now)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Load within this tenant
		inv, err := tx.Invites().GetInvite(ctx, tenant.ID, inviteID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInviteNotFound
		}
		if err != nil {
			return fmt.Errorf("load invite: %w", err)
		}

		// 2. Used invites stay as a record of who joined
		if inv.Used() {
			return ErrInviteAlreadyUsed
		}
		if inv.Revoked {
			return ErrInviteAlreadyRevoked
		}

		// 3. Conditional revoke
		ok, err := tx.Invites().RevokeInvite(ctx, tenant.ID, inviteID, at)
		if err != nil {
			return fmt.Errorf("revoke invite: %w", err)
		}
		if !ok {
			return ErrInviteAlreadyUsed
		}

		inv.Revoked = true
		inv.IsActive = false
		inv.RevokedAt = &at
		revoked = inv
		return nil
	})
	if err != nil {
		return domain.Invite{}, err
	}

	// 4. Audit
	s.Audit.Record(ctx, AuditEntry{
		TenantID: tenant.ID,
		ActorID:  actor.ID,
		Action:   domain.ActionInviteRevoked,
		Message:  fmt.Sprintf("%s revoked an invite link.", actor.Label()),
		Metadata: map[string]any{"invite_id": revoked.ID},
	})

	log.Info("invite revoked",
		slog.String("tenant_id", tenant.ID),
		slog.String("invite_id", revoked.ID),
	)

	return revoked, nil
}

// List returns the newest invites of tenant with their status.
func (s *InviteService) List(ctx context.Context, tenant domain.Tenant) ([]InviteView, error) {
	invites, err := s.Store.Invites().ListInvites(ctx, tenant.ID, inviteListLimit)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}

	at := now(s.Now)
	out := make([]InviteView, 0, len(invites))
	for _, inv := range invites {
		out = append(out, s.view(inv, at))
	}
	return out, nil
}

// redeemable loads the invite for token and checks it can be accepted at at.
func (s *InviteService) redeemable(ctx context.Context, st store.Store, token string, at time.Time) (domain.Invite, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Invite{}, ErrInviteInvalid
	}

	inv, err := st.Invites().GetInviteByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invite{}, ErrInviteInvalid
	}
	if err != nil {
		return domain.Invite{}, fmt.Errorf("load invite: %w", err)
	}

	if !inv.Redeemable(at) {
		return inv, statusRejection(inv.Status(at))
	}
	return inv, nil
}

func statusRejection(status domain.InviteStatus) error {
	switch status {
	case domain.InviteRevoked:
		return ErrInviteRevoked
	case domain.InviteExpired:
		return ErrInviteExpired
	default:
		return ErrInviteExhausted
	}
}

// Preview checks token for identity without changing anything.
func (s *InviteService) Preview(ctx context.Context, identity domain.Identity, token string) (preview AcceptPreview, err error) {
	ctx, span := startSpan(ctx, "tenancy.invite.preview")
	defer func() { endSpan(span, s.Metrics, err) }()

	inv, err := s.redeemable(ctx, s.Store, token, now(s.Now))
	if err != nil {
		return AcceptPreview{}, err
	}

	tenant, err := s.Store.Tenants().GetTenantByID(ctx, inv.TenantID)
	if err != nil {
		return AcceptPreview{}, fmt.Errorf("load tenant: %w", err)
	}

	_, err = s.Store.Memberships().GetMembership(ctx, inv.TenantID, identity.ID)
	switch {
	case err == nil:
		return AcceptPreview{Invite: inv, Tenant: tenant, AlreadyMember: true}, nil
	case !errors.Is(err, store.ErrNotFound):
		return AcceptPreview{}, fmt.Errorf("load membership: %w", err)
	}

	return AcceptPreview{Invite: inv, Tenant: tenant}, nil
}

// Accept redeems token for identity. The membership insert and the use
// counter increment commit together or not at all. On success the session
// slot named sessionKey is pointed at the joined tenant.
func (s *InviteService) Accept(ctx context.Context, identity domain.Identity, sessionKey, token string) (result AcceptResult, err error) {
	ctx, span := startSpan(ctx, "tenancy.invite.accept", attribute.String("identity.id", identity.ID))
	defer func() { endSpan(span, s.Metrics, err) }()

	log := slogx.FromContext(ctx)
	at := now(s.Now)

	var inv domain.Invite
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Token lookup and redeemability
		var err error
		inv, err = s.redeemable(ctx, tx, token, at)
		if err != nil {
			return err
		}

		tenant, err := tx.Tenants().GetTenantByID(ctx, inv.TenantID)
		if err != nil {
			return fmt.Errorf("load tenant: %w", err)
		}
		result.Tenant = tenant
		result.Role = inv.Role

		// 2. Existing members are left untouched
		existing, err := tx.Memberships().GetMembership(ctx, inv.TenantID, identity.ID)
		if err == nil {
			result.Membership = existing
			result.AlreadyMember = true
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("load membership: %w", err)
		}

		// 3. Create the membership
		m := domain.Membership{
			ID:         domain.NewID(),
			TenantID:   inv.TenantID,
			IdentityID: identity.ID,
			Role:       inv.Role,
			CreatedAt:  at,
		}
		if err := tx.Memberships().CreateMembership(ctx, m); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return errAcceptRaceAlreadyMember
			}
			return fmt.Errorf("create membership: %w", err)
		}
		result.Membership = m

		// 4. Take one use, conditionally
		ok, err := tx.Invites().ConsumeInvite(ctx, inv.ID, at)
		if err != nil {
			return fmt.Errorf("consume invite: %w", err)
		}
		if !ok {
			return errAcceptRaceLost
		}
		return nil
	})

	switch {
	case errors.Is(err, errAcceptRaceAlreadyMember):
		// A concurrent accept by the same identity won
		log.Info("invite accept raced with existing membership", slog.String("invite_id", inv.ID))
		return AcceptResult{Tenant: result.Tenant, Role: inv.Role, AlreadyMember: true}, nil
	case errors.Is(err, errAcceptRaceLost):
		return AcceptResult{}, s.diagnose(ctx, token, at)
	case err != nil:
		return AcceptResult{}, err
	}

	if err := rememberTenant(ctx, s.Store, identity.ID, sessionKey, result.Tenant.ID, at); err != nil {
		log.Warn("failed to select joined tenant", slog.Any("error", err))
	}

	if result.AlreadyMember {
		return result, nil
	}

	// 5. Audit after commit
	s.Metrics.IncInvitesAccepted()
	s.Metrics.IncMembershipChange("added")
	s.Audit.Record(ctx, AuditEntry{
		TenantID: result.Tenant.ID,
		ActorID:  identity.ID,
		Action:   domain.ActionInviteAccepted,
		Message:  fmt.Sprintf("%s joined via invite as %s.", identity.Label(), inv.Role),
		Metadata: map[string]any{
			"identity":  identity.ID,
			"username":  identity.Username,
			"role":      string(inv.Role),
			"invite_id": inv.ID,
		},
	})

	log.Info("invite accepted",
		slog.String("tenant_id", result.Tenant.ID),
		slog.String("invite_id", inv.ID),
		slog.String("role", string(inv.Role)),
	)

	return result, nil
}

var (
	errAcceptRaceAlreadyMember = errors.New("accept: membership already exists")
	errAcceptRaceLost          = errors.New("accept: invite no longer redeemable")
)

// diagnose rereads the invite after a lost redemption race to report why it
// can no longer be accepted.
func (s *InviteService) diagnose(ctx context.Context, token string, at time.Time) error {
	_, err := s.redeemable(ctx, s.Store, token, at)
	if err == nil {
		// Redeemable again on reread, which only a concurrent writer can
		// cause; report the lost race as exhausted.
		return ErrInviteExhausted
	}
	return err
}
