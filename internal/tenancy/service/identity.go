package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
)

// IdentityService mirrors verified token identities into the directory.
type IdentityService struct {
	Store store.Store
	Now   func() time.Time
}

// Sync upserts the identity when its profile differs from the stored copy
// and returns the stored record.
func (s *IdentityService) Sync(ctx context.Context, claimed domain.Identity) (domain.Identity, error) {
	existing, err := s.Store.Identities().GetIdentityByID(ctx, claimed.ID)
	switch {
	case err == nil:
		if existing.SameProfile(claimed) {
			return existing, nil
		}
		claimed.CreatedAt = existing.CreatedAt
	case errors.Is(err, store.ErrNotFound):
		claimed.CreatedAt = now(s.Now)
	default:
		return domain.Identity{}, fmt.Errorf("load identity: %w", err)
	}

	claimed.UpdatedAt = now(s.Now)
	if err := s.Store.Identities().UpsertIdentity(ctx, claimed); err != nil {
		return domain.Identity{}, fmt.Errorf("save identity: %w", err)
	}
	return claimed, nil
}
