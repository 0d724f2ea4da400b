package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultIdentityTokenTTL is the lifetime of tokens minted by the dev token
// command. Production tokens come from the upstream auth service.
const DefaultIdentityTokenTTL = 15 * time.Minute

// Claims are the identity claims this service consumes. The upstream auth
// service issues them; additive changes only.
type Claims struct {
	jwt.RegisteredClaims

	// Session ID, keys the selected-tenant slot
	SID string `json:"sid,omitempty"`

	// Permission scopes, e.g. "fleet:superuser"
	Scopes []string `json:"scopes,omitempty"`

	Username      string `json:"username,omitempty"`
	PreferredName string `json:"preferred_name,omitempty"`
	Email         string `json:"email,omitempty"`
}

// IdentityClaimsParams groups the inputs of NewIdentityClaims.
type IdentityClaimsParams struct {
	Subject       string
	SessionID     string
	Scopes        []string
	Username      string
	PreferredName string
	Email         string
	Issuer        string
	Audience      []string
	TTL           time.Duration
	Now           time.Time
}

// NewIdentityClaims builds minimally-correct claims.
func NewIdentityClaims(p IdentityClaimsParams) Claims {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultIdentityTokenTTL
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:           p.SessionID,
		Scopes:        p.Scopes,
		Username:      p.Username,
		PreferredName: p.PreferredName,
		Email:         p.Email,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the claims carry scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	return c.validateTimes(time.Now().UTC(), leeway)
}

func (c *Claims) validateTimes(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
