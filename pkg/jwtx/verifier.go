package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks a bearer token and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrNoSubject   = errors.New("jwtx: missing subject")
	ErrNoKID       = errors.New("jwtx: missing kid")
)

// VerifierOption tunes a verifier built by NewVerifier.
type VerifierOption func(*eddsaVerifier)

// WithLeeway tolerates clock skew between FleetGuard and the issuer.
func WithLeeway(d time.Duration) VerifierOption {
	return func(v *eddsaVerifier) { v.leeway = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *eddsaVerifier) { v.now = now }
}

type eddsaVerifier struct {
	keys     *KeySet
	issuer   string
	audience []string
	leeway   time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// NewVerifier verifies EdDSA tokens against keys. An empty issuer or
// audience list skips that check.
func NewVerifier(keys *KeySet, issuer string, audience []string, opts ...VerifierOption) Verifier {
	v := &eddsaVerifier{
		keys:     keys,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
		// Time claims are checked below against the injectable clock
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *eddsaVerifier) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := v.parser.ParseWithClaims(tokenStr, &claims, v.key)
	if err != nil {
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}
	if !token.Valid {
		return Claims{}, errors.New("jwtx: invalid token")
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.audience); err != nil {
		return Claims{}, err
	}
	if err := claims.validateTimes(v.now().UTC(), v.leeway); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, ErrNoSubject
	}

	return claims, nil
}

func (v *eddsaVerifier) key(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrNoKID
	}

	pub, err := v.keys.Get(kid)
	if err != nil {
		return nil, fmt.Errorf("kid %q: %w", kid, err)
	}
	return pub, nil
}
