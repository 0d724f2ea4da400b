package jwtx

import (
	"crypto/ed25519"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abyford453/FleetGuard/pkg/cryptox"
)

// Signer mints identity tokens. FleetGuard itself only verifies tokens;
// signing exists for the dev token command and for tests.
type Signer interface {
	KID() string
	Sign(Claims) (string, error)
	Public() ed25519.PublicKey
}

type eddsaSigner struct {
	kid string
	key ed25519.PrivateKey
}

// NewSignerEdDSA creates an EdDSA signer from a PKCS8 private key PEM.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	key, err := cryptox.ParseEd25519PrivatePEM(pemKey)
	if err != nil {
		return nil, err
	}
	return &eddsaSigner{kid: kid, key: key}, nil
}

func (s *eddsaSigner) KID() string { return s.kid }

func (s *eddsaSigner) Public() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *eddsaSigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
