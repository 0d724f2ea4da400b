package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/abyford453/FleetGuard/pkg/cryptox"
	"github.com/abyford453/FleetGuard/pkg/jwtx"
)

// InitVerifier loads the identity provider's Ed25519 public key and builds the
// verifier used by the authn middleware.
//
// FleetGuard never signs access tokens itself. It trusts a single key,
// registered under FLEET_JWT_KEY_ID, and checks issuer and audience on
// every request.
func InitVerifier(cfg Config, logger *slog.Logger) (*jwtx.KeySet, jwtx.Verifier, error) {
	if cfg.JWTPublicKeyFile == "" {
		return nil, nil, fmt.Errorf("FLEET_JWT_PUBLIC_KEY_FILE is required")
	}

	pemBytes, err := os.ReadFile(cfg.JWTPublicKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read public key: %w", err)
	}

	pub, err := cryptox.ParseEd25519PublicPEM(pemBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.Add(cfg.JWTKeyID, pub); err != nil {
		return nil, nil, fmt.Errorf("failed to register public key: %w", err)
	}

	logger.Info("token verifier ready",
		"kid", cfg.JWTKeyID,
		"issuer", cfg.JWTIssuer,
		"audience", cfg.JWTAudience,
		"leeway", cfg.JWTLeeway,
	)

	return keys, jwtx.NewVerifier(keys, cfg.JWTIssuer, cfg.JWTAudience, jwtx.WithLeeway(cfg.JWTLeeway)), nil
}
