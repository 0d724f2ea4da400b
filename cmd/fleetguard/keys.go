package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abyford453/FleetGuard/internal/tenancy/domain"
	"github.com/abyford453/FleetGuard/pkg/cryptox"
	"github.com/abyford453/FleetGuard/pkg/jwtx"
)

func newKeygenCmd() *cobra.Command {
	var (
		dir   string
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 key pair for signing development tokens",
		Long: "Writes <name>.pem (PKCS8 private key) and <name>.pub.pem (PKIX public key).\n" +
			"Point FLEET_JWT_PUBLIC_KEY_FILE at the public half.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			privatePath := filepath.Join(dir, name+".pem")
			publicPath := filepath.Join(dir, name+".pub.pem")

			if !force {
				for _, p := range []string{privatePath, publicPath} {
					if _, err := os.Stat(p); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", p)
					}
				}
			}

			privatePEM, err := cryptox.GenerateEd25519Key()
			if err != nil {
				return err
			}
			publicPEM, err := cryptox.Ed25519PublicPEM(privatePEM)
			if err != nil {
				return err
			}

			if err := os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
				return fmt.Errorf("write private key: %w", err)
			}
			if err := os.WriteFile(publicPath, publicPEM, 0o644); err != nil {
				return fmt.Errorf("write public key: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "private key: %s\n", privatePath)
			_, _ = fmt.Fprintf(out, "public key:  %s\n", publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the key files into")
	cmd.Flags().StringVar(&name, "name", "fleetguard", "base file name of the key pair")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing key files")

	return cmd
}

// tokenOptions mirrors the flags of the token command.
type tokenOptions struct {
	keyFile   string
	kid       string
	subject   string
	sessionID string
	username  string
	name      string
	email     string
	issuer    string
	audience  []string
	superuser bool
	ttl       time.Duration
}

func newTokenCmd() *cobra.Command {
	var opts tokenOptions

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed identity token for local development",
		Long: "Signs an identity token with a private key from keygen. The service only\n" +
			"verifies tokens; in production they come from the identity provider.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := mintToken(opts, time.Now().UTC())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.keyFile, "key", "fleetguard.pem", "PKCS8 private key PEM file")
	f.StringVar(&opts.kid, "kid", "default", "key id placed in the token header")
	f.StringVar(&opts.subject, "sub", "", "identity id (defaults to a new id)")
	f.StringVar(&opts.sessionID, "sid", "", "session id (defaults to a random value)")
	f.StringVar(&opts.username, "username", "", "username claim")
	f.StringVar(&opts.name, "name", "", "display name claim")
	f.StringVar(&opts.email, "email", "", "email claim")
	f.StringVar(&opts.issuer, "issuer", "fleet-auth", "iss claim")
	f.StringSliceVar(&opts.audience, "audience", []string{"fleetguard"}, "aud claim")
	f.BoolVar(&opts.superuser, "superuser", false, "grant the superuser scope")
	f.DurationVar(&opts.ttl, "ttl", jwtx.DefaultIdentityTokenTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func mintToken(opts tokenOptions, at time.Time) (string, error) {
	if strings.TrimSpace(opts.username) == "" {
		return "", errors.New("username is required")
	}

	pemKey, err := os.ReadFile(opts.keyFile)
	if err != nil {
		return "", fmt.Errorf("read private key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(opts.kid, pemKey)
	if err != nil {
		return "", err
	}

	if opts.subject == "" {
		opts.subject = domain.NewID()
	}
	if opts.sessionID == "" {
		opts.sessionID = jwtx.NewJTI()
	}

	var scopes []string
	if opts.superuser {
		scopes = append(scopes, domain.SuperuserScope)
	}

	return signer.Sign(jwtx.NewIdentityClaims(jwtx.IdentityClaimsParams{
		Subject:       opts.subject,
		SessionID:     opts.sessionID,
		Scopes:        scopes,
		Username:      opts.username,
		PreferredName: opts.name,
		Email:         opts.email,
		Issuer:        opts.issuer,
		Audience:      opts.audience,
		TTL:           opts.ttl,
		Now:           at,
	}))
}
