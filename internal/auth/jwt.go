// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
)

// RevocationList records token ids that must no longer be accepted.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	key     jwk.Key
	config  config.JWTConfig
	revoked RevocationList
	now     func() time.Time
}

func NewTokenService(
	cfg config.JWTConfig,
	revoked RevocationList,
) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token service: empty secret")
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing key: %w", err)
	}

	return &TokenService{
		key:     key,
		config:  cfg,
		revoked: revoked,
		now:     time.Now,
	}, nil
}

type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

func (s *TokenService) Issue(userID, role, name string) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.config.Expire)
	tokenID := uuid.New().String()

	token, err := jwt.NewBuilder().
		JwtID(tokenID).
		Issuer(s.config.Issuer).
		Audience([]string{s.config.Audience}).
		Subject(userID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiresAt).
		Claim("role", role).
		Claim("name", name).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), s.key))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *TokenService) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), s.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	tokenID, ok := token.JwtID()
	if !ok || tokenID == "" {
		return nil, fmt.Errorf(
			"verify token: missing jti: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	if err := token.Get("role", &role); err != nil || role == "" {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	var name string
	_ = token.Get("name", &name) //nolint:errcheck // name is informational

	expiresAt, _ := token.Expiration()

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, tokenID)
		if err != nil {
			return nil, fmt.Errorf("verify token: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	return &middleware.AccessTokenClaims{
		UserID:    subject,
		Role:      role,
		Name:      name,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

// Revoke puts a token id on the revocation list until the token would have
// expired anyway.
func (s *TokenService) Revoke(
	ctx context.Context,
	tokenID string,
	expiresAt time.Time,
) error {
	if s.revoked == nil {
		return errors.New("revoke token: no revocation list configured")
	}
	return s.revoked.Revoke(ctx, tokenID, expiresAt)
}

func (s *TokenService) ExpiresIn() time.Duration {
	return s.config.Expire
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
