// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/config"
	"github.com/carterperez-dev/storefront-api/internal/core"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   testSecret,
		Expire:   24 * time.Hour,
		Issuer:   "storefront-api",
		Audience: "storefront",
	}
}

func newTestRevocationList(t *testing.T) (RevocationList, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRevocationList(client), mr
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	revoked, _ := newTestRevocationList(t)
	svc, err := NewTokenService(testJWTConfig(), revoked)
	require.NoError(t, err)
	return svc
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	issued, err := svc.Issue("user-1", "admin", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.NotEmpty(t, issued.TokenID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), issued.ExpiresAt, time.Minute)

	claims, err := svc.VerifyAccessToken(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	svc := newTestTokenService(t)

	issued, err := svc.Issue("user-1", "user", "Ada")
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "ffffffffffffffffffffffffffffffff"
	other, err := NewTokenService(otherCfg, nil)
	require.NoError(t, err)
	foreign, err := other.Issue("user-1", "admin", "Mallory")
	require.NoError(t, err)

	audCfg := testJWTConfig()
	audCfg.Audience = "someone-else"
	audSvc, err := NewTokenService(audCfg, nil)
	require.NoError(t, err)
	wrongAud, err := audSvc.Issue("user-1", "user", "Ada")
	require.NoError(t, err)

	tampered := []byte(issued.Token)
	tampered[len(tampered)-2] ^= 0x01

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "tampered signature", token: string(tampered)},
		{name: "wrong secret", token: foreign.Token},
		{name: "wrong audience", token: wrongAud.Token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyAccessToken(context.Background(), tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrTokenInvalid)
		})
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestTokenService(t)
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	issued, err := svc.Issue("user-1", "user", "Ada")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyAccessToken(context.Background(), issued.Token)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	revoked, mr := newTestRevocationList(t)
	svc, err := NewTokenService(testJWTConfig(), revoked)
	require.NoError(t, err)

	issued, err := svc.Issue("user-1", "user", "Ada")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, svc.Revoke(ctx, issued.TokenID, issued.ExpiresAt))

	_, err = svc.VerifyAccessToken(ctx, issued.Token)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	ttl := mr.TTL(revokedKeyPrefix + issued.TokenID)
	assert.Greater(t, ttl, 23*time.Hour)
}

func TestRevokeAlreadyExpiredIsNoop(t *testing.T) {
	revoked, mr := newTestRevocationList(t)

	err := revoked.Revoke(context.Background(), "gone", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, mr.Exists(revokedKeyPrefix+"gone"))
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""

	_, err := NewTokenService(cfg, nil)
	assert.Error(t, err)
}
