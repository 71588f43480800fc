// AngelaMos | 2026
// policy_test.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/admin"
	"github.com/carterperez-dev/storefront-api/internal/auth"
	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/custom"
	"github.com/carterperez-dev/storefront-api/internal/health"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
	"github.com/carterperez-dev/storefront-api/internal/order"
	"github.com/carterperez-dev/storefront-api/internal/product"
	"github.com/carterperez-dev/storefront-api/internal/user"
)

type staticVerifier map[string]*middleware.AccessTokenClaims

func (v staticVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, fmt.Errorf("verify: %w", core.ErrTokenInvalid)
}

func buildRouter() *chi.Mux {
	r := chi.NewRouter()

	verifier := staticVerifier{
		"user-token":  {UserID: "u1", Role: "user"},
		"admin-token": {UserID: "a1", Role: "admin"},
	}
	r.Use(middleware.NewGateway(verifier, r, AccessPolicy()).Handler)

	health.NewHandler().RegisterRoutes(r)
	RegisterRoutes(r, Handlers{
		Auth:    auth.NewHandler(nil),
		User:    user.NewHandler(nil),
		Product: product.NewHandler(nil, 0),
		Order:   order.NewHandler(nil),
		Custom:  custom.NewHandler(nil, 0),
		Admin:   admin.NewHandler(admin.HandlerConfig{}),
		Uploads: http.NotFoundHandler(),
	})

	return r
}

func TestEveryRouteHasPolicy(t *testing.T) {
	policy := AccessPolicy()
	routed := make(map[string]bool)

	err := chi.Walk(buildRouter(), func(
		method, route string,
		_ http.Handler,
		_ ...func(http.Handler) http.Handler,
	) error {
		key := middleware.PolicyKey(method, route)
		routed[key] = true
		assert.Contains(t, policy, key, "route without access rule")
		return nil
	})
	require.NoError(t, err)

	for key := range policy {
		assert.True(t, routed[key], "access rule for unrouted %s", key)
	}
}

func TestPolicyLevels(t *testing.T) {
	policy := AccessPolicy()

	assert.Equal(t, middleware.AccessPublic,
		policy[middleware.PolicyKey(http.MethodGet, "/api/products")])
	assert.Equal(t, middleware.AccessPublic,
		policy[middleware.PolicyKey(http.MethodPost, "/api/auth/login")])
	assert.Equal(t, middleware.AccessUser,
		policy[middleware.PolicyKey(http.MethodPost, "/api/orders")])
	assert.Equal(t, middleware.AccessUser,
		policy[middleware.PolicyKey(http.MethodGet, "/api/orders/find/{userID}")])
	assert.Equal(t, middleware.AccessAdmin,
		policy[middleware.PolicyKey(http.MethodGet, "/api/orders")])
	assert.Equal(t, middleware.AccessAdmin,
		policy[middleware.PolicyKey(http.MethodDelete, "/api/products/{productID}")])
	assert.Equal(t, middleware.AccessAdmin,
		policy[middleware.PolicyKey(http.MethodPut, "/api/custom/{requestID}")])
}

func TestGatewayOnRealRoutes(t *testing.T) {
	r := buildRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"probe is public", http.MethodGet, "/healthz", "", http.StatusOK},
		{"order needs login", http.MethodPost, "/api/orders", "", http.StatusUnauthorized},
		{"order list needs admin", http.MethodGet, "/api/orders", "user-token", http.StatusForbidden},
		{
			"product delete needs admin",
			http.MethodDelete,
			"/api/products/6f1c1d1e-8d7a-4c1b-9d55-0a5c2b0e7f11",
			"user-token",
			http.StatusForbidden,
		},
		{"custom update needs admin", http.MethodPut, "/api/custom/abc", "", http.StatusUnauthorized},
		{"dashboard needs admin", http.MethodGet, "/api/admin/dashboard", "user-token", http.StatusForbidden},
		{"unknown path", http.MethodGet, "/api/nowhere", "admin-token", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(middleware.TokenHeader, tt.token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
