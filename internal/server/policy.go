// AngelaMos | 2026
// policy.go

package server

import (
	"net/http"

	"github.com/carterperez-dev/storefront-api/internal/middleware"
)

type rule struct {
	method  string
	pattern string
	access  middleware.Access
}

var rules = []rule{
	{http.MethodGet, "/healthz", middleware.AccessPublic},
	{http.MethodGet, "/livez", middleware.AccessPublic},
	{http.MethodGet, "/readyz", middleware.AccessPublic},
	{http.MethodGet, "/uploads/*", middleware.AccessPublic},

	{http.MethodPost, "/api/auth/register", middleware.AccessPublic},
	{http.MethodPost, "/api/auth/login", middleware.AccessPublic},
	{http.MethodPost, "/api/auth/logout", middleware.AccessUser},
	{http.MethodGet, "/api/auth/me", middleware.AccessUser},
	{http.MethodPost, "/api/auth/change-password", middleware.AccessUser},

	{http.MethodGet, "/api/users", middleware.AccessAdmin},
	{http.MethodGet, "/api/users/stats", middleware.AccessAdmin},
	{http.MethodGet, "/api/users/me", middleware.AccessUser},
	{http.MethodPut, "/api/users/me", middleware.AccessUser},
	{http.MethodGet, "/api/users/{userID}", middleware.AccessAdmin},
	{http.MethodPut, "/api/users/{userID}", middleware.AccessAdmin},
	{http.MethodDelete, "/api/users/{userID}", middleware.AccessAdmin},

	{http.MethodGet, "/api/products", middleware.AccessPublic},
	{http.MethodGet, "/api/products/find/{productID}", middleware.AccessPublic},
	{http.MethodPost, "/api/products", middleware.AccessAdmin},
	{http.MethodPut, "/api/products/{productID}", middleware.AccessAdmin},
	{http.MethodDelete, "/api/products/{productID}", middleware.AccessAdmin},

	{http.MethodPost, "/api/orders", middleware.AccessUser},
	{http.MethodGet, "/api/orders", middleware.AccessAdmin},
	{http.MethodGet, "/api/orders/find/{userID}", middleware.AccessUser},
	{http.MethodGet, "/api/orders/{orderID}", middleware.AccessUser},
	{http.MethodPut, "/api/orders/{orderID}/status", middleware.AccessAdmin},

	{http.MethodPost, "/api/custom", middleware.AccessUser},
	{http.MethodGet, "/api/custom/mine", middleware.AccessUser},
	{http.MethodGet, "/api/custom", middleware.AccessAdmin},
	{http.MethodPut, "/api/custom/{requestID}", middleware.AccessAdmin},

	{http.MethodGet, "/api/admin/dashboard", middleware.AccessAdmin},
	{http.MethodGet, "/api/admin/system", middleware.AccessAdmin},
}

// AccessPolicy is the access table the gateway enforces. Routes absent from
// it are refused.
func AccessPolicy() middleware.Policy {
	policy := make(middleware.Policy, len(rules))
	for _, r := range rules {
		policy[middleware.PolicyKey(r.method, r.pattern)] = r.access
	}
	return policy
}
