// AngelaMos | 2026
// gateway.go

package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type Access int

const (
	AccessPublic Access = iota
	AccessUser
	AccessAdmin
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessUser:
		return "user"
	case AccessAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Policy maps "METHOD /route/pattern" (chi syntax) to the access level it
// requires.
type Policy map[string]Access

func PolicyKey(method, pattern string) string {
	return method + " " + pattern
}

// Gateway authenticates and authorizes every routed request against a single
// Policy. Routes the router does not know fall through so it can answer 404
// or 405. Known routes missing from the policy are denied.
type Gateway struct {
	verifier TokenVerifier
	routes   chi.Routes
	policy   Policy
}

func NewGateway(verifier TokenVerifier, routes chi.Routes, policy Policy) *Gateway {
	return &Gateway{
		verifier: verifier,
		routes:   routes,
		policy:   policy,
	}
}

func (g *Gateway) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pattern, matched := g.routePattern(r)
		if !matched {
			next.ServeHTTP(w, r)
			return
		}

		access, ok := g.policy[PolicyKey(r.Method, pattern)]
		if !ok {
			core.Forbidden(w, "route is not covered by an access policy")
			return
		}

		if access == AccessPublic {
			if claims, err := g.authenticate(r); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
			return
		}

		claims, err := g.authenticate(r)
		if err != nil {
			handleAuthError(w, err)
			return
		}

		if access == AccessAdmin && claims.Role != RoleAdmin {
			core.Forbidden(w, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func (g *Gateway) authenticate(r *http.Request) (*AccessTokenClaims, error) {
	token := ExtractToken(r)
	if token == "" {
		return nil, core.UnauthorizedError("missing authorization token")
	}

	return g.verifier.VerifyAccessToken(r.Context(), token)
}

func (g *Gateway) routePattern(r *http.Request) (string, bool) {
	path := r.URL.RawPath
	if path == "" {
		path = r.URL.Path
	}

	rctx := chi.NewRouteContext()
	if !g.routes.Match(rctx, r.Method, path) {
		return "", false
	}

	return rctx.RoutePattern(), true
}
