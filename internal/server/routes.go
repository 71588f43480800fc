// AngelaMos | 2026
// routes.go

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/storefront-api/internal/admin"
	"github.com/carterperez-dev/storefront-api/internal/auth"
	"github.com/carterperez-dev/storefront-api/internal/custom"
	"github.com/carterperez-dev/storefront-api/internal/order"
	"github.com/carterperez-dev/storefront-api/internal/product"
	"github.com/carterperez-dev/storefront-api/internal/user"
)

type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Product *product.Handler
	Order   *order.Handler
	Custom  *custom.Handler
	Admin   *admin.Handler

	// CredentialLimiter wraps register and login.
	CredentialLimiter func(http.Handler) http.Handler

	// Uploads serves locally stored images. Nil when images live in object
	// storage.
	Uploads http.Handler
}

// RegisterRoutes mounts every application route on r. Each one must have an
// entry in AccessPolicy.
func RegisterRoutes(r chi.Router, h Handlers) {
	if h.Uploads != nil {
		r.Get("/uploads/*", h.Uploads.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		h.Auth.RegisterRoutes(r, h.CredentialLimiter)
		h.User.RegisterRoutes(r)
		h.Product.RegisterRoutes(r)
		h.Order.RegisterRoutes(r)
		h.Custom.RegisterRoutes(r)
		h.Admin.RegisterRoutes(r)
	})
}
