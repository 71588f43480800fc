// AngelaMos | 2026
// handler_test.go

package order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/events"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
)

// asUser stands in for the gateway by attaching fixed claims.
func asUser(userID, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: userID,
				Role:   role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(repo Repository, userID, role string) http.Handler {
	h := NewHandler(NewService(repo, events.Noop{}))

	r := chi.NewRouter()
	r.Use(asUser(userID, role))
	r.Route("/api", func(r chi.Router) { h.RegisterRoutes(r) })
	return r
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const validOrderBody = `{
	"items": [
		{"product_id": "0b6a6f1e-3d43-4c36-9d8e-2f6f4b6f9a11", "title": "Mug", "quantity": 2, "price": "12.50"},
		{"product_id": "4c0d7f3a-6a6e-4b5b-8f7e-1a2b3c4d5e6f", "title": "Hat", "quantity": 1, "price": 5}
	],
	"shipping_address": {
		"full_name": "Ada Lovelace",
		"street": "1 Loom Lane",
		"city": "London",
		"postal_code": "N1",
		"country": "UK"
	}
}`

func TestCreateHandler(t *testing.T) {
	h := newTestRouter(newMemoryRepo(), "u1", "user")

	rec := serve(h, http.MethodPost, "/api/orders", validOrderBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var env struct {
		Data OrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "u1", env.Data.UserID)
	assert.Equal(t, "30", env.Data.Total.String())
	assert.Equal(t, StatusPending, env.Data.Status)
	require.Len(t, env.Data.Items, 2)
	assert.Equal(t, "25", env.Data.Items[0].Subtotal.String())
}

func TestCreateHandlerRejects(t *testing.T) {
	h := newTestRouter(newMemoryRepo(), "u1", "user")

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "malformed json",
			body:    `{"items": [`,
			message: "invalid request body",
		},
		{
			name:    "empty items",
			body:    `{"items": [], "shipping_address": {"full_name":"A","street":"B","city":"C","postal_code":"D","country":"E"}}`,
			message: "order must contain at least one item",
		},
		{
			name:    "missing address",
			body:    `{"items": [{"product_id": "0b6a6f1e-3d43-4c36-9d8e-2f6f4b6f9a11", "quantity": 1, "price": "1"}]}`,
			message: "is required",
		},
		{
			name:    "bad product id",
			body:    strings.Replace(validOrderBody, "0b6a6f1e-3d43-4c36-9d8e-2f6f4b6f9a11", "42", 1),
			message: "product_id must be a valid id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodPost, "/api/orders", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestListForUserHandler(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, events.Noop{})
	owner := uuid.New().String()
	_, err := svc.Create(context.Background(), owner, createRequest(item(1, "5")))
	require.NoError(t, err)

	path := "/api/orders/find/" + owner
	rec := serve(newTestRouter(repo, owner, "user"), http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []OrderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data, 1)

	rec = serve(newTestRouter(repo, "u2", "user"), http.MethodGet, path, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(newTestRouter(repo, "a1", "admin"), http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(newTestRouter(repo, "a1", "admin"), http.MethodGet, "/api/orders/find/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAllHandlerIncludesUserSummary(t *testing.T) {
	repo := newMemoryRepo()
	repo.users["u1"] = [2]string{"Ada", "ada@example.com"}
	svc := NewService(repo, events.Noop{})
	_, err := svc.Create(context.Background(), "u1", createRequest(item(1, "5")))
	require.NoError(t, err)

	rec := serve(newTestRouter(repo, "a1", "admin"), http.MethodGet, "/api/orders?page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []OrderResponse `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	require.NotNil(t, env.Data[0].User)
	assert.Equal(t, "Ada", env.Data[0].User.Name)
	assert.Equal(t, "ada@example.com", env.Data[0].User.Email)
	assert.Equal(t, 1, env.Meta.Total)
}

func TestUpdateStatusHandler(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, events.Noop{})
	o, err := svc.Create(context.Background(), "u1", createRequest(item(1, "5")))
	require.NoError(t, err)

	h := newTestRouter(repo, "a1", "admin")

	rec := serve(h, http.MethodPut, "/api/orders/"+o.ID+"/status", `{"status":"Processing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Processing"`)

	rec = serve(h, http.MethodPut, "/api/orders/"+o.ID+"/status", `{"status":"Teleported"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status must be one of Pending, Processing, Shipped, Delivered")

	rec = serve(h, http.MethodPut, "/api/orders/"+uuid.New().String()+"/status", `{"status":"Shipped"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
