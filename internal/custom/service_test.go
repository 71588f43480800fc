// AngelaMos | 2026
// service_test.go

package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/events"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
	"github.com/carterperez-dev/storefront-api/internal/storage"
)

type memoryRepo struct {
	mu       sync.Mutex
	requests map[string]*Request
	failNext error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{requests: make(map[string]*Request)}
}

func (m *memoryRepo) Create(_ context.Context, req *Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("get custom request: %w", core.ErrNotFound)
	}
	cp := *req
	return &cp, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Request{}
	for _, req := range m.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListAll(_ context.Context, p ListParams) ([]RequestWithUser, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []RequestWithUser{}
	for _, req := range m.requests {
		out = append(out, RequestWithUser{Request: *req, UserName: "Ada"})
	}
	return out, len(out), nil
}

func (m *memoryRepo) Update(_ context.Context, req *Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		return fmt.Errorf("update custom request: %w", core.ErrNotFound)
	}
	req.UpdatedAt = time.Now()
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeImages) SaveFile(_ context.Context, fh *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "/uploads/images/" + fh.Filename, nil
}

func (f *fakeImages) DeleteAll(_ context.Context, urls []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, urls...)
}

func TestCreateWithoutImage(t *testing.T) {
	svc := NewService(newMemoryRepo(), &fakeImages{}, nil)

	cr, err := svc.Create(context.Background(), "u1",
		CreateRequest{Description: "  A scarf  ", Budget: "20-40"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "A scarf", cr.Description)
	assert.Equal(t, StatusSubmitted, cr.Status)
	assert.Empty(t, cr.ImageURL)
}

func TestCreateRequiresDescription(t *testing.T) {
	svc := NewService(newMemoryRepo(), &fakeImages{}, nil)

	_, err := svc.Create(context.Background(), "u1", CreateRequest{Description: "   "}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateDeletesImageWhenInsertFails(t *testing.T) {
	repo := newMemoryRepo()
	repo.failNext = errors.New("create custom request: connection reset")
	images := &fakeImages{}
	svc := NewService(repo, images, nil)

	_, err := svc.Create(context.Background(), "u1",
		CreateRequest{Description: "A hat"}, &multipart.FileHeader{Filename: "ref.jpg"})
	require.Error(t, err)
	assert.Equal(t, []string{"/uploads/images/ref.jpg"}, images.deleted)
}

func TestUpdate(t *testing.T) {
	svc := NewService(newMemoryRepo(), &fakeImages{}, nil)
	ctx := context.Background()

	cr, err := svc.Create(ctx, "u1", CreateRequest{Description: "A hat"}, nil)
	require.NoError(t, err)

	status := StatusQuoteSent
	comments := "We can do this for 35"
	updated, err := svc.Update(ctx, cr.ID, UpdateRequest{Status: &status, AdminComments: &comments})
	require.NoError(t, err)
	assert.Equal(t, StatusQuoteSent, updated.Status)
	assert.Equal(t, comments, updated.AdminComments)

	onlyComments := "Updated quote"
	updated, err = svc.Update(ctx, cr.ID, UpdateRequest{AdminComments: &onlyComments})
	require.NoError(t, err)
	assert.Equal(t, StatusQuoteSent, updated.Status)

	bad := "Shipped"
	_, err = svc.Update(ctx, cr.ID, UpdateRequest{Status: &bad})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = svc.Update(ctx, uuid.New().String(), UpdateRequest{AdminComments: &onlyComments})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func newTestRouter(t *testing.T, repo Repository, images ImageStore, userID, role string) http.Handler {
	t.Helper()

	h := NewHandler(NewService(repo, images, events.Noop{}), 1<<20)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithClaims(req.Context(), &middleware.AccessTokenClaims{
				UserID: userID,
				Role:   role,
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api", func(r chi.Router) { h.RegisterRoutes(r) })
	return r
}

func customForm(t *testing.T, description, imageName string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("description", description))
	require.NoError(t, mw.WriteField("budget", "under 50"))
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("not really an image"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateHandler(t *testing.T) {
	h := newTestRouter(t, newMemoryRepo(), &fakeImages{}, "u1", "user")

	body, ctype := customForm(t, "A knitted fox", "fox.png")
	req := httptest.NewRequest(http.MethodPost, "/api/custom", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var env struct {
		Data Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "u1", env.Data.UserID)
	assert.Equal(t, "/uploads/images/fox.png", env.Data.ImageURL)
	assert.Equal(t, "under 50", env.Data.Budget)
}

func TestCreateHandlerValidation(t *testing.T) {
	h := newTestRouter(t, newMemoryRepo(), &fakeImages{}, "u1", "user")

	body, ctype := customForm(t, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/custom", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "description is required")

	req = httptest.NewRequest(http.MethodPost, "/api/custom", strings.NewReader(`{"description":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHandlerRejectsBadImage(t *testing.T) {
	images := &fakeImages{err: fmt.Errorf("save: %w", storage.ErrUnsupportedImage)}
	h := newTestRouter(t, newMemoryRepo(), images, "u1", "user")

	body, ctype := customForm(t, "A knitted fox", "fox.exe")
	req := httptest.NewRequest(http.MethodPost, "/api/custom", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMineAndAll(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &fakeImages{}, nil)
	_, err := svc.Create(context.Background(), "u1", CreateRequest{Description: "A"}, nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "u2", CreateRequest{Description: "B"}, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newTestRouter(t, repo, &fakeImages{}, "u1", "user").
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/custom/mine", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var mine struct {
		Data []Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine.Data, 1)
	assert.Equal(t, "A", mine.Data[0].Description)

	rec = httptest.NewRecorder()
	newTestRouter(t, repo, &fakeImages{}, "a1", "admin").
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/custom", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var all struct {
		Data []Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all.Data, 2)
	require.NotNil(t, all.Data[0].User)
	assert.Equal(t, "Ada", all.Data[0].User.Name)
}
