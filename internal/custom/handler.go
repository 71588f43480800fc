// AngelaMos | 2026
// handler.go

package custom

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
	"github.com/carterperez-dev/storefront-api/internal/storage"
)

const multipartMemory = 8 << 20

type Handler struct {
	service   *Service
	validator *validator.Validate
	maxBody   int64
}

func NewHandler(service *Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}

	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		maxBody:   maxUpload + 1<<20,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/custom", h.Create)
	r.Get("/custom/mine", h.ListMine)
	r.Get("/custom", h.ListAll)
	r.Put("/custom/{requestID}", h.Update)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		core.BadRequest(w, "expected a multipart form with a description")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req := CreateRequest{
		Description: r.FormValue("description"),
		Budget:      r.FormValue("budget"),
	}
	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	image := firstFile(storage.FormFiles(r.MultipartForm, "image"))

	cr, err := h.service.Create(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
		image,
	)
	if err != nil {
		writeCustomError(w, err)
		return
	}

	core.Created(w, ToResponse(cr))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.service.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeCustomError(w, err)
		return
	}

	core.OK(w, ToResponseList(reqs))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", core.DefaultPageSize),
		Status:   r.URL.Query().Get("status"),
	}
	params.Normalize()

	reqs, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		writeCustomError(w, err)
		return
	}

	core.Paginated(w, ToResponseWithUserList(reqs), params.Page, params.PageSize, total)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	cr, err := h.service.Update(r.Context(), chi.URLParam(r, "requestID"), req)
	if err != nil {
		writeCustomError(w, err)
		return
	}

	core.OK(w, ToResponse(cr))
}

func firstFile(files []*multipart.FileHeader) *multipart.FileHeader {
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func writeCustomError(w http.ResponseWriter, err error) {
	if msg, ok := storage.ClientMessage(err); ok {
		core.BadRequest(w, msg)
		return
	}

	if appErr, ok := core.AsAppError(err); ok {
		core.JSONError(w, appErr)
		return
	}

	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "custom request")
	default:
		core.InternalServerError(w, err)
	}
}
