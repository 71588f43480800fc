// AngelaMos | 2026
// handler.go

package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Create)
	r.Get("/orders", h.ListAll)
	r.Get("/orders/find/{userID}", h.ListForUser)
	r.Get("/orders/{orderID}", h.Get)
	r.Put("/orders/{orderID}/status", h.UpdateStatus)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	core.Created(w, ToOrderResponse(o))
}

func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.service.ListForUser(
		ctx,
		middleware.GetUserID(ctx),
		middleware.IsAdmin(ctx),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	core.OK(w, ToOrderResponseList(orders))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	o, err := h.service.Get(
		ctx,
		middleware.GetUserID(ctx),
		middleware.IsAdmin(ctx),
		chi.URLParam(r, "orderID"),
	)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(o))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", core.DefaultPageSize),
		Status:   r.URL.Query().Get("status"),
	}
	params.Normalize()

	orders, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	core.Paginated(
		w,
		ToOrderWithUserResponseList(orders),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	core.OK(w, ToOrderResponse(o))
}

func writeOrderError(w http.ResponseWriter, err error) {
	if appErr, ok := core.AsAppError(err); ok {
		core.JSONError(w, appErr)
		return
	}

	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "order")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "insufficient permissions")
	default:
		core.InternalServerError(w, err)
	}
}
