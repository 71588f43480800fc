// AngelaMos | 2026
// handler.go

package product

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/storage"
)

const multipartMemory = 8 << 20

type Handler struct {
	service   *Service
	validator *validator.Validate
	maxBody   int64
}

// NewHandler caps request bodies at maxUpload per image field plus form
// overhead.
func NewHandler(service *Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}

	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		maxBody:   maxUpload*5 + 1<<20,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/find/{productID}", h.Get)
	r.Post("/products", h.Create)
	r.Put("/products/{productID}", h.Update)
	r.Delete("/products/{productID}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ListFilter{
		Keyword:  q.Get("keyword"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", core.DefaultPageSize),
	}

	var err error
	if filter.MinPrice, err = queryDecimal(r, "minPrice"); err != nil {
		core.BadRequest(w, "minPrice must be a number")
		return
	}
	if filter.MaxPrice, err = queryDecimal(r, "maxPrice"); err != nil {
		core.BadRequest(w, "maxPrice must be a number")
		return
	}
	filter.Normalize()

	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeProductError(w, err)
		return
	}

	core.Paginated(
		w,
		ToProductResponseList(products),
		filter.Page,
		filter.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeProductError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		core.BadRequest(w, "expected a multipart form with product fields and images")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req, err := createRequestFromForm(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	files := storage.FormFiles(r.MultipartForm, "image", "images")

	p, err := h.service.Create(r.Context(), req, files)
	if err != nil {
		writeProductError(w, err)
		return
	}

	core.Created(w, ToProductResponse(p))
}

// Update accepts either a multipart form (optionally carrying replacement
// images) or a JSON body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var req UpdateProductRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			core.BadRequest(w, "invalid multipart form")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		var err error
		req, err = updateRequestFromForm(r)
		if err != nil {
			core.JSONError(w, err)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.Update(
		r.Context(),
		chi.URLParam(r, "productID"),
		req,
		storage.FormFiles(r.MultipartForm, "image", "images"),
	)
	if err != nil {
		writeProductError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeProductError(w, err)
		return
	}

	core.NoContent(w)
}

func createRequestFromForm(r *http.Request) (CreateProductRequest, error) {
	req := CreateProductRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		return req, core.ValidationError("price must be a number")
	}
	req.Price = price

	if req.DiscountPercent, err = formInt(r, "discount_percent", "discount"); err != nil {
		return req, core.ValidationError("discount_percent must be an integer")
	}
	if req.Stock, err = formInt(r, "stock"); err != nil {
		return req, core.ValidationError("stock must be an integer")
	}

	return req, nil
}

func updateRequestFromForm(r *http.Request) (UpdateProductRequest, error) {
	var req UpdateProductRequest
	form := r.MultipartForm.Value

	if v, ok := formValue(form, "title"); ok {
		req.Title = &v
	}
	if v, ok := formValue(form, "description"); ok {
		req.Description = &v
	}
	if v, ok := formValue(form, "category"); ok {
		req.Category = &v
	}
	if v, ok := formValue(form, "price"); ok {
		price, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return req, core.ValidationError("price must be a number")
		}
		req.Price = &price
	}
	if _, ok := formValue(form, "discount_percent", "discount"); ok {
		n, err := formInt(r, "discount_percent", "discount")
		if err != nil {
			return req, core.ValidationError("discount_percent must be an integer")
		}
		req.DiscountPercent = &n
	}
	if _, ok := formValue(form, "stock"); ok {
		n, err := formInt(r, "stock")
		if err != nil {
			return req, core.ValidationError("stock must be an integer")
		}
		req.Stock = &n
	}

	return req, nil
}

func formValue(form map[string][]string, keys ...string) (string, bool) {
	for _, key := range keys {
		if vals, ok := form[key]; ok && len(vals) > 0 {
			return vals[0], true
		}
	}
	return "", false
}

// formInt reads the first present key as an integer; absent means 0.
func formInt(r *http.Request, keys ...string) (int, error) {
	for _, key := range keys {
		if v := strings.TrimSpace(r.FormValue(key)); v != "" {
			return strconv.Atoi(v)
		}
	}
	return 0, nil
}

func queryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func writeProductError(w http.ResponseWriter, err error) {
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
		core.NotFound(w, "product")
	default:
		core.InternalServerError(w, err)
	}
}
