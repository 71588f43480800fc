// AngelaMos | 2026
// client.go

package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/carterperez-dev/storefront-api/internal/auth"
	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/order"
	"github.com/carterperez-dev/storefront-api/internal/product"
)

const (
	tokenHeader    = "auth-token"
	defaultTimeout = 15 * time.Second
)

var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx answer from the storefront API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// APIClient talks to the storefront REST API. It remembers the token from
// the last successful login.
type APIClient struct {
	baseURL string
	http    *http.Client

	mu     sync.RWMutex
	token  string
	userID string
}

type Option func(*APIClient)

func WithHTTPClient(c *http.Client) Option {
	return func(a *APIClient) { a.http = c }
}

func NewAPIClient(baseURL string, opts ...Option) *APIClient {
	c := &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSession restores a previously issued token.
func (c *APIClient) SetSession(token, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.userID = userID
}

func (c *APIClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *APIClient) Login(
	ctx context.Context,
	email, password string,
) (*auth.AuthResponse, error) {
	var resp auth.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", auth.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp, nil)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	c.SetSession(resp.Token, resp.User.ID)
	return &resp, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.SetSession("", "")
	return nil
}

type ProductQuery struct {
	Keyword  string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
	Page     int
	PageSize int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.MinPrice != nil {
		v.Set("minPrice", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", q.MaxPrice.String())
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

type ProductPage struct {
	Products []product.ProductResponse
	Meta     core.Meta
}

func (c *APIClient) ListProducts(
	ctx context.Context,
	q ProductQuery,
) (*ProductPage, error) {
	path := "/api/products"
	if qs := q.values().Encode(); qs != "" {
		path += "?" + qs
	}

	page := &ProductPage{}
	if err := c.do(ctx, http.MethodGet, path, nil, &page.Products, &page.Meta); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

func (c *APIClient) GetProduct(
	ctx context.Context,
	id string,
) (*product.ProductResponse, error) {
	var p product.ProductResponse
	path := "/api/products/find/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &p, nil); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (c *APIClient) CreateOrder(
	ctx context.Context,
	req order.CreateOrderRequest,
) (*order.OrderResponse, error) {
	var o order.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &o, nil); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &o, nil
}

func (c *APIClient) ListMyOrders(ctx context.Context) ([]order.OrderResponse, error) {
	c.mu.RLock()
	userID := c.userID
	c.mu.RUnlock()

	if userID == "" {
		return nil, fmt.Errorf("list orders: %w", ErrNotLoggedIn)
	}

	var orders []order.OrderResponse
	path := "/api/orders/find/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &orders, nil); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *core.Meta      `json:"meta"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func (c *APIClient) do(
	ctx context.Context,
	method, path string,
	body, out any,
	meta *core.Meta,
) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(tokenHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Code,
			Message:    env.Message,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	if meta != nil && env.Meta != nil {
		*meta = *env.Meta
	}

	return nil
}
