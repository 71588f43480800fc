// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/events"
)

const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
)

type Service struct {
	repo   Repository
	events events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{repo: repo, events: publisher}
}

// Create totals the submitted line prices as given; they are not checked
// against the catalog and stock is not reserved.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateOrderRequest,
) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, core.ValidationError("order must contain at least one item")
	}

	ctx, span := core.StartSpan(ctx, "order.create",
		attribute.String("user.id", userID),
	)
	defer span.End()

	items := make([]Item, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, core.ValidationError("item quantity must be at least 1")
		}
		if it.Price.IsNegative() {
			return nil, core.ValidationError(
				"item price must be greater than or equal to 0",
			)
		}

		items = append(items, Item{
			ProductID: it.ProductID,
			Title:     strings.TrimSpace(it.Title),
			Quantity:  it.Quantity,
			Price:     it.Price.Round(2),
		})
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          StatusPending,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	}
	o.Total = Total(items)

	if err := s.repo.Create(ctx, o); err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	core.AddSpanEvent(ctx, EventCreated,
		attribute.String("order.id", o.ID),
		attribute.String("order.total", o.Total.StringFixed(2)),
		attribute.Int("order.items", len(o.Items)),
	)

	s.publish(ctx, EventCreated, map[string]any{
		"order_id": o.ID,
		"user_id":  o.UserID,
		"total":    o.Total.StringFixed(2),
		"items":    len(o.Items),
	})

	return o, nil
}

// ListForUser returns userID's orders. Only that user or an admin may read
// them.
func (s *Service) ListForUser(
	ctx context.Context,
	requesterID string,
	requesterIsAdmin bool,
	userID string,
) ([]Order, error) {
	if !requesterIsAdmin && requesterID != userID {
		return nil, fmt.Errorf("list orders: %w", core.ErrForbidden)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("list orders: %w", core.ErrNotFound)
	}

	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(
	ctx context.Context,
	requesterID string,
	requesterIsAdmin bool,
	id string,
) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !requesterIsAdmin && o.UserID != requesterID {
		return nil, fmt.Errorf("get order: %w", core.ErrForbidden)
	}

	return o, nil
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListParams,
) ([]OrderWithUser, int, error) {
	params.Normalize()

	if params.Status != "" && !IsValidStatus(params.Status) {
		return nil, 0, invalidStatusError()
	}

	return s.repo.ListAll(ctx, params)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	id, status string,
) (*Order, error) {
	if !IsValidStatus(status) {
		return nil, invalidStatusError()
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("update order status: %w", core.ErrNotFound)
	}

	ctx, span := core.StartSpan(ctx, "order.update_status",
		attribute.String("order.id", id),
		attribute.String("order.status", status),
	)
	defer span.End()

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if current.Status != o.Status {
		s.publish(ctx, EventStatusChanged, map[string]any{
			"order_id": o.ID,
			"user_id":  o.UserID,
			"from":     current.Status,
			"to":       o.Status,
		})
	}

	return o, nil
}

// publish is best effort; the order is already committed.
func (s *Service) publish(ctx context.Context, routingKey string, data any) {
	if err := s.events.Publish(ctx, routingKey, data); err != nil {
		slog.WarnContext(ctx, "publish order event failed",
			"event", routingKey,
			"error", err,
		)
	}
}

func invalidStatusError() *core.AppError {
	return core.ValidationError(
		"status must be one of " + strings.Join(Statuses, ", "),
	)
}
