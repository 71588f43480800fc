// AngelaMos | 2026
// service.go

package custom

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/storefront-api/internal/core"
	"github.com/carterperez-dev/storefront-api/internal/events"
)

const EventSubmitted = "custom_request.submitted"

// ImageStore keeps the optional reference picture attached to a request.
type ImageStore interface {
	SaveFile(ctx context.Context, fh *multipart.FileHeader) (string, error)
	DeleteAll(ctx context.Context, urls []string)
}

type Service struct {
	repo   Repository
	images ImageStore
	events events.Publisher
}

func NewService(repo Repository, images ImageStore, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{repo: repo, images: images, events: publisher}
}

// Create stores a new request in the Submitted state. image may be nil.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateRequest,
	image *multipart.FileHeader,
) (*Request, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, core.ValidationError("description is required")
	}

	cr := &Request{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		Budget:      strings.TrimSpace(req.Budget),
		Status:      StatusSubmitted,
	}

	if image != nil {
		url, err := s.images.SaveFile(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("save reference image: %w", err)
		}
		cr.ImageURL = url
	}

	if err := s.repo.Create(ctx, cr); err != nil {
		if cr.ImageURL != "" {
			s.images.DeleteAll(ctx, []string{cr.ImageURL})
		}
		return nil, err
	}

	if err := s.events.Publish(ctx, EventSubmitted, map[string]any{
		"request_id": cr.ID,
		"user_id":    cr.UserID,
	}); err != nil {
		slog.WarnContext(ctx, "publish custom request event failed",
			"request_id", cr.ID,
			"error", err,
		)
	}

	return cr, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Request, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListParams,
) ([]RequestWithUser, int, error) {
	params.Normalize()

	if params.Status != "" && !IsValidStatus(params.Status) {
		return nil, 0, invalidStatusError()
	}

	return s.repo.ListAll(ctx, params)
}

// Update applies an admin's status change and comments.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateRequest,
) (*Request, error) {
	if req.Status != nil && !IsValidStatus(*req.Status) {
		return nil, invalidStatusError()
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("update custom request: %w", core.ErrNotFound)
	}

	cr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		cr.Status = *req.Status
	}
	if req.AdminComments != nil {
		cr.AdminComments = strings.TrimSpace(*req.AdminComments)
	}

	if err := s.repo.Update(ctx, cr); err != nil {
		return nil, err
	}

	return cr, nil
}

func invalidStatusError() *core.AppError {
	return core.ValidationError(
		"status must be one of " + strings.Join(Statuses, ", "),
	)
}
