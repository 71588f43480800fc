// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

// ImageStore saves uploaded pictures and returns their public URLs.
type ImageStore interface {
	SaveFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
	DeleteAll(ctx context.Context, urls []string)
}

type Service struct {
	repo   Repository
	images ImageStore
	cache  Cache
}

// NewService builds the catalog service. A nil cache disables caching.
func NewService(repo Repository, images ImageStore, cache Cache) *Service {
	if cache == nil {
		cache = noCache{}
	}
	return &Service{repo: repo, images: images, cache: cache}
}

func (s *Service) List(
	ctx context.Context,
	filter ListFilter,
) ([]Product, int, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil &&
		filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, 0, core.ValidationError("minPrice must not exceed maxPrice")
	}

	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}

	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, p)
	return p, nil
}

// Create requires at least one image. Stored images are removed again if the
// row cannot be written.
func (s *Service) Create(
	ctx context.Context,
	req CreateProductRequest,
	files []*multipart.FileHeader,
) (*Product, error) {
	if len(files) == 0 {
		return nil, core.ValidationError("product image is required")
	}

	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	urls, err := s.images.SaveFiles(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("save product images: %w", err)
	}

	title := strings.TrimSpace(req.Title)
	p := &Product{
		ID:              uuid.New().String(),
		Title:           title,
		Slug:            slug.Make(title),
		Description:     req.Description,
		Price:           req.Price.Round(2),
		DiscountPercent: req.DiscountPercent,
		Category:        strings.TrimSpace(req.Category),
		Stock:           req.Stock,
		Images:          pq.StringArray(urls),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.images.DeleteAll(ctx, urls)
		return nil, err
	}

	return p, nil
}

// Update applies a partial edit. New images replace the old set.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateProductRequest,
	files []*multipart.FileHeader,
) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
		p.Slug = slug.Make(p.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		p.Price = req.Price.Round(2)
	}
	if req.DiscountPercent != nil {
		p.DiscountPercent = *req.DiscountPercent
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}

	var replaced []string
	if len(files) > 0 {
		urls, err := s.images.SaveFiles(ctx, files)
		if err != nil {
			return nil, fmt.Errorf("save product images: %w", err)
		}
		replaced = p.Images
		p.Images = pq.StringArray(urls)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if replaced != nil {
			s.images.DeleteAll(ctx, p.Images)
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, p.ID)

	if replaced != nil {
		s.images.DeleteAll(ctx, replaced)
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)

	s.images.DeleteAll(ctx, p.Images)
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return core.ValidationError("price must be greater than or equal to 0")
	}
	return nil
}
