package product

import (
	"context"
	"regexp"
	"strings"

	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, params CreateParams) (*Product, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Product, error)
	Delete(ctx context.Context, id string) error
	InvalidateCache(ctx context.Context, ids ...string)
}

type service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) Service {
	return &service{repo: repo, cache: cache}
}

func (s *service) List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Product, error) {
	return s.repo.List(ctx, filter, sort, page)
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
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

func (s *service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	if len(params.Title) < 3 || params.Price <= 0 || !params.Category.Valid() ||
		len(params.Images) == 0 || len(params.Sizes) == 0 || params.Stock < 0 {
		return nil, ErrInvalidProduct
	}
	if params.Discount != nil && (*params.Discount < 0 || *params.Discount > 100) {
		return nil, ErrInvalidProduct
	}

	p := &Product{
		ID:          utils.GenerateID("prod"),
		Title:       params.Title,
		Slug:        slugify(params.Title),
		Description: params.Description,
		Price:       params.Price,
		Discount:    params.Discount,
		Images:      params.Images,
		Category:    params.Category,
		Sizes:       params.Sizes,
		Stock:       params.Stock,
		Featured:    params.Featured,
		Currency:    "NGN",
	}

	if err := s.repo.Create(ctx, p); err != nil {
		logger.FromCtx(ctx).Error("failed to create product", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (s *service) Update(ctx context.Context, id string, params UpdateParams) (*Product, error) {
	if params.Category != nil && !params.Category.Valid() {
		return nil, ErrInvalidProduct
	}
	if params.Discount != nil && (*params.Discount < 0 || *params.Discount > 100) {
		return nil, ErrInvalidProduct
	}

	p, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	return nil
}

// InvalidateCache drops cached entries whose stock changed outside this
// package (checkout reservation, cancellation restore).
func (s *service) InvalidateCache(ctx context.Context, ids ...string) {
	s.cache.Invalidate(ctx, ids...)
}

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-z0-9]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
)

func slugify(input string) string {
	slug := strings.ToLower(strings.TrimSpace(input))
	slug = nonAlnumRegex.ReplaceAllString(slug, "-")
	slug = multiDashRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
