package cart

import (
	"context"
	"slices"

	"sneakerwears-be/internal/product"
	"sneakerwears-be/internal/utils"
)

type Service interface {
	AddToCart(ctx context.Context, params AddParams) (*CartItem, error)
	GetCart(ctx context.Context, userID string) (*CartView, error)
	UpdateQty(ctx context.Context, userID, itemID string, qty int) error
	Remove(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// AddToCart merges quantities when the same (product, size) is added again;
// the merged quantity must still fit the current stock.
func (s *service) AddToCart(ctx context.Context, params AddParams) (*CartItem, error) {
	if params.Qty < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		if err == product.ErrProductNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if params.Size != nil && !slices.Contains(p.Sizes, *params.Size) {
		return nil, ErrInvalidSize
	}

	existing, err := s.repo.GetItemByUserProductSize(ctx, params.UserID, params.ProductID, params.Size)
	if err != nil {
		return nil, err
	}

	finalQty := params.Qty
	if existing != nil {
		finalQty += existing.Qty
	}

	if p.Stock < finalQty {
		return nil, ErrInsufficientStock
	}

	if existing != nil {
		if err := s.repo.UpdateItemQty(ctx, existing.ID, params.UserID, finalQty); err != nil {
			return nil, err
		}
		existing.Qty = finalQty
		return existing, nil
	}

	item := &CartItem{
		ID:        utils.GenerateID("cart"),
		UserID:    params.UserID,
		ProductID: params.ProductID,
		Size:      params.Size,
		Qty:       params.Qty,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *service) GetCart(ctx context.Context, userID string) (*CartView, error) {
	lines, err := s.repo.GetLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: lines}
	for _, l := range lines {
		view.Subtotal += l.EffectivePrice() * float64(l.Qty)
		view.ItemCount += l.Qty
	}

	return view, nil
}

func (s *service) UpdateQty(ctx context.Context, userID, itemID string, qty int) error {
	if qty <= 0 {
		return s.repo.RemoveItem(ctx, itemID, userID)
	}
	return s.repo.UpdateItemQty(ctx, itemID, userID, qty)
}

func (s *service) Remove(ctx context.Context, userID, itemID string) error {
	return s.repo.RemoveItem(ctx, itemID, userID)
}

func (s *service) Clear(ctx context.Context, userID string) error {
	return s.repo.ClearCart(ctx, userID)
}
