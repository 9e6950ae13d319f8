package cart

import (
	"context"
	"testing"

	"sneakerwears-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetLines(ctx context.Context, userID string) ([]*Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Line), args.Error(1)
}

func (m *MockRepository) GetItemByUserProductSize(ctx context.Context, userID, productID string, size *string) (*CartItem, error) {
	args := m.Called(ctx, userID, productID, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) CreateItem(ctx context.Context, item *CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockRepository) UpdateItemQty(ctx context.Context, itemID, userID string, qty int) error {
	return m.Called(ctx, itemID, userID, qty).Error(0)
}

func (m *MockRepository) RemoveItem(ctx context.Context, itemID, userID string) error {
	return m.Called(ctx, itemID, userID).Error(0)
}

func (m *MockRepository) ClearCart(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) List(ctx context.Context, filter *product.Filter, sort *product.Sort, page *product.Page) ([]*product.Product, error) {
	args := m.Called(ctx, filter, sort, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepo) Create(ctx context.Context, p *product.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepo) Update(ctx context.Context, id string, params product.UpdateParams) (*product.Product, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func sampleProduct() *product.Product {
	return &product.Product{
		ID:    "prod_1",
		Title: "Air Max",
		Price: 2000,
		Sizes: []string{"41", "42", "43"},
		Stock: 5,
	}
}

func TestService_AddToCart(t *testing.T) {
	ctx := context.Background()
	size := "42"

	t.Run("NewItem", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, "prod_1").Return(sampleProduct(), nil)
		repo.On("GetItemByUserProductSize", ctx, "user_1", "prod_1", &size).Return(nil, nil)
		repo.On("CreateItem", ctx, mock.AnythingOfType("*cart.CartItem")).Return(nil)

		item, err := svc.AddToCart(ctx, AddParams{UserID: "user_1", ProductID: "prod_1", Size: &size, Qty: 2})
		require.NoError(t, err)
		assert.Equal(t, 2, item.Qty)
		assert.NotEmpty(t, item.ID)
	})

	t.Run("MergesExistingQty", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, "prod_1").Return(sampleProduct(), nil)
		repo.On("GetItemByUserProductSize", ctx, "user_1", "prod_1", &size).
			Return(&CartItem{ID: "cart_1", UserID: "user_1", ProductID: "prod_1", Size: &size, Qty: 2}, nil)
		repo.On("UpdateItemQty", ctx, "cart_1", "user_1", 3).Return(nil)

		item, err := svc.AddToCart(ctx, AddParams{UserID: "user_1", ProductID: "prod_1", Size: &size, Qty: 1})
		require.NoError(t, err)
		assert.Equal(t, 3, item.Qty)
		repo.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
	})

	t.Run("MergedQtyExceedsStock", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, "prod_1").Return(sampleProduct(), nil)
		repo.On("GetItemByUserProductSize", ctx, "user_1", "prod_1", &size).
			Return(&CartItem{ID: "cart_1", Qty: 4}, nil)

		// 4 in cart + 2 more > stock of 5.
		_, err := svc.AddToCart(ctx, AddParams{UserID: "user_1", ProductID: "prod_1", Size: &size, Qty: 2})
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("UnknownSize", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		svc := NewService(repo, productRepo)

		bad := "99"
		productRepo.On("GetByID", ctx, "prod_1").Return(sampleProduct(), nil)

		_, err := svc.AddToCart(ctx, AddParams{UserID: "user_1", ProductID: "prod_1", Size: &bad, Qty: 1})
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		svc := NewService(repo, productRepo)

		productRepo.On("GetByID", ctx, "prod_x").Return(nil, product.ErrProductNotFound)

		_, err := svc.AddToCart(ctx, AddParams{UserID: "user_1", ProductID: "prod_x", Qty: 1})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("ZeroQty", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepo))
		_, err := svc.AddToCart(ctx, AddParams{UserID: "user_1", ProductID: "prod_1", Qty: 0})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockProductRepo))

	discount := 50.0
	repo.On("GetLines", ctx, "user_1").Return([]*Line{
		{CartItem: CartItem{Qty: 2}, Title: "Air Max", Price: 2000},
		{CartItem: CartItem{Qty: 1}, Title: "Jordan", Price: 3000, Discount: &discount},
	}, nil)

	view, err := svc.GetCart(ctx, "user_1")
	require.NoError(t, err)

	// 2*2000 + 1*1500 after discount.
	assert.Equal(t, 5500.0, view.Subtotal)
	assert.Equal(t, 3, view.ItemCount)
}

func TestService_UpdateQty(t *testing.T) {
	ctx := context.Background()

	t.Run("ZeroRemoves", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepo))
		repo.On("RemoveItem", ctx, "cart_1", "user_1").Return(nil)

		err := svc.UpdateQty(ctx, "user_1", "cart_1", 0)
		assert.NoError(t, err)
		repo.AssertCalled(t, "RemoveItem", ctx, "cart_1", "user_1")
	})

	t.Run("PositiveUpdates", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepo))
		repo.On("UpdateItemQty", ctx, "cart_1", "user_1", 3).Return(nil)

		err := svc.UpdateQty(ctx, "user_1", "cart_1", 3)
		assert.NoError(t, err)
	})
}
