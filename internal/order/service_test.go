package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"sneakerwears-be/internal/address"
	"sneakerwears-be/internal/cart"
	"sneakerwears-be/internal/notification"
	"sneakerwears-be/internal/payment"
	"sneakerwears-be/internal/product"
	"sneakerwears-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetByReference(ctx context.Context, reference string) (*Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetDetail(ctx context.Context, orderID string) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]OrderItem), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Order, error) {
	args := m.Called(ctx, filter, sort, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateStatusTx(ctx context.Context, orderID string, status Status) ([]string, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) ReleaseStale(ctx context.Context, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) GetLines(ctx context.Context, userID string) ([]*cart.Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.Line), args.Error(1)
}

func (m *MockCartRepo) GetItemByUserProductSize(ctx context.Context, userID, productID string, size *string) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepo) CreateItem(ctx context.Context, item *cart.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepo) UpdateItemQty(ctx context.Context, itemID, userID string, qty int) error {
	return m.Called(ctx, itemID, userID, qty).Error(0)
}

func (m *MockCartRepo) RemoveItem(ctx context.Context, itemID, userID string) error {
	return m.Called(ctx, itemID, userID).Error(0)
}

func (m *MockCartRepo) ClearCart(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockAddressRepo struct {
	mock.Mock
}

func (m *MockAddressRepo) ListByUser(ctx context.Context, userID string) ([]*address.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*address.Address), args.Error(1)
}

func (m *MockAddressRepo) Create(ctx context.Context, a *address.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAddressRepo) GetUserAddress(ctx context.Context, addressID, userID string) (*address.Address, error) {
	args := m.Called(ctx, addressID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressRepo) GetByID(ctx context.Context, addressID string) (*address.Address, error) {
	args := m.Called(ctx, addressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, id string, params user.UpdateProfileParams) (*user.User, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter *product.Filter, sort *product.Sort, page *product.Page) ([]*product.Product, error) {
	args := m.Called(ctx, filter, sort, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, params product.CreateParams) (*product.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, params product.UpdateParams) (*product.Product, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) InvalidateCache(ctx context.Context, ids ...string) {
	m.Called(ctx, ids)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Initialize(ctx context.Context, params payment.InitializeParams) (*payment.InitResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.InitResult), args.Error(1)
}

func (m *MockGateway) Verify(ctx context.Context, reference string) (*payment.VerifyResult, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.VerifyResult), args.Error(1)
}

func (m *MockGateway) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	return m.Called(rawBody, signature).Bool(0)
}

func (m *MockGateway) WebhookSecretConfigured() bool {
	return m.Called().Bool(0)
}

type stubFeeProvider struct {
	fee float64
}

func (s *stubFeeProvider) Fee(ctx context.Context, dest *address.Address) float64 {
	return s.fee
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, html string) error {
	return m.Called(ctx, to, subject, html).Error(0)
}

// --- Fixtures ---

type serviceFixture struct {
	repo     *MockRepository
	cartRepo *MockCartRepo
	addrRepo *MockAddressRepo
	userRepo *MockUserRepo
	products *MockProductService
	gateway  *MockGateway
	mailer   *MockMailer
	svc      Service
}

func newServiceFixture(t *testing.T, fee float64) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		repo:     new(MockRepository),
		cartRepo: new(MockCartRepo),
		addrRepo: new(MockAddressRepo),
		userRepo: new(MockUserRepo),
		products: new(MockProductService),
		gateway:  new(MockGateway),
		mailer:   new(MockMailer),
	}
	dispatcher := notification.NewDispatcher(f.mailer, "owner@sneakerwears.com")
	f.svc = NewService(
		f.repo, f.cartRepo, f.addrRepo, f.userRepo,
		f.products, f.gateway, &stubFeeProvider{fee: fee},
		dispatcher, "https://sneakerwears.com",
	)
	return f
}

func sampleLines() []*cart.Line {
	size := "42"
	return []*cart.Line{
		{
			CartItem: cart.CartItem{ID: "cart_1", UserID: "user_1", ProductID: "prod_1", Size: &size, Qty: 2},
			Title:    "Air Max",
			Price:    2000,
			Stock:    10,
			Currency: "NGN",
		},
	}
}

func sampleAddress() *address.Address {
	return &address.Address{ID: "addr_1", UserID: "user_1", Street: "1 Marina Rd", City: "Lagos", Country: "Nigeria"}
}

func sampleUser() *user.User {
	return &user.User{ID: "user_1", Name: "Ada", Email: "ada@example.com"}
}

// --- Checkout ---

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.cartRepo.On("GetLines", ctx, "user_1").Return(sampleLines(), nil)
		f.addrRepo.On("GetUserAddress", ctx, "addr_1", "user_1").Return(sampleAddress(), nil)

		var created *Order
		f.repo.On("CreateOrderTx", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*Order) }).
			Return(nil)
		f.products.On("InvalidateCache", ctx, []string{"prod_1"}).Return()
		f.userRepo.On("GetByID", ctx, "user_1").Return(sampleUser(), nil)
		f.gateway.On("Initialize", ctx, mock.AnythingOfType("payment.InitializeParams")).
			Return(&payment.InitResult{AuthorizationURL: "https://pay.example/s/abc", AccessCode: "abc"}, nil)

		result, err := f.svc.Checkout(ctx, "user_1", "addr_1")
		require.NoError(t, err)

		// 2 x 2000 + 1500 delivery.
		assert.Equal(t, 4000.0, result.Subtotal)
		assert.Equal(t, 1500.0, result.DeliveryFee)
		assert.Equal(t, 5500.0, result.Total)
		assert.Equal(t, "https://pay.example/s/abc", result.AuthorizationURL)
		assert.NotEmpty(t, result.Reference)

		require.NotNil(t, created)
		assert.Equal(t, StatusPending, created.Status)
		assert.False(t, created.Paid)
		assert.Len(t, created.Items, 1)
		assert.Equal(t, 2000.0, created.Items[0].Price)

		// Gateway gets the total in kobo.
		initCall := f.gateway.Calls[0].Arguments.Get(1).(payment.InitializeParams)
		assert.Equal(t, int64(550000), initCall.Amount)
		assert.Equal(t, "ada@example.com", initCall.Email)
		assert.Equal(t, created.Reference, initCall.Reference)
	})

	t.Run("DiscountSnapshotted", func(t *testing.T) {
		f := newServiceFixture(t, 0)

		discount := 25.0
		lines := sampleLines()
		lines[0].Discount = &discount

		f.cartRepo.On("GetLines", ctx, "user_1").Return(lines, nil)
		f.addrRepo.On("GetUserAddress", ctx, "addr_1", "user_1").Return(sampleAddress(), nil)

		var created *Order
		f.repo.On("CreateOrderTx", ctx, mock.Anything).
			Run(func(args mock.Arguments) { created = args.Get(1).(*Order) }).
			Return(nil)
		f.products.On("InvalidateCache", ctx, mock.Anything).Return()
		f.userRepo.On("GetByID", ctx, "user_1").Return(sampleUser(), nil)
		f.gateway.On("Initialize", ctx, mock.Anything).
			Return(&payment.InitResult{AuthorizationURL: "u", AccessCode: "c"}, nil)

		_, err := f.svc.Checkout(ctx, "user_1", "addr_1")
		require.NoError(t, err)

		// 2000 * 0.75, frozen into the item row.
		assert.Equal(t, 1500.0, created.Items[0].Price)
		assert.Equal(t, 3000.0, created.Subtotal)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		f := newServiceFixture(t, 1500)
		f.cartRepo.On("GetLines", ctx, "user_1").Return([]*cart.Line{}, nil)

		_, err := f.svc.Checkout(ctx, "user_1", "addr_1")
		assert.ErrorIs(t, err, ErrEmptyCart)
		f.repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything)
	})

	t.Run("InsufficientStockNamesProduct", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		lines := sampleLines()
		lines[0].Stock = 1 // wants 2

		f.cartRepo.On("GetLines", ctx, "user_1").Return(lines, nil)

		_, err := f.svc.Checkout(ctx, "user_1", "addr_1")
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Contains(t, err.Error(), "Air Max")
		f.repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything)
	})

	t.Run("AddressNotOwned", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.cartRepo.On("GetLines", ctx, "user_1").Return(sampleLines(), nil)
		f.addrRepo.On("GetUserAddress", ctx, "addr_2", "user_1").
			Return(nil, address.ErrAddressNotFound)

		_, err := f.svc.Checkout(ctx, "user_1", "addr_2")
		assert.ErrorIs(t, err, ErrAddressNotFound)
	})

	t.Run("GatewayInitFailureLeavesOrderPending", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.cartRepo.On("GetLines", ctx, "user_1").Return(sampleLines(), nil)
		f.addrRepo.On("GetUserAddress", ctx, "addr_1", "user_1").Return(sampleAddress(), nil)
		f.repo.On("CreateOrderTx", ctx, mock.Anything).Return(nil)
		f.products.On("InvalidateCache", ctx, mock.Anything).Return()
		f.userRepo.On("GetByID", ctx, "user_1").Return(sampleUser(), nil)
		f.gateway.On("Initialize", ctx, mock.Anything).
			Return(nil, &payment.GatewayError{StatusCode: 502, Message: "provider down"})

		_, err := f.svc.Checkout(ctx, "user_1", "addr_1")

		var gwErr *payment.GatewayError
		assert.ErrorAs(t, err, &gwErr)
		// The order was persisted; the stale sweep reclaims the stock later.
		f.repo.AssertCalled(t, "CreateOrderTx", ctx, mock.Anything)
	})
}

// --- Settlement ---

func settleableOrder() *Order {
	return &Order{
		ID: "order_1", UserID: "user_1", Subtotal: 4000, DeliveryFee: 1500,
		Total: 5500, Currency: "NGN", Status: StatusPending,
		Reference: "SW-REF-1", ShippingAddrID: "addr_1",
	}
}

func expectSideEffects(f *serviceFixture, ctx context.Context) {
	f.cartRepo.On("ClearCart", ctx, "user_1").Return(nil)
	f.repo.On("GetItems", ctx, "order_1").Return([]OrderItem{
		{ProductID: "prod_1", Title: "Air Max", Price: 2000, Qty: 2},
	}, nil)
	f.userRepo.On("GetByID", ctx, "user_1").Return(sampleUser(), nil)
	f.addrRepo.On("GetByID", ctx, "addr_1").Return(sampleAddress(), nil)
	f.mailer.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

func TestService_VerifyAndSettle(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulPaymentSettles", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.gateway.On("Verify", ctx, "SW-REF-1").
			Return(&payment.VerifyResult{Status: payment.StatusSuccess, Reference: "SW-REF-1"}, nil)
		f.repo.On("GetByReference", ctx, "SW-REF-1").Return(settleableOrder(), nil)
		f.repo.On("MarkPaid", ctx, "order_1").Return(true, nil)
		expectSideEffects(f, ctx)

		result, err := f.svc.VerifyAndSettle(ctx, "user_1", "SW-REF-1")
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, result.Status)
		assert.False(t, result.AlreadyPaid)

		f.cartRepo.AssertCalled(t, "ClearCart", ctx, "user_1")
		f.mailer.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("SecondVerifyIsIdempotent", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.gateway.On("Verify", ctx, "SW-REF-1").
			Return(&payment.VerifyResult{Status: payment.StatusSuccess}, nil)
		paid := settleableOrder()
		paid.Paid = true
		paid.Status = StatusPaid
		f.repo.On("GetByReference", ctx, "SW-REF-1").Return(paid, nil)
		f.repo.On("MarkPaid", ctx, "order_1").Return(false, nil)
		f.repo.On("GetDetail", ctx, "order_1").Return(paid, nil)

		result, err := f.svc.VerifyAndSettle(ctx, "user_1", "SW-REF-1")
		require.NoError(t, err)
		assert.True(t, result.AlreadyPaid)

		// The loser of the flip runs no side effects.
		f.cartRepo.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CancelledOrderCannotSettle", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		cancelled := settleableOrder()
		cancelled.Status = StatusCancelled

		f.gateway.On("Verify", ctx, "SW-REF-1").
			Return(&payment.VerifyResult{Status: payment.StatusSuccess}, nil)
		f.repo.On("GetByReference", ctx, "SW-REF-1").Return(cancelled, nil)
		f.repo.On("MarkPaid", ctx, "order_1").Return(false, nil)
		f.repo.On("GetDetail", ctx, "order_1").Return(cancelled, nil)

		_, err := f.svc.VerifyAndSettle(ctx, "user_1", "SW-REF-1")
		assert.ErrorIs(t, err, ErrOrderCancelled)

		// The restored stock may be resold; nothing side-effects.
		f.cartRepo.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AbandonedPaymentRejected", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.gateway.On("Verify", ctx, "SW-REF-1").
			Return(&payment.VerifyResult{Status: "abandoned"}, nil)

		_, err := f.svc.VerifyAndSettle(ctx, "user_1", "SW-REF-1")
		assert.ErrorIs(t, err, ErrPaymentNotSuccessful)
		f.repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("OtherUsersOrderHidden", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.gateway.On("Verify", ctx, "SW-REF-1").
			Return(&payment.VerifyResult{Status: payment.StatusSuccess}, nil)
		f.repo.On("GetByReference", ctx, "SW-REF-1").Return(settleableOrder(), nil)

		_, err := f.svc.VerifyAndSettle(ctx, "user_2", "SW-REF-1")
		assert.ErrorIs(t, err, ErrOrderNotFound)
		f.repo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("NotificationFailureDoesNotPropagate", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.gateway.On("Verify", ctx, "SW-REF-1").
			Return(&payment.VerifyResult{Status: payment.StatusSuccess}, nil)
		f.repo.On("GetByReference", ctx, "SW-REF-1").Return(settleableOrder(), nil)
		f.repo.On("MarkPaid", ctx, "order_1").Return(true, nil)
		f.cartRepo.On("ClearCart", ctx, "user_1").Return(nil)
		f.repo.On("GetItems", ctx, "order_1").Return([]OrderItem{{Title: "Air Max", Price: 2000, Qty: 2}}, nil)
		f.userRepo.On("GetByID", ctx, "user_1").Return(sampleUser(), nil)
		f.addrRepo.On("GetByID", ctx, "addr_1").Return(sampleAddress(), nil)
		f.mailer.On("Send", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp down"))

		result, err := f.svc.VerifyAndSettle(ctx, "user_1", "SW-REF-1")
		require.NoError(t, err)
		assert.False(t, result.AlreadyPaid)
	})
}

func TestService_SettleFromWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("SettlesWithoutClientVerify", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.repo.On("GetByReference", ctx, "SW-REF-1").Return(settleableOrder(), nil)
		f.repo.On("MarkPaid", ctx, "order_1").Return(true, nil)
		expectSideEffects(f, ctx)

		result, err := f.svc.SettleFromWebhook(ctx, "SW-REF-1")
		require.NoError(t, err)
		assert.False(t, result.AlreadyPaid)
		f.mailer.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("LosesRaceToClientVerify", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		paid := settleableOrder()
		paid.Paid = true
		paid.Status = StatusPaid
		f.repo.On("GetByReference", ctx, "SW-REF-1").Return(settleableOrder(), nil)
		f.repo.On("MarkPaid", ctx, "order_1").Return(false, nil)
		f.repo.On("GetDetail", ctx, "order_1").Return(paid, nil)

		result, err := f.svc.SettleFromWebhook(ctx, "SW-REF-1")
		require.NoError(t, err)
		assert.True(t, result.AlreadyPaid)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LateChargeForSweptOrderNeedsReconciliation", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		// The stale sweep cancelled the order and restored its stock before
		// the charge.success delivery arrived.
		swept := settleableOrder()
		swept.Status = StatusCancelled

		f.repo.On("GetByReference", ctx, "SW-REF-1").Return(swept, nil)
		f.repo.On("MarkPaid", ctx, "order_1").Return(false, nil)
		f.repo.On("GetDetail", ctx, "order_1").Return(swept, nil)

		_, err := f.svc.SettleFromWebhook(ctx, "SW-REF-1")
		assert.ErrorIs(t, err, ErrOrderCancelled)

		f.cartRepo.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownReference", func(t *testing.T) {
		f := newServiceFixture(t, 1500)

		f.repo.On("GetByReference", ctx, "SW-GHOST").Return(nil, ErrOrderNotFound)

		_, err := f.svc.SettleFromWebhook(ctx, "SW-GHOST")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_GetDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerSees", func(t *testing.T) {
		f := newServiceFixture(t, 1500)
		f.repo.On("GetDetail", ctx, "order_1").Return(settleableOrder(), nil)

		o, err := f.svc.GetDetail(ctx, "order_1", "user_1", false)
		require.NoError(t, err)
		assert.Equal(t, "order_1", o.ID)
	})

	t.Run("StrangerBlocked", func(t *testing.T) {
		f := newServiceFixture(t, 1500)
		f.repo.On("GetDetail", ctx, "order_1").Return(settleableOrder(), nil)

		_, err := f.svc.GetDetail(ctx, "order_1", "user_9", false)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("AdminSeesAll", func(t *testing.T) {
		f := newServiceFixture(t, 1500)
		f.repo.On("GetDetail", ctx, "order_1").Return(settleableOrder(), nil)

		o, err := f.svc.GetDetail(ctx, "order_1", "admin_1", true)
		require.NoError(t, err)
		assert.Equal(t, "order_1", o.ID)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidStatus", func(t *testing.T) {
		f := newServiceFixture(t, 1500)
		err := f.svc.UpdateStatus(ctx, "order_1", Status("BOGUS"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("CancelInvalidatesTouchedProducts", func(t *testing.T) {
		f := newServiceFixture(t, 1500)
		f.repo.On("UpdateStatusTx", ctx, "order_1", StatusCancelled).
			Return([]string{"prod_1"}, nil)
		f.products.On("InvalidateCache", ctx, []string{"prod_1"}).Return()

		err := f.svc.UpdateStatus(ctx, "order_1", StatusCancelled)
		assert.NoError(t, err)
		f.products.AssertCalled(t, "InvalidateCache", ctx, []string{"prod_1"})
	})
}

func TestService_ReleaseStaleOrders(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t, 1500)

	f.repo.On("ReleaseStale", ctx, mock.AnythingOfType("time.Time")).
		Return([]string{"prod_1", "prod_2"}, nil)
	f.products.On("InvalidateCache", ctx, []string{"prod_1", "prod_2"}).Return()

	err := f.svc.ReleaseStaleOrders(ctx, 30*time.Minute)
	assert.NoError(t, err)
}
