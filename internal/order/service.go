package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"sneakerwears-be/internal/address"
	"sneakerwears-be/internal/cart"
	"sneakerwears-be/internal/delivery"
	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/metrics"
	"sneakerwears-be/internal/notification"
	"sneakerwears-be/internal/payment"
	"sneakerwears-be/internal/product"
	"sneakerwears-be/internal/user"
	"sneakerwears-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	// Checkout assembles an order from the user's cart, reserves stock, and
	// initializes a hosted payment session.
	Checkout(ctx context.Context, userID, addressID string) (*CheckoutResult, error)

	// VerifyAndSettle is the client-driven settlement trigger: it confirms
	// the payment with the gateway before settling.
	VerifyAndSettle(ctx context.Context, userID, reference string) (*SettleResult, error)

	// SettleFromWebhook is the gateway-driven trigger. The caller has
	// already authenticated the event; the gateway told us it succeeded.
	SettleFromWebhook(ctx context.Context, reference string) (*SettleResult, error)

	List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Order, error)
	GetDetail(ctx context.Context, orderID, userID string, isAdmin bool) (*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error

	// ReleaseStaleOrders cancels unpaid orders older than maxAge and returns
	// their stock to inventory.
	ReleaseStaleOrders(ctx context.Context, maxAge time.Duration) error
}

type service struct {
	repo        Repository
	cartRepo    cart.Repository
	addressRepo address.Repository
	userRepo    user.Repository
	products    product.Service
	gateway     payment.Gateway
	fees        delivery.FeeProvider
	dispatcher  *notification.Dispatcher
	baseURL     string
}

func NewService(
	repo Repository,
	cartRepo cart.Repository,
	addressRepo address.Repository,
	userRepo user.Repository,
	products product.Service,
	gateway payment.Gateway,
	fees delivery.FeeProvider,
	dispatcher *notification.Dispatcher,
	baseURL string,
) Service {
	return &service{
		repo:        repo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		userRepo:    userRepo,
		products:    products,
		gateway:     gateway,
		fees:        fees,
		dispatcher:  dispatcher,
		baseURL:     baseURL,
	}
}

func (s *service) Checkout(ctx context.Context, userID, addressID string) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("user_id", userID),
	)

	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		log.Error("failed to load cart", zap.Error(err))
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Check every line before reserving anything, so the caller learns about
	// all-or-nothing failures with the offending product named.
	for _, line := range lines {
		if line.Stock < line.Qty {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, line.Title)
		}
	}

	addr, err := s.addressRepo.GetUserAddress(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, address.ErrAddressNotFound) {
			return nil, ErrAddressNotFound
		}
		log.Error("failed to load shipping address", zap.Error(err))
		return nil, err
	}

	var subtotal float64
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		unit := line.EffectivePrice()
		subtotal += unit * float64(line.Qty)
		items = append(items, OrderItem{
			ID:        utils.GenerateID("oi"),
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     unit,
			Qty:       line.Qty,
			Size:      line.Size,
		})
	}

	fee := s.fees.Fee(ctx, addr)

	o := &Order{
		ID:             utils.GenerateID("order"),
		UserID:         userID,
		Subtotal:       subtotal,
		DeliveryFee:    fee,
		Total:          subtotal + fee,
		Currency:       "NGN",
		Status:         StatusPending,
		Paid:           false,
		Reference:      payment.GenerateReference(),
		ShippingAddrID: addr.ID,
		Items:          items,
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		return nil, err
	}

	touched := make([]string, 0, len(items))
	for _, item := range items {
		touched = append(touched, item.ProductID)
	}
	s.products.InvalidateCache(ctx, touched...)

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Error("failed to load user for payment init", zap.Error(err))
		return nil, err
	}

	init, err := s.gateway.Initialize(ctx, payment.InitializeParams{
		Email:       u.Email,
		Amount:      int64(math.Round(o.Total * 100)),
		Reference:   o.Reference,
		CallbackURL: s.baseURL + "/checkout/success?reference=" + o.Reference,
		Metadata: map[string]any{
			"orderId": o.ID,
			"userId":  userID,
		},
	})
	if err != nil {
		// The order stays PENDING; the stale-order sweep reclaims its stock
		// if the payment is never retried.
		log.Error("payment initialization failed",
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.RecordOrderCreated()
	log.Info("checkout initialized",
		zap.String("order_id", o.ID),
		zap.String("reference", o.Reference),
		zap.Float64("total", o.Total),
	)

	return &CheckoutResult{
		OrderID:          o.ID,
		Reference:        o.Reference,
		Subtotal:         o.Subtotal,
		DeliveryFee:      o.DeliveryFee,
		Total:            o.Total,
		AuthorizationURL: init.AuthorizationURL,
		AccessCode:       init.AccessCode,
	}, nil
}

func (s *service) VerifyAndSettle(ctx context.Context, userID, reference string) (*SettleResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VerifyAndSettle"),
		zap.String("reference", reference),
	)

	verification, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		log.Error("gateway verification failed", zap.Error(err))
		return nil, err
	}
	if verification.Status != payment.StatusSuccess {
		log.Warn("payment not successful", zap.String("gateway_status", verification.Status))
		return nil, ErrPaymentNotSuccessful
	}

	o, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		// Don't leak that the reference exists.
		return nil, ErrOrderNotFound
	}

	won, err := s.settle(ctx, o, "verify")
	if err != nil {
		return nil, err
	}

	return &SettleResult{OrderID: o.ID, Status: StatusPaid, AlreadyPaid: !won}, nil
}

func (s *service) SettleFromWebhook(ctx context.Context, reference string) (*SettleResult, error) {
	o, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	won, err := s.settle(ctx, o, "webhook")
	if err != nil {
		return nil, err
	}

	return &SettleResult{OrderID: o.ID, Status: StatusPaid, AlreadyPaid: !won}, nil
}

// settle flips the order to paid. Exactly one of the racing triggers wins the
// flip and runs the side effects; a loser that finds the order already paid
// returns won=false with no error. A successful payment arriving after the
// order was cancelled (stale sweep, admin) cannot settle: its stock was
// restored and may be gone, so it surfaces as ErrOrderCancelled for manual
// reconciliation instead of resurrecting the order.
func (s *service) settle(ctx context.Context, o *Order, trigger string) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "settle"),
		zap.String("order_id", o.ID),
		zap.String("trigger", trigger),
	)

	won, err := s.repo.MarkPaid(ctx, o.ID)
	if err != nil {
		log.Error("failed to mark order paid", zap.Error(err))
		return false, err
	}
	if !won {
		cur, err := s.repo.GetDetail(ctx, o.ID)
		if err != nil {
			return false, err
		}
		if !cur.Paid {
			log.Warn("payment succeeded for a non-pending order, manual reconciliation needed",
				zap.String("order_status", string(cur.Status)),
			)
			return false, ErrOrderCancelled
		}
		log.Info("order already settled")
		return false, nil
	}

	metrics.RecordOrderSettled(trigger)
	log.Info("order settled")

	// Post-settlement side effects are best effort; the order is paid either
	// way and a failure here must not surface as a payment failure.
	if err := s.cartRepo.ClearCart(ctx, o.UserID); err != nil {
		log.Error("failed to clear cart after settlement", zap.Error(err))
	}

	s.notifyConfirmed(ctx, log, o)

	return true, nil
}

func (s *service) notifyConfirmed(ctx context.Context, log *zap.Logger, o *Order) {
	items, err := s.repo.GetItems(ctx, o.ID)
	if err != nil {
		log.Error("failed to load items for confirmation email", zap.Error(err))
		return
	}

	u, err := s.userRepo.GetByID(ctx, o.UserID)
	if err != nil {
		log.Error("failed to load user for confirmation email", zap.Error(err))
		return
	}

	addr, err := s.addressRepo.GetByID(ctx, o.ShippingAddrID)
	if err != nil {
		log.Warn("failed to load shipping address for confirmation email", zap.Error(err))
		addr = nil
	}

	emailItems := make([]notification.OrderEmailItem, 0, len(items))
	for _, item := range items {
		emailItems = append(emailItems, notification.OrderEmailItem{
			Title: item.Title,
			Qty:   item.Qty,
			Price: item.Price,
			Size:  item.Size,
		})
	}

	s.dispatcher.OrderConfirmed(ctx, notification.OrderEmailData{
		OrderID:       o.ID,
		Reference:     o.Reference,
		CustomerName:  u.Name,
		CustomerEmail: u.Email,
		Items:         emailItems,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Total:         o.Total,
		ShippingAddr:  address.Format(addr),
	})
}

func (s *service) List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Order, error) {
	return s.repo.List(ctx, filter, sort, page)
}

func (s *service) GetDetail(ctx context.Context, orderID, userID string, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	touched, err := s.repo.UpdateStatusTx(ctx, orderID, status)
	if err != nil {
		return err
	}
	if len(touched) > 0 {
		s.products.InvalidateCache(ctx, touched...)
	}

	return nil
}

func (s *service) ReleaseStaleOrders(ctx context.Context, maxAge time.Duration) error {
	touched, err := s.repo.ReleaseStale(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return err
	}
	if len(touched) > 0 {
		s.products.InvalidateCache(ctx, touched...)
	}
	return nil
}
