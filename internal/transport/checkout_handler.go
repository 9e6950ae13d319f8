package transport

import (
	"errors"
	"net/http"

	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/middleware"
	"sneakerwears-be/internal/order"
	"sneakerwears-be/internal/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	orders order.Service
}

func NewCheckoutHandler(orders order.Service) *CheckoutHandler {
	return &CheckoutHandler{orders: orders}
}

type createCheckoutRequest struct {
	AddressID string `json:"addressId" binding:"required"`
}

func (h *CheckoutHandler) Create(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	var req createCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "addressId is required")
		return
	}

	result, err := h.orders.Checkout(c.Request.Context(), userID, req.AddressID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			respondError(c, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, order.ErrInsufficientStock):
			respondError(c, http.StatusConflict, err.Error())
		case errors.Is(err, order.ErrAddressNotFound):
			respondError(c, http.StatusNotFound, "shipping address not found")
		default:
			var gwErr *payment.GatewayError
			if errors.As(err, &gwErr) {
				// Our order exists but the hosted session does not; the
				// client can retry and the stale sweep reclaims the stock.
				respondError(c, http.StatusBadGateway, "payment provider unavailable")
				return
			}
			logger.FromCtx(c.Request.Context()).Error("checkout failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondOK(c, http.StatusOK, result)
}

type verifyCheckoutRequest struct {
	Reference string `json:"reference" binding:"required"`
}

func (h *CheckoutHandler) Verify(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	var req verifyCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "reference is required")
		return
	}

	result, err := h.orders.VerifyAndSettle(c.Request.Context(), userID, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrPaymentNotSuccessful):
			respondError(c, http.StatusPaymentRequired, "payment was not successful")
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, "order not found")
		case errors.Is(err, order.ErrOrderCancelled):
			respondError(c, http.StatusConflict, "order was cancelled before payment completed, contact support")
		default:
			var gwErr *payment.GatewayError
			if errors.As(err, &gwErr) {
				respondError(c, http.StatusBadGateway, "payment provider unavailable")
				return
			}
			logger.FromCtx(c.Request.Context()).Error("verification failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"orderId":     result.OrderID,
		"status":      result.Status,
		"alreadyPaid": result.AlreadyPaid,
	})
}
