package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/order"
	"sneakerwears-be/internal/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds the raw read; real gateway events are a few KB.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	orders  order.Service
	gateway payment.Gateway
}

func NewWebhookHandler(orders order.Service, gateway payment.Gateway) *WebhookHandler {
	return &WebhookHandler{orders: orders, gateway: gateway}
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

// Payment handles gateway callbacks. The signature covers the exact bytes on
// the wire, so the body must be read raw before any JSON decoding.
func (h *WebhookHandler) Payment(c *gin.Context) {
	log := logger.FromCtx(c.Request.Context()).With(zap.String("handler", "webhook"))

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable body")
		return
	}

	if h.gateway.WebhookSecretConfigured() {
		signature := c.GetHeader("x-paystack-signature")
		if !h.gateway.VerifyWebhookSignature(body, signature) {
			log.Warn("webhook signature mismatch")
			respondError(c, http.StatusUnauthorized, "invalid signature")
			return
		}
	} else {
		log.Warn("webhook secret not configured, skipping signature verification")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	// Only successful charges settle anything; everything else is
	// acknowledged so the gateway stops retrying.
	if event.Event != "charge.success" || event.Data.Status != payment.StatusSuccess {
		log.Info("ignoring webhook event", zap.String("event", event.Event))
		respondOK(c, http.StatusOK, gin.H{"ignored": true})
		return
	}
	if event.Data.Reference == "" {
		respondError(c, http.StatusBadRequest, "missing reference")
		return
	}

	result, err := h.orders.SettleFromWebhook(c.Request.Context(), event.Data.Reference)
	if err != nil {
		if errors.Is(err, order.ErrOrderCancelled) {
			// The charge is real but the order is gone; retrying cannot fix
			// this, so acknowledge and leave it to reconciliation.
			log.Warn("charge succeeded for a cancelled order",
				zap.String("reference", event.Data.Reference),
			)
			respondOK(c, http.StatusOK, gin.H{"requiresReconciliation": true})
			return
		}
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Warn("webhook for unknown reference",
				zap.String("reference", event.Data.Reference),
			)
			respondError(c, http.StatusNotFound, "unknown reference")
			return
		}
		// 5xx so the gateway retries the delivery.
		log.Error("webhook settlement failed",
			zap.String("reference", event.Data.Reference),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "settlement failed")
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"orderId":     result.OrderID,
		"alreadyPaid": result.AlreadyPaid,
	})
}
