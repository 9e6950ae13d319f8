package transport

import (
	"errors"
	"net/http"

	"sneakerwears-be/internal/cart"
	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts cart.Service
}

func NewCartHandler(carts cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartLineResponse struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Price     float64  `json:"price"`
	Discount  *float64 `json:"discount,omitempty"`
	UnitPrice float64  `json:"unitPrice"`
	Images    []string `json:"images"`
	Size      *string  `json:"size,omitempty"`
	Qty       int      `json:"qty"`
	Stock     int      `json:"stock"`
}

type cartResponse struct {
	Items     []cartLineResponse `json:"items"`
	Subtotal  float64            `json:"subtotal"`
	ItemCount int                `json:"itemCount"`
}

func toCartResponse(view *cart.CartView) cartResponse {
	items := make([]cartLineResponse, 0, len(view.Items))
	for _, line := range view.Items {
		items = append(items, cartLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Title:     line.Title,
			Slug:      line.Slug,
			Price:     line.Price,
			Discount:  line.Discount,
			UnitPrice: line.EffectivePrice(),
			Images:    line.Images,
			Size:      line.Size,
			Qty:       line.Qty,
			Stock:     line.Stock,
		})
	}
	return cartResponse{Items: items, Subtotal: view.Subtotal, ItemCount: view.ItemCount}
}

func (h *CartHandler) Get(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	view, err := h.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("failed to load cart", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusOK, toCartResponse(view))
}

type addToCartRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Size      *string `json:"size"`
	Qty       int     `json:"qty" binding:"required,gt=0"`
}

func (h *CartHandler) Add(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId and a positive qty are required")
		return
	}

	_, err := h.carts.AddToCart(c.Request.Context(), cart.AddParams{
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Qty:       req.Qty,
	})
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrProductNotFound):
			respondError(c, http.StatusNotFound, "product not found")
		case errors.Is(err, cart.ErrInsufficientStock):
			respondError(c, http.StatusConflict, "not enough stock")
		case errors.Is(err, cart.ErrInvalidSize), errors.Is(err, cart.ErrInvalidQuantity):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			logger.FromCtx(c.Request.Context()).Error("failed to add to cart", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	view, err := h.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}
	respondOK(c, http.StatusOK, toCartResponse(view))
}

type updateCartRequest struct {
	Qty int `json:"qty" binding:"gte=0"`
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "qty must be zero or positive")
		return
	}

	err := h.carts.UpdateQty(c.Request.Context(), userID, c.Param("itemId"), req.Qty)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrCartItemNotFound):
			respondError(c, http.StatusNotFound, "cart item not found")
		case errors.Is(err, cart.ErrInsufficientStock):
			respondError(c, http.StatusConflict, "not enough stock")
		default:
			respondError(c, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondOK(c, http.StatusOK, gin.H{"updated": true})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	err := h.carts.Remove(c.Request.Context(), userID, c.Param("itemId"))
	if err != nil {
		if errors.Is(err, cart.ErrCartItemNotFound) {
			respondError(c, http.StatusNotFound, "cart item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"removed": true})
}
