package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/middleware"
	"sneakerwears-be/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemResponse struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Size      *string `json:"size,omitempty"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	Reference   string              `json:"reference"`
	Subtotal    float64             `json:"subtotal"`
	DeliveryFee float64             `json:"deliveryFee"`
	Total       float64             `json:"total"`
	Currency    string              `json:"currency"`
	Status      string              `json:"status"`
	Paid        bool                `json:"paid"`
	CreatedAt   time.Time           `json:"createdAt"`
	Items       []orderItemResponse `json:"items,omitempty"`
}

func toOrderResponse(o *order.Order) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		Reference:   o.Reference,
		Subtotal:    o.Subtotal,
		DeliveryFee: o.DeliveryFee,
		Total:       o.Total,
		Currency:    o.Currency,
		Status:      string(o.Status),
		Paid:        o.Paid,
		CreatedAt:   o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Qty:       item.Qty,
			Size:      item.Size,
		})
	}
	return resp
}

func parseOrderQuery(c *gin.Context) (*order.Filter, *order.Sort, *order.Page) {
	filter := &order.Filter{}

	if v := c.Query("status"); v != "" {
		st := order.Status(v)
		if st.Valid() {
			filter.Status = &st
		}
	}
	if v, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.DateFrom = &v
	}
	if v, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.DateTo = &v
	}

	sort := &order.Sort{Field: order.SortCreatedAt, Direction: order.SortDesc}
	switch c.Query("sort") {
	case "total_asc":
		sort = &order.Sort{Field: order.SortTotal, Direction: order.SortAsc}
	case "total_desc":
		sort = &order.Sort{Field: order.SortTotal, Direction: order.SortDesc}
	case "oldest":
		sort = &order.Sort{Field: order.SortCreatedAt, Direction: order.SortAsc}
	}

	page := &order.Page{Limit: 20, Page: 1}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		page.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page.Page = v
	}

	return filter, sort, page
}

func (h *OrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserIDFromContext(ctx)

	filter, sort, page := parseOrderQuery(c)
	if !middleware.IsAdminFromContext(ctx) {
		// Customers only ever see their own orders.
		filter.UserID = &userID
	}

	orders, err := h.orders.List(ctx, filter, sort, page)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	respondOK(c, http.StatusOK, out)
}

func (h *OrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := middleware.UserIDFromContext(ctx)

	o, err := h.orders.GetDetail(ctx, c.Param("id"), userID, middleware.IsAdminFromContext(ctx))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, "order not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusOK, toOrderResponse(o))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}

	err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), order.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, order.ErrInvalidStatus):
			respondError(c, http.StatusBadRequest, "invalid order status")
		case errors.Is(err, order.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, "order not found")
		default:
			logger.FromCtx(c.Request.Context()).Error("failed to update order status", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondOK(c, http.StatusOK, gin.H{"status": req.Status})
}
