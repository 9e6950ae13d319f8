package transport

import (
	"errors"
	"net/http"

	"sneakerwears-be/internal/address"
	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AddressHandler struct {
	addresses address.Service
}

func NewAddressHandler(addresses address.Service) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

type addressResponse struct {
	ID         string   `json:"id"`
	Label      *string  `json:"label,omitempty"`
	Street     string   `json:"street"`
	City       string   `json:"city"`
	Region     *string  `json:"region,omitempty"`
	Country    string   `json:"country"`
	PostalCode *string  `json:"postalCode,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func toAddressResponse(a *address.Address) addressResponse {
	return addressResponse{
		ID:         a.ID,
		Label:      a.Label,
		Street:     a.Street,
		City:       a.City,
		Region:     a.Region,
		Country:    a.Country,
		PostalCode: a.PostalCode,
		Latitude:   a.Latitude,
		Longitude:  a.Longitude,
	}
}

func (h *AddressHandler) List(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	addrs, err := h.addresses.List(c.Request.Context(), userID)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("failed to list addresses", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	out := make([]addressResponse, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, toAddressResponse(a))
	}
	respondOK(c, http.StatusOK, out)
}

type createAddressRequest struct {
	Label      *string  `json:"label"`
	Street     string   `json:"street" binding:"required"`
	City       string   `json:"city" binding:"required"`
	Region     *string  `json:"region"`
	Country    string   `json:"country" binding:"required"`
	PostalCode *string  `json:"postalCode"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

func (h *AddressHandler) Create(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c.Request.Context())

	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "street, city and country are required")
		return
	}

	a, err := h.addresses.Create(c.Request.Context(), userID, address.CreateParams{
		Label:      req.Label,
		Street:     req.Street,
		City:       req.City,
		Region:     req.Region,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		if errors.Is(err, address.ErrInvalidAddress) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusCreated, toAddressResponse(a))
}
