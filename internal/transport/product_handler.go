package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/product"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

type productResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Discount    *float64  `json:"discount,omitempty"`
	Images      []string  `json:"images"`
	Category    string    `json:"category"`
	Sizes       []string  `json:"sizes"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		Images:      p.Images,
		Category:    string(p.Category),
		Sizes:       p.Sizes,
		Stock:       p.Stock,
		Featured:    p.Featured,
		Currency:    p.Currency,
		CreatedAt:   p.CreatedAt,
	}
}

// parseProductQuery maps the query string onto the structured filter; unknown
// sort fields fall back to newest-first.
func parseProductQuery(c *gin.Context) (*product.Filter, *product.Sort, *product.Page) {
	filter := &product.Filter{}

	if v := c.Query("category"); v != "" {
		cat := product.Category(v)
		if cat.Valid() {
			filter.Category = &cat
		}
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v := c.Query("inStock"); v == "true" {
		inStock := true
		filter.InStock = &inStock
	}

	sort := &product.Sort{Field: product.SortCreatedAt, Direction: product.SortDesc}
	switch c.Query("sort") {
	case "price_asc":
		sort = &product.Sort{Field: product.SortPrice, Direction: product.SortAsc}
	case "price_desc":
		sort = &product.Sort{Field: product.SortPrice, Direction: product.SortDesc}
	case "title":
		sort = &product.Sort{Field: product.SortTitle, Direction: product.SortAsc}
	}

	page := &product.Page{Limit: 20, Page: 1}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		page.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page.Page = v
	}

	return filter, sort, page
}

func (h *ProductHandler) List(c *gin.Context) {
	filter, sort, page := parseProductQuery(c)

	products, err := h.products.List(c.Request.Context(), filter, sort, page)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Error("failed to list products", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	respondOK(c, http.StatusOK, out)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusOK, toProductResponse(p))
}

type createProductRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Discount    *float64 `json:"discount"`
	Images      []string `json:"images"`
	Category    string   `json:"category" binding:"required"`
	Sizes       []string `json:"sizes"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Featured    bool     `json:"featured"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid product payload")
		return
	}

	cat := product.Category(req.Category)
	if !cat.Valid() {
		respondError(c, http.StatusBadRequest, "invalid category")
		return
	}

	p, err := h.products.Create(c.Request.Context(), product.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Images:      req.Images,
		Category:    cat,
		Sizes:       req.Sizes,
		Stock:       req.Stock,
		Featured:    req.Featured,
	})
	if err != nil {
		if errors.Is(err, product.ErrInvalidProduct) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		logger.FromCtx(c.Request.Context()).Error("failed to create product", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusCreated, toProductResponse(p))
}

type updateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Discount    *float64 `json:"discount"`
	Images      []string `json:"images"`
	Category    *string  `json:"category"`
	Sizes       []string `json:"sizes"`
	Stock       *int     `json:"stock"`
	Featured    *bool    `json:"featured"`
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid product payload")
		return
	}

	params := product.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Images:      req.Images,
		Sizes:       req.Sizes,
		Stock:       req.Stock,
		Featured:    req.Featured,
	}
	if req.Category != nil {
		cat := product.Category(*req.Category)
		if !cat.Valid() {
			respondError(c, http.StatusBadRequest, "invalid category")
			return
		}
		params.Category = &cat
	}

	p, err := h.products.Update(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
