package transport

import (
	"net/http"

	"sneakerwears-be/internal/logger"
	"sneakerwears-be/internal/metrics"
	"sneakerwears-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Product  *ProductHandler
	Cart     *CartHandler
	Address  *AddressHandler
	Checkout *CheckoutHandler
	Webhook  *WebhookHandler
	Order    *OrderHandler
}

func NewRouter(h Handlers, jwtSecret, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestIDMiddleware())
	r.Use(logger.LoggingMiddleware())
	r.Use(metrics.Middleware())
	r.Use(middleware.Auth(jwtSecret))
	r.Use(middleware.RateLimit())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	users := r.Group("/users", middleware.RequireUser())
	{
		users.GET("/me", h.User.Me)
		users.PUT("/me", h.User.UpdateMe)
	}

	products := r.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireAdmin(), h.Product.Create)
		products.PUT("/:id", middleware.RequireAdmin(), h.Product.Update)
		products.DELETE("/:id", middleware.RequireAdmin(), h.Product.Delete)
	}

	carts := r.Group("/cart", middleware.RequireUser())
	{
		carts.GET("", h.Cart.Get)
		carts.POST("", h.Cart.Add)
		carts.PUT("/:itemId", h.Cart.UpdateItem)
		carts.DELETE("/:itemId", h.Cart.RemoveItem)
	}

	addresses := r.Group("/addresses", middleware.RequireUser())
	{
		addresses.GET("", h.Address.List)
		addresses.POST("", h.Address.Create)
	}

	checkout := r.Group("/checkout", middleware.RequireUser())
	{
		checkout.POST("/create", h.Checkout.Create)
		checkout.POST("/verify", h.Checkout.Verify)
	}

	// Authenticated by HMAC signature, not by session.
	r.POST("/webhooks/payment", h.Webhook.Payment)

	orders := r.Group("/orders", middleware.RequireUser())
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", middleware.RequireAdmin(), h.Order.UpdateStatus)
	}

	return r
}
