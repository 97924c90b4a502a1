package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/baabuu/storefront/internal/pkg/ratelimit"
	"github.com/baabuu/storefront/internal/pkg/token"
	"github.com/baabuu/storefront/internal/server/http/handlers"
	"github.com/baabuu/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. Gateway
// callbacks stay outside the session group: gateways cannot carry user
// tokens, so those routes are throttled per client IP instead.
func Setup(facade handlers.StorefrontFacade, parser token.Parser, limiter *ratelimit.Limiter, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	cartHandler := handlers.NewCartHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	api := engine.Group("/api")

	callbacks := api.Group("/payment")
	callbacks.Use(middleware.RateLimited(limiter))
	callbacks.POST("/:method/callback", paymentHandler.Callback)
	callbacks.GET("/:method/callback", paymentHandler.Callback)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(parser))
	authed.POST("/cart", cartHandler.Add)
	authed.GET("/cart", cartHandler.List)
	authed.PATCH("/cart/:id", cartHandler.Update)
	authed.DELETE("/cart/:id", cartHandler.Remove)
	authed.POST("/checkout/place", checkoutHandler.Place)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/order/:order_id", orderHandler.Get)
	authed.POST("/order/:order_id/cancel", orderHandler.Cancel)
	authed.POST("/order/:order_id/return", orderHandler.Return)
	authed.POST("/payment/:method/initiate", middleware.RateLimited(limiter), paymentHandler.Initiate)

	return engine
}
