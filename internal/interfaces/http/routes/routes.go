// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	redislib "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/store"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers and registers all
// API routes under the given group.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redislib.Client, cfg *config.Config, logger *logrus.Logger) {
	// Infrastructure
	txManager := postgres.NewTxManager(db)
	catalogRepo := postgres.NewCatalogRepository(db)
	cartRepo := postgres.NewCartRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	denylist := auth.NewTokenDenylist(redisClient)

	// Services
	userService := user.NewService(db, cfg, denylist)
	storeService := store.NewService(db, cfg)
	productService := product.NewService(db, cfg)
	cartService := cart.NewService(cartRepo, catalogRepo, txManager, logger)
	orderService := order.NewService(orderRepo, cartService, catalogRepo, txManager, logger)
	pdfService := pdf.NewService(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	storeHandler := handlers.NewStoreHandler(storeService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, storeService, catalogRepo, pdfService)

	authRequired := middleware.AuthMiddleware(cfg, denylist)

	// Public endpoints
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)

		protected := authGroup.Group("")
		protected.Use(authRequired)
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.GetProfile)
			protected.GET("/status", authHandler.Status)
		}
	}

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	stores := rg.Group("/stores")
	{
		stores.GET("/:id", storeHandler.GetStore)
		stores.GET("/:id/orders", authRequired, middleware.SellerMiddleware(), orderHandler.ListStoreOrders)
	}

	// Customer endpoints
	cartGroup := rg.Group("/cart")
	cartGroup.Use(authRequired)
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	orders := rg.Group("/orders")
	orders.Use(authRequired)
	{
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", orderHandler.DownloadInvoice)
	}

	storeRequests := rg.Group("/store-requests")
	storeRequests.Use(authRequired)
	{
		storeRequests.POST("", storeHandler.SubmitRequest)
	}

	// Seller endpoints
	seller := rg.Group("/seller")
	seller.Use(authRequired, middleware.SellerMiddleware())
	{
		seller.POST("/products", productHandler.CreateProduct)
		seller.PUT("/products/:id", productHandler.UpdateProduct)
		seller.GET("/orders", orderHandler.ListStoreOrders)
		seller.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	}

	// Admin endpoints
	admin := rg.Group("/admin")
	admin.Use(authRequired, middleware.AdminMiddleware())
	{
		admin.GET("/store-requests", storeHandler.ListRequests)
		admin.POST("/store-requests/:id/approve", storeHandler.ApproveRequest)
		admin.POST("/store-requests/:id/reject", storeHandler.RejectRequest)
	}
}
