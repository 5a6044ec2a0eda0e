package router

import (
	"restaurant_pos_backend/internal/handlers"
	"restaurant_pos_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up staff authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)

		authRequired := authRoutes.Group("")
		authRequired.Use(middleware.AuthMiddleware())
		{
			authRequired.GET("/me", authHandler.Me)
		}
	}
}

// SetupOrderRoutes sets up the customer-facing order routes. Ordering and
// settlement are public so unauthenticated customer devices can use them;
// table views and lifecycle overrides require staff auth.
func SetupOrderRoutes(apiGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler, cashierHandler *handlers.CashierHandler) {
	orderRoutes := apiGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/status/:id", orderHandler.GetOrderStatus)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
		orderRoutes.PUT("/:id", orderHandler.UpdateOrder)
		orderRoutes.DELETE("/:id", orderHandler.CancelOrder)
		orderRoutes.POST("/:id/payment/create", cashierHandler.CreatePayment)
		orderRoutes.PUT("/:id/pay", cashierHandler.ProcessOrderPayment)

		staffRoutes := orderRoutes.Group("")
		staffRoutes.Use(middleware.AuthMiddleware())
		{
			staffRoutes.GET("/table/:tableId", orderHandler.GetOrdersByTable)
			staffRoutes.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}
	}
}

// SetupKitchenRoutes sets up the kitchen display routes.
func SetupKitchenRoutes(apiGroup *gin.RouterGroup, kitchenHandler *handlers.KitchenHandler) {
	kitchenRoutes := apiGroup.Group("/kitchen")
	kitchenRoutes.Use(middleware.AuthMiddleware(), middleware.RoleAuthMiddleware("kitchen", "admin"))
	{
		kitchenRoutes.GET("/orders", kitchenHandler.GetKitchenOrders)
		kitchenRoutes.GET("/order-items", kitchenHandler.GetKitchenOrderItems)
		kitchenRoutes.PUT("/order-items/:id/status", kitchenHandler.UpdateOrderItemStatus)
		kitchenRoutes.GET("/stats", kitchenHandler.GetKitchenStats)
	}
}

// SetupCashierRoutes sets up the cashier console routes.
func SetupCashierRoutes(apiGroup *gin.RouterGroup, cashierHandler *handlers.CashierHandler, orderHandler *handlers.OrderHandler) {
	cashierRoutes := apiGroup.Group("/cashier")
	cashierRoutes.Use(middleware.AuthMiddleware(), middleware.RoleAuthMiddleware("cashier", "admin"))
	{
		cashierRoutes.GET("/orders", orderHandler.GetOrders)
		cashierRoutes.GET("/orders/:id", orderHandler.GetOrder)
		cashierRoutes.GET("/orders/:id/payments", cashierHandler.GetOrderPayments)
		cashierRoutes.POST("/orders/:id/pay", cashierHandler.ProcessPayment)
		cashierRoutes.POST("/orders/:id/close", cashierHandler.CloseOrder)
		cashierRoutes.GET("/summary", cashierHandler.GetDailySummary)
		cashierRoutes.POST("/tables/:tableId/clear", cashierHandler.ClearTable)
	}
}

// SetupTableRoutes sets up the seating map routes. Reads are public for the
// floor display; writes are admin-only.
func SetupTableRoutes(apiGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := apiGroup.Group("/tables")
	{
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:id", tableHandler.GetTable)

		adminRoutes := tableRoutes.Group("")
		adminRoutes.Use(middleware.AuthMiddleware(), middleware.RoleAuthMiddleware("admin"))
		{
			adminRoutes.POST("", tableHandler.CreateTable)
			adminRoutes.PUT("/:id", tableHandler.UpdateTable)
			adminRoutes.PUT("/:id/status", tableHandler.UpdateTableStatus)
			adminRoutes.DELETE("/:id", tableHandler.DeleteTable)
		}
	}
}

// SetupMenuRoutes sets up the public catalog routes.
func SetupMenuRoutes(apiGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuRoutes := apiGroup.Group("/menu")
	{
		menuRoutes.GET("/items", menuHandler.GetMenuItems)
		menuRoutes.GET("/items/:id", menuHandler.GetMenuItem)
		menuRoutes.GET("/categories", menuHandler.GetCategories)
	}
}
