package router

import (
	"database/sql"

	"restaurant_pos_backend/internal/handlers"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers and registers every route
// under /api/v1.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Repositories
	orderRepo := repositories.NewOrderRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	authRepo := repositories.NewAuthRepository(db)

	// Services
	orderService := services.NewOrderService(orderRepo, menuRepo, tableRepo, db)
	kitchenService := services.NewKitchenService(orderRepo, db)
	paymentService := services.NewPaymentService(paymentRepo, orderRepo, tableRepo, db)
	tableService := services.NewTableService(tableRepo, orderRepo, db)
	menuService := services.NewMenuService(menuRepo)
	authService := services.NewAuthService(authRepo)

	// Handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	kitchenHandler := handlers.NewKitchenHandler(kitchenService)
	cashierHandler := handlers.NewCashierHandler(paymentService)
	tableHandler := handlers.NewTableHandler(tableService)
	menuHandler := handlers.NewMenuHandler(menuService)
	authHandler := handlers.NewAuthHandler(authService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)
	SetupOrderRoutes(apiV1, orderHandler, cashierHandler)
	SetupKitchenRoutes(apiV1, kitchenHandler)
	SetupCashierRoutes(apiV1, cashierHandler, orderHandler)
	SetupTableRoutes(apiV1, tableHandler)
	SetupMenuRoutes(apiV1, menuHandler)
}
