package handlers

import (
	"net/http"
	"strings"
	"time"

	"restaurant_pos_backend/internal/middleware"
	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler exposes the order lifecycle over HTTP.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder handles POST /orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if userID, ok := middleware.UserIDFromContext(c); ok {
		req.CreatedBy = &userID
	}

	result, err := h.orderService.CreateOrder(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusCreated, "Order placed successfully", result)
}

// GetOrders handles GET /orders with status/type/table/date filters.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	// status accepts a comma-separated list, e.g. status=pending,served.
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if !models.IsValidOrderStatus(s) {
				utils.RespondValidationFailed(c, "invalid order status: "+s)
				return
			}
			filters.Statuses = append(filters.Statuses, s)
		}
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondValidationFailed(c, "start_date must be YYYY-MM-DD")
			return
		}
		filters.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondValidationFailed(c, "end_date must be YYYY-MM-DD")
			return
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filters.EndDate = &end
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	orders, totalCount, err := h.orderService.GetOrders(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{
		"orders": orders,
		"pagination": gin.H{
			"page":      filters.Page,
			"page_size": filters.PageSize,
			"total":     totalCount,
		},
	})
}

// GetOrder handles GET /orders/:id; the reference may be an internal id or an
// ORD- prefixed order number.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	result, err := h.orderService.GetOrder(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, result)
}

// GetOrderStatus handles GET /orders/status/:id, the lightweight tracking
// endpoint for customer displays.
func (h *OrderHandler) GetOrderStatus(c *gin.Context) {
	order, err := h.orderService.ResolveOrder(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"kitchen_status": order.KitchenStatus,
		"payment_status": order.PaymentStatus,
		"total":          order.Total,
		"created_at":     order.CreatedAt,
	})
}

// UpdateOrder handles PUT /orders/:id.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req services.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	result, err := h.orderService.UpdateOrder(c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Order updated successfully", result)
}

// UpdateOrderStatus handles PUT /orders/:id/status.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder handles DELETE /orders/:id. Cancellation is a status change,
// not a row delete, so the ledger keeps the record.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Order cancelled", order)
}

// GetOrdersByTable handles GET /orders/table/:tableId.
func (h *OrderHandler) GetOrdersByTable(c *gin.Context) {
	tableID, err := utils.StrToInt64(c.Param("tableId"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid table id")
		return
	}

	result, err := h.orderService.GetOrdersByTable(tableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, result)
}
