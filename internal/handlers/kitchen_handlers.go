package handlers

import (
	"net/http"

	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// KitchenHandler exposes the kitchen display endpoints.
type KitchenHandler struct {
	kitchenService services.KitchenService
}

// NewKitchenHandler creates a new instance of KitchenHandler.
func NewKitchenHandler(ks services.KitchenService) *KitchenHandler {
	return &KitchenHandler{kitchenService: ks}
}

// GetKitchenOrders handles GET /kitchen/orders.
func (h *KitchenHandler) GetKitchenOrders(c *gin.Context) {
	orders, err := h.kitchenService.GetKitchenOrders()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, orders)
}

// GetKitchenOrderItems handles GET /kitchen/order-items with an optional
// status filter.
func (h *KitchenHandler) GetKitchenOrderItems(c *gin.Context) {
	items, err := h.kitchenService.GetKitchenOrderItems(c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, items)
}

type updateItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderItemStatus handles PUT /kitchen/order-items/:id/status.
func (h *KitchenHandler) UpdateOrderItemStatus(c *gin.Context) {
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid order item id")
		return
	}

	var req updateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.kitchenService.UpdateOrderItemStatus(itemID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Item status updated", item)
}

// GetKitchenStats handles GET /kitchen/stats.
func (h *KitchenHandler) GetKitchenStats(c *gin.Context) {
	stats, err := h.kitchenService.GetKitchenStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, stats)
}
