package handlers

import (
	"net/http"

	"restaurant_pos_backend/internal/middleware"
	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CashierHandler exposes settlement: the public payment endpoints and the
// staffed cashier console.
type CashierHandler struct {
	paymentService services.PaymentService
}

// NewCashierHandler creates a new instance of CashierHandler.
func NewCashierHandler(ps services.PaymentService) *CashierHandler {
	return &CashierHandler{paymentService: ps}
}

// processedByFromContext returns the staff user id when the request came
// through auth middleware; public settlement calls carry none.
func processedByFromContext(c *gin.Context) *int64 {
	if userID, ok := middleware.UserIDFromContext(c); ok {
		return &userID
	}
	return nil
}

// CreatePayment handles POST /orders/:id/payment/create, the pay-ahead flow.
// The order stays open for the kitchen.
func (h *CashierHandler) CreatePayment(c *gin.Context) {
	var req services.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	result, err := h.paymentService.CreatePayment(c.Param("id"), req, processedByFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Payment recorded", result)
}

// ProcessOrderPayment handles PUT /orders/:id/pay, the immediate-close flow.
func (h *CashierHandler) ProcessOrderPayment(c *gin.Context) {
	var req services.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	result, err := h.paymentService.ProcessOrderPayment(c.Param("id"), req, processedByFromContext(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Payment processed", result)
}

// ProcessPayment handles POST /cashier/orders/:id/pay, step one of the
// cashier's two-step settlement.
func (h *CashierHandler) ProcessPayment(c *gin.Context) {
	orderID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid order id")
		return
	}

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required", ""))
		return
	}

	var req services.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	payment, err := h.paymentService.ProcessPayment(orderID, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusCreated, "Payment recorded", payment)
}

// CloseOrder handles POST /cashier/orders/:id/close, step two: closure with a
// completed-payment precondition.
func (h *CashierHandler) CloseOrder(c *gin.Context) {
	orderID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid order id")
		return
	}

	order, err := h.paymentService.CloseOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Order closed", order)
}

// GetOrderPayments handles GET /cashier/orders/:id/payments.
func (h *CashierHandler) GetOrderPayments(c *gin.Context) {
	orderID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid order id")
		return
	}

	payments, err := h.paymentService.GetOrderPayments(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, payments)
}

// GetDailySummary handles GET /cashier/summary.
func (h *CashierHandler) GetDailySummary(c *gin.Context) {
	summary, err := h.paymentService.GetDailySummary()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, summary)
}

// ClearTable handles POST /cashier/tables/:tableId/clear.
func (h *CashierHandler) ClearTable(c *gin.Context) {
	tableID, err := utils.StrToInt64(c.Param("tableId"))
	if err != nil {
		utils.RespondValidationFailed(c, "invalid table id")
		return
	}

	table, err := h.paymentService.ClearTable(tableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Table cleared", table)
}
