package handlers

import (
	"errors"
	"net/http"

	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service sentinels onto the HTTP envelope. Anything
// unmapped is logged and reported as a 500 without leaking internals.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidOrderStatus),
		errors.Is(err, services.ErrInvalidItemStatus):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))

	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrOrderItemNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNoActiveOrders):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))

	case errors.Is(err, services.ErrMenuItemUnavailable),
		errors.Is(err, services.ErrTableInactive),
		errors.Is(err, services.ErrTableUnavailable),
		errors.Is(err, services.ErrOrderServed),
		errors.Is(err, services.ErrCannotCancelServed),
		errors.Is(err, services.ErrOrderAlreadyPaid),
		errors.Is(err, services.ErrOrderAlreadyClosed),
		errors.Is(err, services.ErrOrderAlreadyServed),
		errors.Is(err, services.ErrPaymentRequired),
		errors.Is(err, services.ErrTableHasPendingOrders):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeInvalidState, err.Error(), ""))

	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), ""))

	case errors.Is(err, services.ErrUserInactive):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, err.Error(), ""))

	default:
		utils.LogError(err, "Unhandled service error", map[string]interface{}{"path": c.FullPath()})
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error", ""))
	}
}
