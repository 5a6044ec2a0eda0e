package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant_pos_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func TestRespondServiceErrorStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation failure", services.ErrValidation, http.StatusBadRequest},
		{"invalid order status", services.ErrInvalidOrderStatus, http.StatusBadRequest},
		{"invalid item status", services.ErrInvalidItemStatus, http.StatusBadRequest},
		{"order not found", services.ErrOrderNotFound, http.StatusNotFound},
		{"table not found", services.ErrTableNotFound, http.StatusNotFound},
		{"no active orders", services.ErrNoActiveOrders, http.StatusNotFound},
		{"editing a served order", services.ErrOrderServed, http.StatusBadRequest},
		{"cancelling a served order", services.ErrCannotCancelServed, http.StatusBadRequest},
		{"order already paid", services.ErrOrderAlreadyPaid, http.StatusBadRequest},
		{"order already closed", services.ErrOrderAlreadyClosed, http.StatusBadRequest},
		{"closing without payment", services.ErrPaymentRequired, http.StatusBadRequest},
		{"unavailable menu item", services.ErrMenuItemUnavailable, http.StatusBadRequest},
		{"unavailable table", services.ErrTableUnavailable, http.StatusBadRequest},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive user", services.ErrUserInactive, http.StatusForbidden},
		{"unmapped error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondServiceError(c, tt.err)

			if recorder.Code != tt.want {
				t.Errorf("respondServiceError(%v) status = %d, want %d", tt.err, recorder.Code, tt.want)
			}
		})
	}
}
