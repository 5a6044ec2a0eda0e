package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"restaurant_pos_backend/internal/models"
)

func TestGuardSettlement(t *testing.T) {
	order := func(status models.OrderStatus, paymentStatus models.PaymentStatus) *models.Order {
		return &models.Order{Status: status, PaymentStatus: paymentStatus}
	}

	tests := []struct {
		name    string
		order   *models.Order
		mode    SettlementMode
		wantErr error
	}{
		{
			name:  "pay-ahead on open unpaid order",
			order: order(models.OrderStatusPending, models.PaymentStatusPending),
			mode:  ModePayAhead,
		},
		{
			name:    "pay-ahead refuses already paid",
			order:   order(models.OrderStatusPending, models.PaymentStatusPaid),
			mode:    ModePayAhead,
			wantErr: ErrOrderAlreadyPaid,
		},
		{
			name:  "immediate close on unpaid order",
			order: order(models.OrderStatusPending, models.PaymentStatusPending),
			mode:  ModeImmediateClose,
		},
		{
			name:  "immediate close reprocesses paid-but-open order",
			order: order(models.OrderStatusPending, models.PaymentStatusPaid),
			mode:  ModeImmediateClose,
		},
		{
			name:    "immediate close refuses paid and served",
			order:   order(models.OrderStatusServed, models.PaymentStatusPaid),
			mode:    ModeImmediateClose,
			wantErr: ErrOrderAlreadyClosed,
		},
		{
			name:  "two-step record on open order",
			order: order(models.OrderStatusPending, models.PaymentStatusPending),
			mode:  ModeCashierTwoStep,
		},
		{
			name:    "two-step record refuses served order",
			order:   order(models.OrderStatusServed, models.PaymentStatusPending),
			mode:    ModeCashierTwoStep,
			wantErr: ErrOrderAlreadyServed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guardSettlement(tt.order, tt.mode)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("guardSettlement() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveSettlementAmount(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name         string
		orderTotal   float64
		clientAmount *float64
		trustClient  bool
		wantAmount   float64
		wantMismatch bool
	}{
		{
			name:       "no client amount uses order total",
			orderTotal: 105.00,
			wantAmount: 105.00,
		},
		{
			name:         "zero client amount uses order total",
			orderTotal:   105.00,
			clientAmount: f(0),
			wantAmount:   105.00,
		},
		{
			name:         "matching client amount",
			orderTotal:   105.00,
			clientAmount: f(105.00),
			wantAmount:   105.00,
		},
		{
			name:         "mismatch keeps order total and flags it",
			orderTotal:   105.00,
			clientAmount: f(90.00),
			wantAmount:   105.00,
			wantMismatch: true,
		},
		{
			name:         "trusted path accepts client amount",
			orderTotal:   105.00,
			clientAmount: f(90.00),
			trustClient:  true,
			wantAmount:   90.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, mismatch := resolveSettlementAmount(tt.orderTotal, tt.clientAmount, tt.trustClient)
			if amount != tt.wantAmount {
				t.Errorf("resolveSettlementAmount() amount = %v, want %v", amount, tt.wantAmount)
			}
			if mismatch != tt.wantMismatch {
				t.Errorf("resolveSettlementAmount() mismatch = %v, want %v", mismatch, tt.wantMismatch)
			}
		})
	}
}

func TestDefaultTransactionID(t *testing.T) {
	now := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)
	got := defaultTransactionID(now)
	if !regexp.MustCompile(`^TXN-\d{13}$`).MatchString(got) {
		t.Errorf("defaultTransactionID(%v) = %q, want TXN-<unix millis>", now, got)
	}
}

func TestSettlementRequestResolveMethod(t *testing.T) {
	tests := []struct {
		name string
		req  SettlementRequest
		want string
	}{
		{"payment_method key", SettlementRequest{PaymentMethod: "cash"}, "cash"},
		{"method alias", SettlementRequest{Method: "card"}, "card"},
		{"payment_method wins over alias", SettlementRequest{PaymentMethod: "cash", Method: "card"}, "cash"},
		{"both empty", SettlementRequest{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.ResolveMethod(); got != tt.want {
				t.Errorf("ResolveMethod() = %q, want %q", got, tt.want)
			}
		})
	}
}
