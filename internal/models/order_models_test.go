package models

import "testing"

func TestIsValidOrderStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"pending", true},
		{"served", true},
		{"cancelled", true},
		{"preparing", false}, // kitchen stage, not a lifecycle status
		{"ready", false},
		{"completed", false},
		{"", false},
		{"Pending", false},
	}

	for _, tt := range tests {
		if got := IsValidOrderStatus(tt.status); got != tt.want {
			t.Errorf("IsValidOrderStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, false},
		{OrderStatusServed, true},
		{OrderStatusCancelled, true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("%q.IsTerminal() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestIsValidOrderItemStatus(t *testing.T) {
	valid := []string{"pending", "preparing", "ready", "served"}
	for _, s := range valid {
		if !IsValidOrderItemStatus(s) {
			t.Errorf("IsValidOrderItemStatus(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "cancelled", "done", "READY"}
	for _, s := range invalid {
		if IsValidOrderItemStatus(s) {
			t.Errorf("IsValidOrderItemStatus(%q) = true, want false", s)
		}
	}
}

func TestIsValidOrderType(t *testing.T) {
	valid := []string{"dine-in", "takeaway", "delivery"}
	for _, s := range valid {
		if !IsValidOrderType(s) {
			t.Errorf("IsValidOrderType(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "dinein", "pickup"}
	for _, s := range invalid {
		if IsValidOrderType(s) {
			t.Errorf("IsValidOrderType(%q) = true, want false", s)
		}
	}
}

func TestIsValidOrderSource(t *testing.T) {
	valid := []string{"customer", "cashier", "admin"}
	for _, s := range valid {
		if !IsValidOrderSource(s) {
			t.Errorf("IsValidOrderSource(%q) = false, want true", s)
		}
	}
	if IsValidOrderSource("kitchen") {
		t.Error(`IsValidOrderSource("kitchen") = true, want false`)
	}
}
