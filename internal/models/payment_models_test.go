package models

import "testing"

func TestIsValidPaymentMethod(t *testing.T) {
	valid := []string{"cash", "card", "upi", "wallet"}
	for _, m := range valid {
		if !IsValidPaymentMethod(m) {
			t.Errorf("IsValidPaymentMethod(%q) = false, want true", m)
		}
	}

	// "pending" is the unset placeholder, never a settlement method.
	invalid := []string{"pending", "", "crypto", "CASH"}
	for _, m := range invalid {
		if IsValidPaymentMethod(m) {
			t.Errorf("IsValidPaymentMethod(%q) = true, want false", m)
		}
	}
}
