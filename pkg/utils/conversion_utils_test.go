package utils

import "testing"

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"already two decimals", 10.25, 10.25},
		{"rounds up", 10.256, 10.26},
		{"rounds down", 10.254, 10.25},
		{"repeated addition drift", 0.1 + 0.2, 0.3},
		{"negative amount", -9.556, -9.56},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundMoney(tt.amount); got != tt.want {
				t.Errorf("RoundMoney(%v) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestStrToInt64(t *testing.T) {
	if got, err := StrToInt64("42"); err != nil || got != 42 {
		t.Errorf("StrToInt64(\"42\") = %v, %v; want 42, nil", got, err)
	}
	if _, err := StrToInt64("ORD-20250307-0001"); err == nil {
		t.Error("StrToInt64 on an order number should fail")
	}
	if _, err := StrToInt64(""); err == nil {
		t.Error("StrToInt64 on empty string should fail")
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"x", false},
		{" x ", false},
	}

	for _, tt := range tests {
		if got := IsEmpty(tt.s); got != tt.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
