package services

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"restaurant_pos_backend/internal/models"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name      string
		subtotal  float64
		discount  float64
		wantTax   float64
		wantTotal float64
	}{
		{
			name:      "no discount",
			subtotal:  100.00,
			wantTax:   5.00,
			wantTotal: 105.00,
		},
		{
			name:      "with discount",
			subtotal:  200.00,
			discount:  20.00,
			wantTax:   10.00,
			wantTotal: 190.00,
		},
		{
			name:      "tax rounds to two decimals",
			subtotal:  99.99,
			wantTax:   5.00, // 4.9995 rounds up
			wantTotal: 104.99,
		},
		{
			name:      "zero subtotal",
			subtotal:  0,
			wantTax:   0,
			wantTotal: 0,
		},
		{
			name:      "discount exceeding subtotal goes negative",
			subtotal:  10.00,
			discount:  20.00,
			wantTax:   0.50,
			wantTotal: -9.50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, total := computeTotals(tt.subtotal, tt.discount)
			if tax != tt.wantTax {
				t.Errorf("computeTotals(%v, %v) tax = %v, want %v", tt.subtotal, tt.discount, tax, tt.wantTax)
			}
			if total != tt.wantTotal {
				t.Errorf("computeTotals(%v, %v) total = %v, want %v", tt.subtotal, tt.discount, total, tt.wantTotal)
			}
		})
	}
}

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		seq  int64
		want string
	}{
		{"first of day", 1, "ORD-20250307-0001"},
		{"zero padded", 42, "ORD-20250307-0042"},
		{"four digits", 1234, "ORD-20250307-1234"},
		{"overflows padding gracefully", 10001, "ORD-20250307-10001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatOrderNumber(day, tt.seq); got != tt.want {
				t.Errorf("formatOrderNumber(%v, %d) = %q, want %q", day, tt.seq, got, tt.want)
			}
		})
	}
}

func TestFallbackOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{13}-\d{3}$`)
	now := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)

	got := fallbackOrderNumber(now)
	if !pattern.MatchString(got) {
		t.Errorf("fallbackOrderNumber(%v) = %q, want match for %q", now, got, pattern)
	}
}

func TestGuardContentEdit(t *testing.T) {
	tests := []struct {
		name    string
		status  models.OrderStatus
		wantErr error
	}{
		{"pending order accepts edits", models.OrderStatusPending, nil},
		{"cancelled order accepts edits", models.OrderStatusCancelled, nil},
		{"served order refuses edits", models.OrderStatusServed, ErrOrderServed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guardContentEdit(tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("guardContentEdit(%q) = %v, want %v", tt.status, err, tt.wantErr)
			}
		})
	}
}

func TestGuardCancel(t *testing.T) {
	tests := []struct {
		name    string
		status  models.OrderStatus
		wantErr error
	}{
		{"pending order can be cancelled", models.OrderStatusPending, nil},
		{"cancelling twice is allowed", models.OrderStatusCancelled, nil},
		{"served order cannot be cancelled", models.OrderStatusServed, ErrCannotCancelServed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guardCancel(tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("guardCancel(%q) = %v, want %v", tt.status, err, tt.wantErr)
			}
		})
	}
}

func TestLinesSubtotal(t *testing.T) {
	lines := func(pairs ...[2]float64) []models.OrderItem {
		out := make([]models.OrderItem, len(pairs))
		for i, p := range pairs {
			out[i] = models.OrderItem{Price: p[0], Quantity: int(p[1])}
		}
		return out
	}

	tests := []struct {
		name  string
		items []models.OrderItem
		want  float64
	}{
		{"empty", nil, 0},
		{"single line", lines([2]float64{12.50, 2}), 25.00},
		{"several lines", lines([2]float64{9.99, 3}, [2]float64{4.25, 1}, [2]float64{0.75, 4}), 37.22},
		{"rounds accumulated drift", lines([2]float64{0.1, 1}, [2]float64{0.2, 1}), 0.30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := linesSubtotal(tt.items); got != tt.want {
				t.Errorf("linesSubtotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOrderNumberRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"ORD-20250307-0001", true},
		{"ORD-1741357800000-042", true},
		{"123", false},
		{"", false},
		{"ord-20250307-0001", false},
	}

	for _, tt := range tests {
		if got := isOrderNumberRef(tt.ref); got != tt.want {
			t.Errorf("isOrderNumberRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
