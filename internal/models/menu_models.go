package models

import (
	"time"

	"github.com/lib/pq"
)

// MenuCategory groups menu items.
type MenuCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Description string    `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItem is a catalog entry. The order engine consumes it read-only to
// validate and price order lines.
type MenuItem struct {
	ID              int64          `json:"id" db:"id"`
	CategoryID      int64          `json:"category_id" db:"category_id"`
	Name            string         `json:"name" db:"name"`
	Description     string         `json:"description" db:"description"`
	Price           float64        `json:"price" db:"price"`
	Stock           int            `json:"stock" db:"stock"`
	Threshold       int            `json:"threshold" db:"threshold"`
	IsAvailable     bool           `json:"is_available" db:"is_available"`
	IsVeg           bool           `json:"is_veg" db:"is_veg"`
	PreparationTime int            `json:"preparation_time" db:"preparation_time"` // minutes
	Tags            pq.StringArray `json:"tags" db:"tags"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`

	Category *MenuCategory `json:"category,omitempty"`
}

// IsLowStock reports whether the item has fallen to or below its threshold.
func (m *MenuItem) IsLowStock() bool {
	return m.Stock <= m.Threshold
}
