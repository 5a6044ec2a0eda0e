package models

import "time"

// TableStatus is derived from active-order membership, never set independently.
type TableStatus string

const (
	TableStatusAvailable   TableStatus = "available"
	TableStatusOccupied    TableStatus = "occupied"
	TableStatusUnavailable TableStatus = "unavailable"
)

// IsValidTableStatus checks if the provided status string is a valid TableStatus.
func IsValidTableStatus(status string) bool {
	switch TableStatus(status) {
	case TableStatusAvailable, TableStatusOccupied, TableStatusUnavailable:
		return true
	default:
		return false
	}
}

// Table represents a physical seating unit.
type Table struct {
	ID          int64       `json:"id" db:"id"`
	TableNumber int         `json:"table_number" db:"table_number" binding:"required"`
	Name        string      `json:"name" db:"name" binding:"required"`
	Capacity    int         `json:"capacity" db:"capacity"`
	Status      TableStatus `json:"status" db:"status"`
	Location    string      `json:"location" db:"location"`
	QRCode      string      `json:"qr_code" db:"qr_code"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`

	// CurrentOrders holds the non-terminal orders referencing this table.
	CurrentOrders []Order `json:"current_orders,omitempty"`
}
