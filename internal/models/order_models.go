package models

import "time"

// OrderStatus is the customer/cashier-facing lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValidOrderStatus checks if the provided status string is a valid OrderStatus.
func IsValidOrderStatus(status string) bool {
	switch OrderStatus(status) {
	case OrderStatusPending, OrderStatusServed, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the order can no longer accept content edits.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusServed || s == OrderStatusCancelled
}

// KitchenStatus tracks preparation progress on the order as a whole.
// It is kept separate from OrderStatus so kitchen aggregation never
// widens the lifecycle enum.
type KitchenStatus string

const (
	KitchenStatusPending   KitchenStatus = "pending"
	KitchenStatusPreparing KitchenStatus = "preparing"
	KitchenStatusReady     KitchenStatus = "ready"
)

// OrderItemStatus is the preparation state of a single order line.
type OrderItemStatus string

const (
	ItemStatusPending   OrderItemStatus = "pending"
	ItemStatusPreparing OrderItemStatus = "preparing"
	ItemStatusReady     OrderItemStatus = "ready"
	ItemStatusServed    OrderItemStatus = "served"
)

// IsValidOrderItemStatus checks if the provided status string is a valid OrderItemStatus.
func IsValidOrderItemStatus(status string) bool {
	switch OrderItemStatus(status) {
	case ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusServed:
		return true
	default:
		return false
	}
}

// OrderType distinguishes seating from takeaway/delivery flows.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

// IsValidOrderType checks if the provided string is a valid OrderType.
func IsValidOrderType(orderType string) bool {
	switch OrderType(orderType) {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	default:
		return false
	}
}

// OrderSource records which surface placed the order.
type OrderSource string

const (
	SourceCustomer OrderSource = "customer"
	SourceCashier  OrderSource = "cashier"
	SourceAdmin    OrderSource = "admin"
)

// IsValidOrderSource checks if the provided string is a valid OrderSource.
func IsValidOrderSource(source string) bool {
	switch OrderSource(source) {
	case SourceCustomer, SourceCashier, SourceAdmin:
		return true
	default:
		return false
	}
}

// Order represents one customer transaction.
type Order struct {
	ID            int64         `json:"id" db:"id"`
	OrderNumber   string        `json:"order_number" db:"order_number"`
	TableID       *int64        `json:"table_id,omitempty" db:"table_id"`
	TableNumber   *int          `json:"table_number,omitempty" db:"table_number"` // snapshot at creation
	CustomerName  string        `json:"customer_name" db:"customer_name"`
	CustomerPhone string        `json:"customer_phone" db:"customer_phone"`
	OrderType     OrderType     `json:"order_type" db:"order_type"`
	OrderSource   OrderSource   `json:"order_source" db:"order_source"`
	Status        OrderStatus   `json:"status" db:"status"`
	KitchenStatus KitchenStatus `json:"kitchen_status" db:"kitchen_status"`
	Subtotal      float64       `json:"subtotal" db:"subtotal"`
	Tax           float64       `json:"tax" db:"tax"`
	Discount      float64       `json:"discount" db:"discount"`
	Total         float64       `json:"total" db:"total"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	Notes         string        `json:"notes" db:"notes"`
	CreatedBy     *int64        `json:"created_by,omitempty" db:"created_by"`
	AcceptedBy    *int64        `json:"accepted_by,omitempty" db:"accepted_by"`
	PaidAt        *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	AcceptedAt    *time.Time    `json:"accepted_at,omitempty" db:"accepted_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`

	Table      *Table      `json:"table,omitempty"`
	OrderItems []OrderItem `json:"order_items,omitempty"`
}

// OrderItem is one priced, quantity-bearing line within an order.
// Price is a snapshot taken at order time so later menu changes do
// not rewrite historical orders.
type OrderItem struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"order_id" db:"order_id"`
	MenuItemID int64           `json:"menu_item_id" db:"menu_item_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	Price      float64         `json:"price" db:"price"`
	Status     OrderItemStatus `json:"status" db:"status"`
	Notes      string          `json:"notes" db:"notes"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`

	MenuItem *MenuItem `json:"menu_item,omitempty"`
	Order    *Order    `json:"order,omitempty"`
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	Statuses  []string   `form:"-"`
	OrderType *string    `form:"order_type"`
	TableID   *int64     `form:"table_id"`
	StartDate *time.Time `form:"-"`
	EndDate   *time.Time `form:"-"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// KitchenStats summarizes the active kitchen workload.
type KitchenStats struct {
	ActiveOrders   int `json:"active_orders"`
	PendingItems   int `json:"pending_items"`
	PreparingItems int `json:"preparing_items"`
	ReadyItems     int `json:"ready_items"`
	CompletedToday int `json:"completed_today"`
}
