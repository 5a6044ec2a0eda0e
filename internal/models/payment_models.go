package models

import "time"

// PaymentMethod enumerates the accepted settlement methods. "pending" is the
// placeholder before any settlement is recorded on an order.
type PaymentMethod string

const (
	MethodCash    PaymentMethod = "cash"
	MethodCard    PaymentMethod = "card"
	MethodUPI     PaymentMethod = "upi"
	MethodWallet  PaymentMethod = "wallet"
	MethodPending PaymentMethod = "pending"
)

// IsValidPaymentMethod checks a settlement method supplied by a client.
// "pending" is not acceptable as an explicit settlement method.
func IsValidPaymentMethod(method string) bool {
	switch PaymentMethod(method) {
	case MethodCash, MethodCard, MethodUPI, MethodWallet:
		return true
	default:
		return false
	}
}

// PaymentStatus is the payment state carried on the order itself.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentRecordStatus is the state of an individual Payment ledger entry.
type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "pending"
	PaymentRecordCompleted PaymentRecordStatus = "completed"
	PaymentRecordFailed    PaymentRecordStatus = "failed"
	PaymentRecordRefunded  PaymentRecordStatus = "refunded"
)

// Payment is one cashier-processed settlement attempt. Append-only.
type Payment struct {
	ID            int64               `json:"id" db:"id"`
	OrderID       int64               `json:"order_id" db:"order_id"`
	Amount        float64             `json:"amount" db:"amount"`
	PaymentMethod PaymentMethod       `json:"payment_method" db:"payment_method"`
	TransactionID string              `json:"transaction_id" db:"transaction_id"`
	Status        PaymentRecordStatus `json:"status" db:"status"`
	ProcessedBy   int64               `json:"processed_by" db:"processed_by"`
	Notes         string              `json:"notes" db:"notes"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`

	Processor *User `json:"processor,omitempty"`
}

// TransactionType distinguishes sales from refunds in the audit ledger.
type TransactionType string

const (
	TransactionSale   TransactionType = "sale"
	TransactionRefund TransactionType = "refund"
)

// TransactionStatus is the state of a Transaction ledger entry.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is one completed sale/refund event in the self-service flow.
// Order number and amount are denormalized so the audit trail survives later
// order mutation. Append-only.
type Transaction struct {
	ID            int64             `json:"id" db:"id"`
	OrderID       int64             `json:"order_id" db:"order_id"`
	OrderNumber   string            `json:"order_number" db:"order_number"`
	Amount        float64           `json:"amount" db:"amount"`
	PaymentMethod PaymentMethod     `json:"payment_method" db:"payment_method"`
	Type          TransactionType   `json:"type" db:"type"`
	Status        TransactionStatus `json:"status" db:"status"`
	TransactionID string            `json:"transaction_id" db:"transaction_id"`
	ProcessedBy   *int64            `json:"processed_by,omitempty" db:"processed_by"`
	Notes         string            `json:"notes" db:"notes"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`

	Processor *User `json:"processor,omitempty"`
}

// DailySummary aggregates a day's cashier activity.
type DailySummary struct {
	Date             string             `json:"date"`
	TotalOrders      int                `json:"total_orders"`
	ServedOrders     int                `json:"served_orders"`
	PendingOrders    int                `json:"pending_orders"`
	TotalSales       float64            `json:"total_sales"`
	TotalTax         float64            `json:"total_tax"`
	TotalDiscount    float64            `json:"total_discount"`
	PaymentBreakdown map[string]float64 `json:"payment_breakdown"`
}
