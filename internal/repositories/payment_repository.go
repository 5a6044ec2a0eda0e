package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_pos_backend/internal/models"
)

// PaymentRepository defines the interface for the payment/transaction ledger.
// Both tables are append-only: there are no update or delete methods.
type PaymentRepository interface {
	CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error)
	GetPaymentsByOrderID(orderID int64) ([]models.Payment, error)
	HasCompletedPayment(orderID int64) (bool, error)
	CreateTransaction(executor SQLExecutor, txn *models.Transaction) (int64, error)
	GetTransactionByID(txnID int64) (*models.Transaction, error)
	GetDailySummary(startOfDay, endOfDay time.Time) (*models.DailySummary, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments (order_id, amount, payment_method, transaction_id, status, processed_by, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		payment.OrderID, payment.Amount, payment.PaymentMethod, payment.TransactionID,
		payment.Status, payment.ProcessedBy, payment.Notes, payment.CreatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating payment for order %d: %v", ErrDatabaseError, payment.OrderID, err)
	}
	return payment.ID, nil
}

func (r *paymentRepository) GetPaymentsByOrderID(orderID int64) ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT p.id, p.order_id, p.amount, p.payment_method, p.transaction_id, p.status,
	                 p.processed_by, p.notes, p.created_at, u.full_name
	          FROM payments p
	          LEFT JOIN users u ON p.processed_by = u.id
	          WHERE p.order_id = $1
	          ORDER BY p.created_at`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying payments for order %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Payment
		var processorName sql.NullString
		err := rows.Scan(
			&p.ID, &p.OrderID, &p.Amount, &p.PaymentMethod, &p.TransactionID, &p.Status,
			&p.ProcessedBy, &p.Notes, &p.CreatedAt, &processorName,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning payment for order %d: %v", ErrDatabaseError, orderID, err)
		}
		if processorName.Valid {
			p.Processor = &models.User{ID: p.ProcessedBy, FullName: processorName.String}
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payments for order %d: %v", ErrDatabaseError, orderID, err)
	}
	return payments, nil
}

func (r *paymentRepository) HasCompletedPayment(orderID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE order_id = $1 AND status = 'completed')`
	if err := r.db.QueryRow(query, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking completed payment for order %d: %v", ErrDatabaseError, orderID, err)
	}
	return exists, nil
}

func (r *paymentRepository) CreateTransaction(executor SQLExecutor, txn *models.Transaction) (int64, error) {
	query := `INSERT INTO transactions
	            (order_id, order_number, amount, payment_method, type, status, transaction_id, processed_by, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		txn.OrderID, txn.OrderNumber, txn.Amount, txn.PaymentMethod, txn.Type, txn.Status,
		txn.TransactionID, txn.ProcessedBy, txn.Notes, txn.CreatedAt,
	).Scan(&txn.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating transaction for order %d: %v", ErrDatabaseError, txn.OrderID, err)
	}
	return txn.ID, nil
}

func (r *paymentRepository) GetTransactionByID(txnID int64) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var processorName sql.NullString
	query := `SELECT t.id, t.order_id, t.order_number, t.amount, t.payment_method, t.type, t.status,
	                 t.transaction_id, t.processed_by, t.notes, t.created_at, u.full_name
	          FROM transactions t
	          LEFT JOIN users u ON t.processed_by = u.id
	          WHERE t.id = $1`
	err := r.db.QueryRow(query, txnID).Scan(
		&txn.ID, &txn.OrderID, &txn.OrderNumber, &txn.Amount, &txn.PaymentMethod, &txn.Type, &txn.Status,
		&txn.TransactionID, &txn.ProcessedBy, &txn.Notes, &txn.CreatedAt, &processorName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting transaction %d: %v", ErrDatabaseError, txnID, err)
	}
	if processorName.Valid && txn.ProcessedBy != nil {
		txn.Processor = &models.User{ID: *txn.ProcessedBy, FullName: processorName.String}
	}
	return txn, nil
}

func (r *paymentRepository) GetDailySummary(startOfDay, endOfDay time.Time) (*models.DailySummary, error) {
	summary := &models.DailySummary{
		Date:             startOfDay.Format("2006-01-02"),
		PaymentBreakdown: map[string]float64{"cash": 0, "card": 0, "upi": 0, "wallet": 0},
	}

	orderQuery := `SELECT
	                 COUNT(*),
	                 COUNT(*) FILTER (WHERE status = 'served'),
	                 COUNT(*) FILTER (WHERE status = 'pending'),
	                 COALESCE(SUM(total) FILTER (WHERE status = 'served'), 0),
	                 COALESCE(SUM(tax) FILTER (WHERE status = 'served'), 0),
	                 COALESCE(SUM(discount) FILTER (WHERE status = 'served'), 0)
	               FROM orders
	               WHERE created_at BETWEEN $1 AND $2 AND status <> 'cancelled'`
	err := r.db.QueryRow(orderQuery, startOfDay, endOfDay).Scan(
		&summary.TotalOrders, &summary.ServedOrders, &summary.PendingOrders,
		&summary.TotalSales, &summary.TotalTax, &summary.TotalDiscount,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying daily order summary: %v", ErrDatabaseError, err)
	}

	// The two ledgers are disjoint by flow: transactions hold the public
	// settlements, payments hold the staffed two-step ones.
	breakdownQuery := `SELECT payment_method, COALESCE(SUM(amount), 0)
	                   FROM (
	                     SELECT payment_method, amount FROM payments
	                     WHERE created_at BETWEEN $1 AND $2 AND status = 'completed'
	                     UNION ALL
	                     SELECT payment_method, amount FROM transactions
	                     WHERE created_at BETWEEN $1 AND $2 AND status = 'completed' AND type = 'sale'
	                   ) settled
	                   GROUP BY payment_method`
	rows, err := r.db.Query(breakdownQuery, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("%w: querying payment breakdown: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var method string
		var amount float64
		if err := rows.Scan(&method, &amount); err != nil {
			return nil, fmt.Errorf("%w: scanning payment breakdown: %v", ErrDatabaseError, err)
		}
		summary.PaymentBreakdown[method] = amount
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payment breakdown: %v", ErrDatabaseError, err)
	}
	return summary, nil
}
