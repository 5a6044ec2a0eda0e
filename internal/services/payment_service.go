package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"
)

// SettlementMode identifies one of the three designed settlement flows. All
// modes share the same transaction-recording primitive; they differ only in
// their entry guard and in what they do to the order lifecycle.
type SettlementMode string

const (
	// ModePayAhead records payment without closing the order, so the kitchen
	// can keep fulfilling it (self-service pay-ahead).
	ModePayAhead SettlementMode = "pay-ahead"
	// ModeImmediateClose records payment and closes the order in one step
	// (cashier immediate close).
	ModeImmediateClose SettlementMode = "immediate-close"
	// ModeCashierTwoStep records a Payment tied to a staff user; closure is a
	// separate call that requires the completed payment to exist.
	ModeCashierTwoStep SettlementMode = "cashier-two-step"
)

// SettlementRequest is the client payload for the payment endpoints.
type SettlementRequest struct {
	PaymentMethod string   `json:"payment_method"`
	Method        string   `json:"method"` // accepted alias for payment_method
	Amount        *float64 `json:"amount"`
	TransactionID string   `json:"transaction_id"`
	Notes         string   `json:"notes"`
}

// ResolveMethod returns the settlement method, honoring both accepted keys.
func (r SettlementRequest) ResolveMethod() string {
	if r.PaymentMethod != "" {
		return r.PaymentMethod
	}
	return r.Method
}

// SettlementResult pairs the updated order with its ledger entry.
type SettlementResult struct {
	Order       *models.Order       `json:"order"`
	Transaction *models.Transaction `json:"transaction"`
}

// PaymentService owns the payment/transaction ledger and the three
// settlement flows, plus the cashier's table/summary operations.
type PaymentService interface {
	CreatePayment(ref string, req SettlementRequest, processedBy *int64) (*SettlementResult, error)
	ProcessOrderPayment(ref string, req SettlementRequest, processedBy *int64) (*SettlementResult, error)
	ProcessPayment(orderID int64, req SettlementRequest, processedBy int64) (*models.Payment, error)
	CloseOrder(orderID int64) (*models.Order, error)
	GetOrderPayments(orderID int64) ([]models.Payment, error)
	GetDailySummary() (*models.DailySummary, error)
	ClearTable(tableID int64) (*models.Table, error)
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
	tableRepo   repositories.TableRepository
	db          *sql.DB
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(
	pr repositories.PaymentRepository,
	or repositories.OrderRepository,
	tr repositories.TableRepository,
	db *sql.DB,
) PaymentService {
	return &paymentService{
		paymentRepo: pr,
		orderRepo:   or,
		tableRepo:   tr,
		db:          db,
	}
}

// --- Pure settlement helpers ---

// guardSettlement is the mode-parameterized precondition check.
//
// Pay-ahead refuses an already paid order. Immediate close refuses only when
// the order is both paid and served: a paid-but-open order is reprocessed so
// an interrupted close can be corrected. The two-step record has no entry
// guard; its hard precondition sits on closure instead.
func guardSettlement(order *models.Order, mode SettlementMode) error {
	switch mode {
	case ModePayAhead:
		if order.PaymentStatus == models.PaymentStatusPaid {
			return ErrOrderAlreadyPaid
		}
	case ModeImmediateClose:
		if order.PaymentStatus == models.PaymentStatusPaid && order.Status == models.OrderStatusServed {
			return ErrOrderAlreadyClosed
		}
	case ModeCashierTwoStep:
		if order.Status == models.OrderStatusServed {
			return ErrOrderAlreadyServed
		}
	}
	return nil
}

// resolveSettlementAmount picks the authoritative amount for a settlement.
// Client amounts are advisory on untrusted paths: a mismatch is reported but
// the order total wins. Staffed two-step payments accept the client amount.
func resolveSettlementAmount(orderTotal float64, clientAmount *float64, trustClient bool) (amount float64, mismatch bool) {
	if clientAmount == nil || *clientAmount == 0 {
		return orderTotal, false
	}
	if trustClient {
		return *clientAmount, false
	}
	if *clientAmount != orderTotal {
		return orderTotal, true
	}
	return orderTotal, false
}

// defaultTransactionID generates a reference when the client supplies none.
func defaultTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN-%d", now.UnixMilli())
}

// --- Flow implementations ---

// settle runs the shared record-payment primitive for the transaction-ledger
// modes (pay-ahead and immediate close).
func (s *paymentService) settle(order *models.Order, req SettlementRequest, mode SettlementMode, processedBy *int64) (*SettlementResult, error) {
	method := req.ResolveMethod()
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	if !models.IsValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: payment method %q", ErrValidation, method)
	}
	if err := guardSettlement(order, mode); err != nil {
		return nil, err
	}

	amount, mismatch := resolveSettlementAmount(order.Total, req.Amount, false)
	if mismatch {
		utils.LogWarn("Payment amount mismatch, using order total", map[string]interface{}{
			"order_number": order.OrderNumber,
			"provided":     *req.Amount,
			"order_total":  order.Total,
		})
	}

	now := time.Now()
	txnID := req.TransactionID
	if txnID == "" {
		txnID = defaultTransactionID(now)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	alsoServe := mode == ModeImmediateClose
	if err := s.orderRepo.MarkOrderPaid(tx, order.ID, models.PaymentMethod(method), now, alsoServe); err != nil {
		return nil, fmt.Errorf("failed to mark order %d paid: %w", order.ID, err)
	}

	txn := models.Transaction{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Amount:        amount,
		PaymentMethod: models.PaymentMethod(method),
		Type:          models.TransactionSale,
		Status:        models.TransactionCompleted,
		TransactionID: txnID,
		ProcessedBy:   processedBy,
		Notes:         req.Notes,
		CreatedAt:     now,
	}
	if _, err := s.paymentRepo.CreateTransaction(tx, &txn); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	// Immediate close releases the seat only for cashier-sourced orders;
	// customer-placed orders are tracked by table membership, not closed here.
	if alsoServe && order.OrderSource == models.SourceCashier &&
		order.TableID != nil && order.OrderType == models.OrderTypeDineIn {
		if err := s.tableRepo.SyncTableStatus(tx, *order.TableID); err != nil {
			return nil, fmt.Errorf("failed to sync table occupancy: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	updated, err := s.orderRepo.GetOrderByID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch settled order: %w", err)
	}
	recorded, err := s.paymentRepo.GetTransactionByID(txn.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recorded transaction: %w", err)
	}
	return &SettlementResult{Order: updated, Transaction: recorded}, nil
}

// CreatePayment is the self-service pay-ahead flow: payment is recorded but
// the order stays open for kitchen fulfillment.
func (s *paymentService) CreatePayment(ref string, req SettlementRequest, processedBy *int64) (*SettlementResult, error) {
	order, err := s.resolveOrder(ref)
	if err != nil {
		return nil, err
	}
	return s.settle(order, req, ModePayAhead, processedBy)
}

// ProcessOrderPayment is the immediate-close flow: payment and closure in one
// caller-visible step.
func (s *paymentService) ProcessOrderPayment(ref string, req SettlementRequest, processedBy *int64) (*SettlementResult, error) {
	order, err := s.resolveOrder(ref)
	if err != nil {
		return nil, err
	}
	return s.settle(order, req, ModeImmediateClose, processedBy)
}

// ProcessPayment records a cashier Payment ledger entry. The order is not
// closed; CloseOrder must be called explicitly.
func (s *paymentService) ProcessPayment(orderID int64, req SettlementRequest, processedBy int64) (*models.Payment, error) {
	method := req.ResolveMethod()
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	if !models.IsValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: payment method %q", ErrValidation, method)
	}

	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	if err := guardSettlement(order, ModeCashierTwoStep); err != nil {
		return nil, err
	}

	amount, _ := resolveSettlementAmount(order.Total, req.Amount, true)
	now := time.Now()
	payment := models.Payment{
		OrderID:       order.ID,
		Amount:        amount,
		PaymentMethod: models.PaymentMethod(method),
		TransactionID: req.TransactionID,
		Status:        models.PaymentRecordCompleted,
		ProcessedBy:   processedBy,
		Notes:         req.Notes,
		CreatedAt:     now,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.paymentRepo.CreatePayment(tx, &payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if err := s.orderRepo.MarkOrderAccepted(tx, order.ID, processedBy, now); err != nil {
		return nil, fmt.Errorf("failed to mark order %d accepted: %w", order.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}
	return &payment, nil
}

// CloseOrder finishes the two-step flow. Closure without a recorded completed
// payment is a hard fault on this path.
func (s *paymentService) CloseOrder(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	if order.Status == models.OrderStatusServed {
		return nil, ErrOrderAlreadyServed
	}

	hasPayment, err := s.paymentRepo.HasCompletedPayment(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check payments for order %d: %w", order.ID, err)
	}
	if !hasPayment {
		return nil, ErrPaymentRequired
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if err := s.orderRepo.UpdateOrderStatus(tx, order.ID, models.OrderStatusServed, &now, now); err != nil {
		return nil, fmt.Errorf("failed to close order %d: %w", order.ID, err)
	}
	if order.TableID != nil && order.OrderType == models.OrderTypeDineIn {
		if err := s.tableRepo.SyncTableStatus(tx, *order.TableID); err != nil {
			return nil, fmt.Errorf("failed to sync table occupancy: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit close: %w", err)
	}

	closed, err := s.orderRepo.GetOrderByID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch closed order: %w", err)
	}
	return closed, nil
}

func (s *paymentService) GetOrderPayments(orderID int64) ([]models.Payment, error) {
	payments, err := s.paymentRepo.GetPaymentsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments for order %d: %w", orderID, err)
	}
	return payments, nil
}

func (s *paymentService) GetDailySummary() (*models.DailySummary, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)

	summary, err := s.paymentRepo.GetDailySummary(startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily summary: %w", err)
	}
	return summary, nil
}

// ClearTable finalizes a table once none of its orders are still pending.
func (s *paymentService) ClearTable(tableID int64) (*models.Table, error) {
	if _, err := s.tableRepo.GetTableByID(tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}

	active, err := s.orderRepo.GetActiveOrdersByTable(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active orders for table %d: %w", tableID, err)
	}
	if len(active) > 0 {
		return nil, fmt.Errorf("%w: %d orders must be served or cancelled first", ErrTableHasPendingOrders, len(active))
	}

	if err := s.tableRepo.SyncTableStatus(s.db, tableID); err != nil {
		return nil, fmt.Errorf("failed to sync table %d: %w", tableID, err)
	}

	table, err := s.tableRepo.GetTableByID(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cleared table: %w", err)
	}
	return table, nil
}

// resolveOrder mirrors the order engine's dual-reference lookup for payment
// endpoints that accept either form.
func (s *paymentService) resolveOrder(ref string) (*models.Order, error) {
	if utils.IsEmpty(ref) {
		return nil, fmt.Errorf("%w: order reference is required", ErrValidation)
	}
	var (
		order *models.Order
		err   error
	)
	if isOrderNumberRef(ref) {
		order, err = s.orderRepo.GetOrderByNumber(ref)
	} else {
		orderID, convErr := utils.StrToInt64(ref)
		if convErr != nil {
			return nil, fmt.Errorf("%w: invalid order reference %q", ErrValidation, ref)
		}
		order, err = s.orderRepo.GetOrderByID(orderID)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", ref, err)
	}
	return order, nil
}
