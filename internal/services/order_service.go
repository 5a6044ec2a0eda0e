package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"
)

// TaxRate is the fixed tax applied to every order subtotal.
const TaxRate = 0.05

// orderNumberPrefix marks human-readable order references on the wire.
const orderNumberPrefix = "ORD-"

// --- DTOs ---

// CreateOrderLineRequest is one requested order line. Price is never taken
// from the client; it is resolved from the menu at creation time.
type CreateOrderLineRequest struct {
	MenuItemID int64  `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	Notes      string `json:"notes"`
}

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	Items         []CreateOrderLineRequest `json:"items" binding:"required,dive"`
	TableID       *int64                   `json:"table_id"`
	CustomerName  string                   `json:"customer_name"`
	CustomerPhone string                   `json:"customer_phone"`
	OrderType     string                   `json:"order_type"`
	OrderSource   string                   `json:"order_source"`
	Notes         string                   `json:"notes"`

	// CreatedBy is set by the handler from the authenticated staff identity,
	// never from the request body.
	CreatedBy *int64 `json:"-"`
}

// UpdateOrderRequest patches an existing order. A non-nil Items slice
// replaces every existing line.
type UpdateOrderRequest struct {
	CustomerName  *string                  `json:"customer_name"`
	CustomerPhone *string                  `json:"customer_phone"`
	Notes         *string                  `json:"notes"`
	Discount      *float64                 `json:"discount"`
	Items         []CreateOrderLineRequest `json:"items"`
}

// UpdateOrderStatusRequest carries the target lifecycle status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderWithItems pairs an order with its resolved lines.
type OrderWithItems struct {
	Order *models.Order      `json:"order"`
	Items []models.OrderItem `json:"items"`
}

// --- OrderService interface ---

type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*OrderWithItems, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrder(ref string) (*OrderWithItems, error)
	UpdateOrder(ref string, req UpdateOrderRequest) (*OrderWithItems, error)
	UpdateOrderStatus(ref string, req UpdateOrderStatusRequest) (*models.Order, error)
	CancelOrder(ref string) (*models.Order, error)
	GetOrdersByTable(tableID int64) ([]OrderWithItems, error)
	ResolveOrder(ref string) (*models.Order, error)
}

type orderService struct {
	orderRepo repositories.OrderRepository
	menuRepo  repositories.MenuRepository
	tableRepo repositories.TableRepository
	db        *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	mr repositories.MenuRepository,
	tr repositories.TableRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo: or,
		menuRepo:  mr,
		tableRepo: tr,
		db:        db,
	}
}

// --- Pure helpers ---

// computeTotals derives tax and total from a subtotal and discount.
func computeTotals(subtotal, discount float64) (tax, total float64) {
	tax = utils.RoundMoney(subtotal * TaxRate)
	total = utils.RoundMoney(subtotal + tax - discount)
	return tax, total
}

// formatOrderNumber renders the daily sequence as ORD-YYYYMMDD-NNNN.
func formatOrderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%04d", orderNumberPrefix, day.Format("20060102"), seq)
}

// fallbackOrderNumber produces a degraded but still unique reference when the
// daily counter cannot be advanced.
func fallbackOrderNumber(now time.Time) string {
	return fmt.Sprintf("%s%d-%03d", orderNumberPrefix, now.UnixMilli(), rand.Intn(1000))
}

// isOrderNumberRef reports whether the reference is a human-readable order
// number rather than an internal id.
func isOrderNumberRef(ref string) bool {
	return strings.HasPrefix(ref, orderNumberPrefix)
}

// guardContentEdit refuses content edits once the order has been served.
func guardContentEdit(status models.OrderStatus) error {
	if status == models.OrderStatusServed {
		return ErrOrderServed
	}
	return nil
}

// guardCancel refuses cancellation once the order has been served.
func guardCancel(status models.OrderStatus) error {
	if status == models.OrderStatusServed {
		return ErrCannotCancelServed
	}
	return nil
}

// linesSubtotal sums price times quantity across priced lines.
func linesSubtotal(items []models.OrderItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return utils.RoundMoney(subtotal)
}

// --- Method implementations ---

// ResolveOrder accepts either an internal id or an ORD- prefixed order number.
func (s *orderService) ResolveOrder(ref string) (*models.Order, error) {
	if utils.IsEmpty(ref) {
		return nil, fmt.Errorf("%w: order reference is required", ErrValidation)
	}
	if isOrderNumberRef(ref) {
		order, err := s.orderRepo.GetOrderByNumber(ref)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, fmt.Errorf("failed to fetch order %s: %w", ref, err)
		}
		return order, nil
	}
	orderID, err := utils.StrToInt64(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid order reference %q", ErrValidation, ref)
	}
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	return order, nil
}

// priceLines resolves and prices requested lines against the live menu.
// Client-supplied prices are ignored by construction.
func (s *orderService) priceLines(lines []CreateOrderLineRequest) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, 0, fmt.Errorf("%w: quantity for item %d must be positive", ErrValidation, line.MenuItemID)
		}
		menuItem, err := s.menuRepo.GetItemByID(line.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, 0, fmt.Errorf("%w: item %d", ErrMenuItemNotFound, line.MenuItemID)
			}
			return nil, 0, fmt.Errorf("failed to fetch menu item %d: %w", line.MenuItemID, err)
		}
		if !menuItem.IsAvailable {
			return nil, 0, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, menuItem.Name)
		}

		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   line.Quantity,
			Price:      menuItem.Price,
			Status:     models.ItemStatusPending,
			Notes:      line.Notes,
		})
	}
	return items, linesSubtotal(items), nil
}

func (s *orderService) CreateOrder(req CreateOrderRequest) (*OrderWithItems, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = string(models.OrderTypeDineIn)
	}
	if !models.IsValidOrderType(orderType) {
		return nil, fmt.Errorf("%w: order type %q", ErrValidation, req.OrderType)
	}

	source := req.OrderSource
	if source == "" {
		source = string(models.SourceCustomer)
	}
	if !models.IsValidOrderSource(source) {
		return nil, fmt.Errorf("%w: order source %q", ErrValidation, req.OrderSource)
	}

	items, subtotal, err := s.priceLines(req.Items)
	if err != nil {
		return nil, err
	}
	tax, total := computeTotals(subtotal, 0)

	dineIn := orderType == string(models.OrderTypeDineIn)
	var tableNumber *int
	if req.TableID != nil && dineIn {
		table, err := s.tableRepo.GetTableByID(*req.TableID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrTableNotFound
			}
			return nil, fmt.Errorf("failed to fetch table %d: %w", *req.TableID, err)
		}
		if !table.IsActive {
			return nil, ErrTableInactive
		}
		if table.Status == models.TableStatusUnavailable {
			return nil, ErrTableUnavailable
		}
		tableNumber = &table.TableNumber
	}

	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		customerName = "Guest"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	order := models.Order{
		OrderNumber:   s.nextOrderNumber(tx, now),
		CustomerName:  customerName,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		OrderType:     models.OrderType(orderType),
		OrderSource:   models.OrderSource(source),
		Status:        models.OrderStatusPending,
		KitchenStatus: models.KitchenStatusPending,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      0,
		Total:         total,
		PaymentMethod: models.MethodPending,
		PaymentStatus: models.PaymentStatusPending,
		Notes:         req.Notes,
		CreatedBy:     req.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.TableID != nil && dineIn {
		order.TableID = req.TableID
		order.TableNumber = tableNumber
	}

	orderID, err := s.orderRepo.CreateOrder(tx, &order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	for i := range items {
		items[i].OrderID = orderID
		if _, err := s.orderRepo.CreateOrderItem(tx, &items[i]); err != nil {
			return nil, fmt.Errorf("failed to create order item (menu_item_id: %d): %w", items[i].MenuItemID, err)
		}
	}

	if order.TableID != nil {
		if err := s.tableRepo.SyncTableStatus(tx, *order.TableID); err != nil {
			return nil, fmt.Errorf("failed to sync table occupancy: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return s.fetchOrderWithItems(orderID)
}

// nextOrderNumber advances the atomic per-day counter. On failure it degrades
// to a timestamp-based reference instead of failing the order.
func (s *orderService) nextOrderNumber(executor repositories.SQLExecutor, now time.Time) string {
	seq, err := s.orderRepo.NextOrderSequence(executor, now)
	if err != nil {
		utils.LogWarn("Order counter unavailable, using fallback order number", map[string]interface{}{"error": err.Error()})
		return fallbackOrderNumber(now)
	}
	return formatOrderNumber(now, seq)
}

func (s *orderService) fetchOrderWithItems(orderID int64) (*OrderWithItems, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items for order %d: %w", orderID, err)
	}
	return &OrderWithItems{Order: order, Items: items}, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrder(ref string) (*OrderWithItems, error) {
	order, err := s.ResolveOrder(ref)
	if err != nil {
		return nil, err
	}
	return s.fetchOrderWithItems(order.ID)
}

func (s *orderService) UpdateOrder(ref string, req UpdateOrderRequest) (*OrderWithItems, error) {
	order, err := s.ResolveOrder(ref)
	if err != nil {
		return nil, err
	}
	if err := guardContentEdit(order.Status); err != nil {
		return nil, err
	}
	if req.Discount != nil && *req.Discount < 0 {
		return nil, fmt.Errorf("%w: discount must not be negative", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if req.Items != nil {
		if len(req.Items) == 0 {
			return nil, fmt.Errorf("%w: replacement items must not be empty", ErrValidation)
		}
		// Wholesale replace: every existing line goes, the new set is
		// validated and priced exactly like order creation.
		if _, err := s.orderRepo.DeleteOrderItemsByOrderID(tx, order.ID); err != nil {
			return nil, fmt.Errorf("failed to delete order items: %w", err)
		}
		newItems, subtotal, err := s.priceLines(req.Items)
		if err != nil {
			return nil, err
		}
		for i := range newItems {
			newItems[i].OrderID = order.ID
			if _, err := s.orderRepo.CreateOrderItem(tx, &newItems[i]); err != nil {
				return nil, fmt.Errorf("failed to create replacement order item: %w", err)
			}
		}
		discount := order.Discount
		if req.Discount != nil {
			discount = *req.Discount
		}
		order.Subtotal = subtotal
		order.Discount = discount
		order.Tax, order.Total = computeTotals(subtotal, discount)
	} else if req.Discount != nil {
		order.Discount = *req.Discount
		order.Total = utils.RoundMoney(order.Subtotal + order.Tax - order.Discount)
	}

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = *req.CustomerPhone
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if order.Total < 0 {
		return nil, fmt.Errorf("%w: discount exceeds order value", ErrValidation)
	}

	if err := s.orderRepo.UpdateOrderContent(tx, order); err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", order.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}

	return s.fetchOrderWithItems(order.ID)
}

func (s *orderService) UpdateOrderStatus(ref string, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: must be one of: pending, served, cancelled", ErrInvalidOrderStatus)
	}

	order, err := s.ResolveOrder(ref)
	if err != nil {
		return nil, err
	}

	newStatus := models.OrderStatus(req.Status)
	completedAt := order.CompletedAt
	now := time.Now()

	switch {
	case newStatus == models.OrderStatusServed:
		completedAt = &now
	case newStatus == models.OrderStatusPending && order.Status == models.OrderStatusServed:
		completedAt = nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderStatus(tx, order.ID, newStatus, completedAt, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	// Occupancy is recomputed from membership, so a served order releases its
	// seat and a revert to pending re-occupies it, in the same statement.
	if order.TableID != nil && order.OrderType == models.OrderTypeDineIn {
		if err := s.tableRepo.SyncTableStatus(tx, *order.TableID); err != nil {
			return nil, fmt.Errorf("failed to sync table occupancy: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	updated, err := s.orderRepo.GetOrderByID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated order: %w", err)
	}
	return updated, nil
}

func (s *orderService) CancelOrder(ref string) (*models.Order, error) {
	order, err := s.ResolveOrder(ref)
	if err != nil {
		return nil, err
	}
	if err := guardCancel(order.Status); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderStatus(tx, order.ID, models.OrderStatusCancelled, order.CompletedAt, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to cancel order %d: %w", order.ID, err)
	}
	if order.TableID != nil && order.OrderType == models.OrderTypeDineIn {
		if err := s.tableRepo.SyncTableStatus(tx, *order.TableID); err != nil {
			return nil, fmt.Errorf("failed to sync table occupancy: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	cancelled, err := s.orderRepo.GetOrderByID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cancelled order: %w", err)
	}
	return cancelled, nil
}

// GetOrdersByTable returns every non-terminal order on the table. A table can
// legitimately accumulate several open orders before being cleared.
func (s *orderService) GetOrdersByTable(tableID int64) ([]OrderWithItems, error) {
	orders, err := s.orderRepo.GetActiveOrdersByTable(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active orders for table %d: %w", tableID, err)
	}
	if len(orders) == 0 {
		return nil, ErrNoActiveOrders
	}

	result := make([]OrderWithItems, 0, len(orders))
	for i := range orders {
		items, err := s.orderRepo.GetOrderItemsByOrderID(orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch items for order %d: %w", orders[i].ID, err)
		}
		result = append(result, OrderWithItems{Order: &orders[i], Items: items})
	}
	return result, nil
}
