package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_pos_backend/internal/models"

	"github.com/lib/pq"
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrderByNumber(orderNumber string) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetActiveOrdersByTable(tableID int64) ([]models.Order, error)
	UpdateOrderContent(executor SQLExecutor, order *models.Order) error
	UpdateOrderStatus(executor SQLExecutor, orderID int64, status models.OrderStatus, completedAt *time.Time, updatedAt time.Time) error
	LockOrder(executor SQLExecutor, orderID int64) error
	SyncKitchenStatus(executor SQLExecutor, orderID int64, updatedAt time.Time) error
	MarkOrderPaid(executor SQLExecutor, orderID int64, method models.PaymentMethod, paidAt time.Time, alsoServe bool) error
	MarkOrderAccepted(executor SQLExecutor, orderID, userID int64, acceptedAt time.Time) error
	NextOrderSequence(executor SQLExecutor, day time.Time) (int64, error)

	// OrderItem methods
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemByID(itemID int64) (*models.OrderItem, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
	UpdateOrderItemStatus(executor SQLExecutor, itemID int64, status models.OrderItemStatus, updatedAt time.Time) error
	DeleteOrderItemsByOrderID(executor SQLExecutor, orderID int64) (int64, error)

	// Kitchen projections
	GetKitchenOrderItems(statuses []string) ([]models.OrderItem, error)
	GetKitchenStats(startOfDay time.Time) (*models.KitchenStats, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, table_id, table_number, customer_name, customer_phone,
	order_type, order_source, status, kitchen_status, subtotal, tax, discount, total,
	payment_method, payment_status, notes, created_by, accepted_by,
	paid_at, accepted_at, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner, o *models.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.TableID, &o.TableNumber, &o.CustomerName, &o.CustomerPhone,
		&o.OrderType, &o.OrderSource, &o.Status, &o.KitchenStatus, &o.Subtotal, &o.Tax, &o.Discount, &o.Total,
		&o.PaymentMethod, &o.PaymentStatus, &o.Notes, &o.CreatedBy, &o.AcceptedBy,
		&o.PaidAt, &o.AcceptedAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt,
	)
}

// --- Order methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (order_number, table_id, table_number, customer_name, customer_phone,
	             order_type, order_source, status, kitchen_status, subtotal, tax, discount, total,
	             payment_method, payment_status, notes, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		order.OrderNumber, order.TableID, order.TableNumber, order.CustomerName, order.CustomerPhone,
		order.OrderType, order.OrderSource, order.Status, order.KitchenStatus,
		order.Subtotal, order.Tax, order.Discount, order.Total,
		order.PaymentMethod, order.PaymentStatus, order.Notes, order.CreatedBy,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: order number %s", ErrDuplicateKey, order.OrderNumber)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	err := scanOrder(r.db.QueryRow(query, orderID), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	err := scanOrder(r.db.QueryRow(query, orderNumber), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by number %s: %v", ErrDatabaseError, orderNumber, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + `, COUNT(*) OVER() AS total_count FROM orders`)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if len(filters.Statuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", argCounter))
		args = append(args, pq.Array(filters.Statuses))
		argCounter++
	}
	if filters.OrderType != nil && *filters.OrderType != "" {
		conditions = append(conditions, fmt.Sprintf("order_type = $%d", argCounter))
		args = append(args, *filters.OrderType)
		argCounter++
	}
	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
		argCounter++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argCounter))
		args = append(args, *filters.StartDate)
		argCounter++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argCounter))
		args = append(args, *filters.EndDate)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.TableID, &o.TableNumber, &o.CustomerName, &o.CustomerPhone,
			&o.OrderType, &o.OrderSource, &o.Status, &o.KitchenStatus, &o.Subtotal, &o.Tax, &o.Discount, &o.Total,
			&o.PaymentMethod, &o.PaymentStatus, &o.Notes, &o.CreatedBy, &o.AcceptedBy,
			&o.PaidAt, &o.AcceptedAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetActiveOrdersByTable(tableID int64) ([]models.Order, error) {
	orders := []models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE table_id = $1 AND status NOT IN ('served', 'cancelled')
	          ORDER BY created_at`
	rows, err := r.db.Query(query, tableID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying active orders for table %d: %v", ErrDatabaseError, tableID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("%w: scanning active order for table %d: %v", ErrDatabaseError, tableID, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating active orders for table %d: %v", ErrDatabaseError, tableID, err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderContent(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders
	          SET customer_name = $1, customer_phone = $2, notes = $3,
	              subtotal = $4, tax = $5, discount = $6, total = $7, updated_at = $8
	          WHERE id = $9`
	result, err := executor.Exec(query,
		order.CustomerName, order.CustomerPhone, order.Notes,
		order.Subtotal, order.Tax, order.Discount, order.Total, time.Now(),
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating order %d: %v", ErrDatabaseError, order.ID, err)
	}
	return checkAffected(result, order.ID)
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, status models.OrderStatus, completedAt *time.Time, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, completed_at = $2, updated_at = $3 WHERE id = $4`
	result, err := executor.Exec(query, status, completedAt, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return checkAffected(result, orderID)
}

// LockOrder takes the order's row lock. Concurrent mutations of the same
// order's items serialize here, so derived writes that follow always see the
// latest committed sibling state.
func (r *orderRepository) LockOrder(executor SQLExecutor, orderID int64) error {
	var id int64
	err := executor.QueryRow(`SELECT id FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: locking order %d: %v", ErrDatabaseError, orderID, err)
	}
	return nil
}

// SyncKitchenStatus recomputes the order's kitchen stage from its items in
// one conditional UPDATE, the same derived approach SyncTableStatus uses for
// occupancy. Callers must hold the order row lock in the same transaction as
// the item write.
func (r *orderRepository) SyncKitchenStatus(executor SQLExecutor, orderID int64, updatedAt time.Time) error {
	query := `UPDATE orders
	          SET kitchen_status = CASE
	                WHEN NOT EXISTS (
	                    SELECT 1 FROM order_items
	                    WHERE order_id = orders.id AND status NOT IN ('ready', 'served')
	                ) THEN 'ready'
	                WHEN EXISTS (
	                    SELECT 1 FROM order_items
	                    WHERE order_id = orders.id AND status = 'preparing'
	                ) THEN 'preparing'
	                ELSE 'pending'
	              END,
	              updated_at = $2
	          WHERE id = $1`
	result, err := executor.Exec(query, orderID, updatedAt)
	if err != nil {
		return fmt.Errorf("%w: syncing kitchen status for order %d: %v", ErrDatabaseError, orderID, err)
	}
	return checkAffected(result, orderID)
}

func (r *orderRepository) MarkOrderPaid(executor SQLExecutor, orderID int64, method models.PaymentMethod, paidAt time.Time, alsoServe bool) error {
	var result sql.Result
	var err error
	if alsoServe {
		query := `UPDATE orders
		          SET payment_method = $1, payment_status = 'paid', paid_at = $2, status = 'served', updated_at = $3
		          WHERE id = $4`
		result, err = executor.Exec(query, method, paidAt, time.Now(), orderID)
	} else {
		query := `UPDATE orders
		          SET payment_method = $1, payment_status = 'paid', paid_at = $2, updated_at = $3
		          WHERE id = $4`
		result, err = executor.Exec(query, method, paidAt, time.Now(), orderID)
	}
	if err != nil {
		return fmt.Errorf("%w: marking order %d paid: %v", ErrDatabaseError, orderID, err)
	}
	return checkAffected(result, orderID)
}

// MarkOrderAccepted stamps the first staff user to take ownership of an
// order. Later calls are no-ops, so ownership never changes hands silently.
func (r *orderRepository) MarkOrderAccepted(executor SQLExecutor, orderID, userID int64, acceptedAt time.Time) error {
	query := `UPDATE orders SET accepted_by = $1, accepted_at = $2, updated_at = $3
	          WHERE id = $4 AND accepted_at IS NULL`
	if _, err := executor.Exec(query, userID, acceptedAt, acceptedAt, orderID); err != nil {
		return fmt.Errorf("%w: marking order %d accepted: %v", ErrDatabaseError, orderID, err)
	}
	return nil
}

// NextOrderSequence increments and returns the per-day order counter in a
// single atomic statement, so concurrent creations never observe the same
// sequence value.
func (r *orderRepository) NextOrderSequence(executor SQLExecutor, day time.Time) (int64, error) {
	query := `INSERT INTO order_counters (day, counter)
	          VALUES ($1, 1)
	          ON CONFLICT (day) DO UPDATE SET counter = order_counters.counter + 1
	          RETURNING counter`
	var seq int64
	err := executor.QueryRow(query, day.Format("2006-01-02")).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("%w: advancing order counter for %s: %v", ErrDatabaseError, day.Format("2006-01-02"), err)
	}
	return seq, nil
}

// --- OrderItem methods ---

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items
	            (order_id, menu_item_id, quantity, price, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		item.OrderID, item.MenuItemID, item.Quantity, item.Price, item.Status, item.Notes,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderItemByID(itemID int64) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	var menuItem models.MenuItem
	query := `SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price, oi.status, oi.notes,
	                 oi.created_at, oi.updated_at, mi.name, mi.price
	          FROM order_items oi
	          JOIN menu_items mi ON oi.menu_item_id = mi.id
	          WHERE oi.id = $1`
	err := r.db.QueryRow(query, itemID).Scan(
		&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price, &item.Status, &item.Notes,
		&item.CreatedAt, &item.UpdatedAt, &menuItem.Name, &menuItem.Price,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order item %d: %v", ErrDatabaseError, itemID, err)
	}
	menuItem.ID = item.MenuItemID
	item.MenuItem = &menuItem
	return item, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price, oi.status, oi.notes,
	                 oi.created_at, oi.updated_at, mi.name, mi.price, mi.preparation_time
	          FROM order_items oi
	          JOIN menu_items mi ON oi.menu_item_id = mi.id
	          WHERE oi.order_id = $1
	          ORDER BY oi.id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var menuItem models.MenuItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price, &item.Status, &item.Notes,
			&item.CreatedAt, &item.UpdatedAt, &menuItem.Name, &menuItem.Price, &menuItem.PreparationTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order %d: %v", ErrDatabaseError, orderID, err)
		}
		menuItem.ID = item.MenuItemID
		item.MenuItem = &menuItem
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order items for order %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) UpdateOrderItemStatus(executor SQLExecutor, itemID int64, status models.OrderItemStatus, updatedAt time.Time) error {
	query := `UPDATE order_items SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, status, updatedAt, itemID)
	if err != nil {
		return fmt.Errorf("%w: updating order item status for ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return checkAffected(result, itemID)
}

func (r *orderRepository) DeleteOrderItemsByOrderID(executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM order_items WHERE order_id = $1`
	result, err := executor.Exec(query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order items for order %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected deleting order items for order %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}

// --- Kitchen projections ---

func (r *orderRepository) GetKitchenOrderItems(statuses []string) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price, oi.status, oi.notes,
	                 oi.created_at, oi.updated_at, mi.name, mi.preparation_time,
	                 o.order_number, o.order_type, o.table_number
	          FROM order_items oi
	          JOIN menu_items mi ON oi.menu_item_id = mi.id
	          JOIN orders o ON oi.order_id = o.id
	          WHERE o.status = 'pending' AND oi.status = ANY($1)
	          ORDER BY oi.created_at`

	rows, err := r.db.Query(query, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("%w: querying kitchen order items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var menuItem models.MenuItem
		var order models.Order
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price, &item.Status, &item.Notes,
			&item.CreatedAt, &item.UpdatedAt, &menuItem.Name, &menuItem.PreparationTime,
			&order.OrderNumber, &order.OrderType, &order.TableNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning kitchen order item: %v", ErrDatabaseError, err)
		}
		menuItem.ID = item.MenuItemID
		item.MenuItem = &menuItem
		order.ID = item.OrderID
		item.Order = &order
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating kitchen order items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *orderRepository) GetKitchenStats(startOfDay time.Time) (*models.KitchenStats, error) {
	stats := &models.KitchenStats{}
	query := `SELECT
	            (SELECT COUNT(*) FROM orders WHERE status = 'pending'),
	            (SELECT COUNT(*) FROM order_items oi JOIN orders o ON oi.order_id = o.id
	               WHERE o.status = 'pending' AND oi.status = 'pending'),
	            (SELECT COUNT(*) FROM order_items oi JOIN orders o ON oi.order_id = o.id
	               WHERE o.status = 'pending' AND oi.status = 'preparing'),
	            (SELECT COUNT(*) FROM order_items oi JOIN orders o ON oi.order_id = o.id
	               WHERE o.status = 'pending' AND oi.status = 'ready'),
	            (SELECT COUNT(*) FROM order_items WHERE status = 'served' AND updated_at >= $1)`
	err := r.db.QueryRow(query, startOfDay).Scan(
		&stats.ActiveOrders, &stats.PendingItems, &stats.PreparingItems, &stats.ReadyItems, &stats.CompletedToday,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying kitchen stats: %v", ErrDatabaseError, err)
	}
	return stats, nil
}

func checkAffected(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
