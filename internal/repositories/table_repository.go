package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_pos_backend/internal/models"

	"github.com/lib/pq"
)

// TableRepository defines the interface for table-related database operations.
// Occupancy is derived from active-order membership: SyncTableStatus is the
// only writer of the occupied/available pair.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.Table) (int64, error)
	GetTableByID(tableID int64) (*models.Table, error)
	GetTables() ([]models.Table, error)
	UpdateTable(executor SQLExecutor, table *models.Table) error
	DeleteTable(executor SQLExecutor, tableID int64) error
	SetTableStatus(executor SQLExecutor, tableID int64, status models.TableStatus) error
	SyncTableStatus(executor SQLExecutor, tableID int64) error
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.Table) (int64, error) {
	query := `INSERT INTO tables (table_number, name, capacity, status, location, qr_code, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}
	if table.Capacity <= 0 {
		table.Capacity = 4
	}
	if table.CreatedAt.IsZero() {
		table.CreatedAt = time.Now()
	}
	if table.UpdatedAt.IsZero() {
		table.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		table.TableNumber, table.Name, table.Capacity, table.Status, table.Location, table.QRCode,
		table.IsActive, table.CreatedAt, table.UpdatedAt,
	).Scan(&table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: table number %d", ErrDuplicateKey, table.TableNumber)
		}
		return 0, fmt.Errorf("%w: creating table: %v", ErrDatabaseError, err)
	}
	return table.ID, nil
}

func (r *tableRepository) GetTableByID(tableID int64) (*models.Table, error) {
	table := &models.Table{}
	query := `SELECT id, table_number, name, capacity, status, location, qr_code, is_active, created_at, updated_at
	          FROM tables WHERE id = $1`
	err := r.db.QueryRow(query, tableID).Scan(
		&table.ID, &table.TableNumber, &table.Name, &table.Capacity, &table.Status,
		&table.Location, &table.QRCode, &table.IsActive, &table.CreatedAt, &table.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table by ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return table, nil
}

func (r *tableRepository) GetTables() ([]models.Table, error) {
	tables := []models.Table{}
	query := `SELECT id, table_number, name, capacity, status, location, qr_code, is_active, created_at, updated_at
	          FROM tables ORDER BY table_number`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Table
		err := rows.Scan(
			&t.ID, &t.TableNumber, &t.Name, &t.Capacity, &t.Status,
			&t.Location, &t.QRCode, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table rows: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) UpdateTable(executor SQLExecutor, table *models.Table) error {
	query := `UPDATE tables
	          SET table_number = $1, name = $2, capacity = $3, location = $4, qr_code = $5, is_active = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		table.TableNumber, table.Name, table.Capacity, table.Location, table.QRCode, table.IsActive, time.Now(),
		table.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: table number %d", ErrDuplicateKey, table.TableNumber)
		}
		return fmt.Errorf("%w: updating table %d: %v", ErrDatabaseError, table.ID, err)
	}
	return checkAffected(result, table.ID)
}

func (r *tableRepository) DeleteTable(executor SQLExecutor, tableID int64) error {
	result, err := executor.Exec(`DELETE FROM tables WHERE id = $1`, tableID)
	if err != nil {
		return fmt.Errorf("%w: deleting table %d: %v", ErrDatabaseError, tableID, err)
	}
	return checkAffected(result, tableID)
}

// SetTableStatus writes a manual status. Callers use it for the
// unavailable/available toggle; occupancy itself goes through SyncTableStatus.
func (r *tableRepository) SetTableStatus(executor SQLExecutor, tableID int64, status models.TableStatus) error {
	result, err := executor.Exec(
		`UPDATE tables SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), tableID,
	)
	if err != nil {
		return fmt.Errorf("%w: setting status for table %d: %v", ErrDatabaseError, tableID, err)
	}
	return checkAffected(result, tableID)
}

// SyncTableStatus recomputes a table's occupancy from the orders that
// reference it, in one conditional UPDATE. Tables flagged unavailable keep
// that status regardless of membership.
func (r *tableRepository) SyncTableStatus(executor SQLExecutor, tableID int64) error {
	query := `UPDATE tables
	          SET status = CASE
	                WHEN status = 'unavailable' THEN status
	                WHEN EXISTS (
	                    SELECT 1 FROM orders
	                    WHERE table_id = tables.id
	                      AND order_type = 'dine-in'
	                      AND status NOT IN ('served', 'cancelled')
	                ) THEN 'occupied'
	                ELSE 'available'
	              END,
	              updated_at = $2
	          WHERE id = $1`
	result, err := executor.Exec(query, tableID, time.Now())
	if err != nil {
		return fmt.Errorf("%w: syncing status for table %d: %v", ErrDatabaseError, tableID, err)
	}
	return checkAffected(result, tableID)
}
