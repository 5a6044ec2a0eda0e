package services

import (
	"database/sql"
	"errors"
	"fmt"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
)

// CreateTableRequest is the payload for registering a new table.
type CreateTableRequest struct {
	TableNumber int    `json:"table_number" binding:"required,gt=0"`
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`
	QRCode      string `json:"qr_code"`
}

// UpdateTableRequest carries optional fields; nil means keep current value.
type UpdateTableRequest struct {
	TableNumber *int    `json:"table_number"`
	Name        *string `json:"name"`
	Capacity    *int    `json:"capacity"`
	Location    *string `json:"location"`
	QRCode      *string `json:"qr_code"`
	IsActive    *bool   `json:"is_active"`
}

// TableService manages the seating map. Occupancy is derived from order
// membership; only the unavailable flag is set manually.
type TableService interface {
	CreateTable(req CreateTableRequest) (*models.Table, error)
	GetTables() ([]models.Table, error)
	GetTableByID(tableID int64) (*models.Table, error)
	UpdateTable(tableID int64, req UpdateTableRequest) (*models.Table, error)
	UpdateTableStatus(tableID int64, status string) (*models.Table, error)
	DeleteTable(tableID int64) error
}

type tableService struct {
	tableRepo repositories.TableRepository
	orderRepo repositories.OrderRepository
	db        *sql.DB
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository, or repositories.OrderRepository, db *sql.DB) TableService {
	return &tableService{tableRepo: tr, orderRepo: or, db: db}
}

func (s *tableService) CreateTable(req CreateTableRequest) (*models.Table, error) {
	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Table %d", req.TableNumber)
	}
	qrCode := req.QRCode
	if qrCode == "" {
		qrCode = fmt.Sprintf("table-%d", req.TableNumber)
	}
	table := models.Table{
		TableNumber: req.TableNumber,
		Name:        name,
		Capacity:    req.Capacity,
		Location:    req.Location,
		QRCode:      qrCode,
		IsActive:    true,
	}
	if _, err := s.tableRepo.CreateTable(s.db, &table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table number %d already exists", ErrValidation, req.TableNumber)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &table, nil
}

// GetTables returns all tables with their active dine-in orders attached.
func (s *tableService) GetTables() ([]models.Table, error) {
	tables, err := s.tableRepo.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tables: %w", err)
	}
	for i := range tables {
		active, err := s.orderRepo.GetActiveOrdersByTable(tables[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch active orders for table %d: %w", tables[i].ID, err)
		}
		tables[i].CurrentOrders = active
	}
	return tables, nil
}

func (s *tableService) GetTableByID(tableID int64) (*models.Table, error) {
	table, err := s.tableRepo.GetTableByID(tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}
	active, err := s.orderRepo.GetActiveOrdersByTable(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active orders for table %d: %w", tableID, err)
	}
	table.CurrentOrders = active
	return table, nil
}

func (s *tableService) UpdateTable(tableID int64, req UpdateTableRequest) (*models.Table, error) {
	table, err := s.tableRepo.GetTableByID(tableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}

	if req.TableNumber != nil {
		if *req.TableNumber <= 0 {
			return nil, fmt.Errorf("%w: table number must be positive", ErrValidation)
		}
		table.TableNumber = *req.TableNumber
	}
	if req.Name != nil {
		table.Name = *req.Name
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be positive", ErrValidation)
		}
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = *req.Location
	}
	if req.QRCode != nil {
		table.QRCode = *req.QRCode
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := s.tableRepo.UpdateTable(s.db, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: table number %d already exists", ErrValidation, table.TableNumber)
		}
		return nil, fmt.Errorf("failed to update table %d: %w", tableID, err)
	}
	return s.GetTableByID(tableID)
}

// UpdateTableStatus handles the manual availability toggle. Setting a table
// back to available re-runs the derived occupancy rule, so a table with live
// orders comes back as occupied.
func (s *tableService) UpdateTableStatus(tableID int64, status string) (*models.Table, error) {
	if status != string(models.TableStatusAvailable) && status != string(models.TableStatusUnavailable) {
		return nil, fmt.Errorf("%w: table status must be available or unavailable", ErrValidation)
	}

	if _, err := s.tableRepo.GetTableByID(tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.tableRepo.SetTableStatus(tx, tableID, models.TableStatus(status)); err != nil {
		return nil, fmt.Errorf("failed to set status for table %d: %w", tableID, err)
	}
	if status == string(models.TableStatusAvailable) {
		if err := s.tableRepo.SyncTableStatus(tx, tableID); err != nil {
			return nil, fmt.Errorf("failed to sync table %d: %w", tableID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table status update: %w", err)
	}
	return s.GetTableByID(tableID)
}

func (s *tableService) DeleteTable(tableID int64) error {
	active, err := s.orderRepo.GetActiveOrdersByTable(tableID)
	if err != nil {
		return fmt.Errorf("failed to fetch active orders for table %d: %w", tableID, err)
	}
	if len(active) > 0 {
		return fmt.Errorf("%w: %d active orders reference this table", ErrTableHasPendingOrders, len(active))
	}

	if err := s.tableRepo.DeleteTable(s.db, tableID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to delete table %d: %w", tableID, err)
	}
	return nil
}
