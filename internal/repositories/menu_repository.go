package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"restaurant_pos_backend/internal/models"
)

// MenuRepository provides read access to the catalog. The order engine
// consumes it to validate and price order lines; catalog CRUD lives outside
// this service.
type MenuRepository interface {
	GetItemByID(itemID int64) (*models.MenuItem, error)
	GetItems(categoryID *int64, availableOnly bool) ([]models.MenuItem, error)
	GetCategories() ([]models.MenuCategory, error)
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

const menuItemColumns = `id, category_id, name, description, price, stock, threshold,
	is_available, is_veg, preparation_time, tags, created_at, updated_at`

func (r *menuRepository) GetItemByID(itemID int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`
	err := r.db.QueryRow(query, itemID).Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
		&item.Stock, &item.Threshold, &item.IsAvailable, &item.IsVeg, &item.PreparationTime,
		&item.Tags, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item %d: %v", ErrDatabaseError, itemID, err)
	}
	return item, nil
}

func (r *menuRepository) GetItems(categoryID *int64, availableOnly bool) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items`
	var args []interface{}

	switch {
	case categoryID != nil && availableOnly:
		query += ` WHERE category_id = $1 AND is_available = TRUE`
		args = append(args, *categoryID)
	case categoryID != nil:
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	case availableOnly:
		query += ` WHERE is_available = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(
			&item.ID, &item.CategoryID, &item.Name, &item.Description, &item.Price,
			&item.Stock, &item.Threshold, &item.IsAvailable, &item.IsVeg, &item.PreparationTime,
			&item.Tags, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *menuRepository) GetCategories() ([]models.MenuCategory, error) {
	categories := []models.MenuCategory{}
	query := `SELECT id, name, description, is_active, created_at, updated_at
	          FROM menu_categories WHERE is_active = TRUE ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying menu categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.MenuCategory
		err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning menu category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu categories: %v", ErrDatabaseError, err)
	}
	return categories, nil
}
