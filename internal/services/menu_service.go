package services

import (
	"errors"
	"fmt"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
)

// MenuService exposes the read-side catalog for the ordering surfaces.
type MenuService interface {
	GetMenuItems(categoryID *int64, availableOnly bool) ([]models.MenuItem, error)
	GetMenuItemByID(itemID int64) (*models.MenuItem, error)
	GetCategories() ([]models.MenuCategory, error)
}

type menuService struct {
	menuRepo repositories.MenuRepository
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository) MenuService {
	return &menuService{menuRepo: mr}
}

func (s *menuService) GetMenuItems(categoryID *int64, availableOnly bool) ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetItems(categoryID, availableOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) GetMenuItemByID(itemID int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch menu item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *menuService) GetCategories() ([]models.MenuCategory, error) {
	categories, err := s.menuRepo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch menu categories: %w", err)
	}
	return categories, nil
}
