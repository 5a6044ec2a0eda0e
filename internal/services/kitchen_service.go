package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
)

// KitchenService drives per-item preparation progress and its aggregation
// back onto the order's kitchen stage.
type KitchenService interface {
	UpdateOrderItemStatus(itemID int64, status string) (*models.OrderItem, error)
	GetKitchenOrders() ([]OrderWithItems, error)
	GetKitchenOrderItems(status string) ([]models.OrderItem, error)
	GetKitchenStats() (*models.KitchenStats, error)
}

type kitchenService struct {
	orderRepo repositories.OrderRepository
	db        *sql.DB
}

// NewKitchenService creates a new instance of KitchenService.
func NewKitchenService(or repositories.OrderRepository, db *sql.DB) KitchenService {
	return &kitchenService{orderRepo: or, db: db}
}

// UpdateOrderItemStatus moves one item to its next preparation stage and
// recomputes the order's kitchen stage inside the same transaction. The order
// row is locked first, so two cooks finishing the last two items of an order
// serialize and the second recomputation sees the first one's write.
func (s *kitchenService) UpdateOrderItemStatus(itemID int64, status string) (*models.OrderItem, error) {
	if !models.IsValidOrderItemStatus(status) {
		return nil, fmt.Errorf("%w: must be one of: pending, preparing, ready, served", ErrInvalidItemStatus)
	}
	newStatus := models.OrderItemStatus(status)

	item, err := s.orderRepo.GetOrderItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch order item %d: %w", itemID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.LockOrder(tx, item.OrderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to lock order %d: %w", item.OrderID, err)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateOrderItemStatus(tx, itemID, newStatus, now); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to update order item status: %w", err)
	}
	if err := s.orderRepo.SyncKitchenStatus(tx, item.OrderID, now); err != nil {
		return nil, fmt.Errorf("failed to sync kitchen status for order %d: %w", item.OrderID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item status update: %w", err)
	}

	updated, err := s.orderRepo.GetOrderItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated order item: %w", err)
	}
	return updated, nil
}

// GetKitchenOrders returns active orders oldest-first with their lines.
func (s *kitchenService) GetKitchenOrders() ([]OrderWithItems, error) {
	orders, _, err := s.orderRepo.GetOrders(models.OrderFilters{
		Statuses: []string{string(models.OrderStatusPending)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kitchen orders: %w", err)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

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

func (s *kitchenService) GetKitchenOrderItems(status string) ([]models.OrderItem, error) {
	statuses := []string{string(models.ItemStatusPending), string(models.ItemStatusPreparing)}
	if status != "" {
		if !models.IsValidOrderItemStatus(status) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidItemStatus, status)
		}
		statuses = []string{status}
	}

	items, err := s.orderRepo.GetKitchenOrderItems(statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kitchen order items: %w", err)
	}
	return items, nil
}

func (s *kitchenService) GetKitchenStats() (*models.KitchenStats, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.orderRepo.GetKitchenStats(startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kitchen stats: %w", err)
	}
	return stats, nil
}
