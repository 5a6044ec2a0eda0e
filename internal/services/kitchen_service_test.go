package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"reflect"
	"testing"
	"time"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
)

// noopDriver lets the service open transactions without a database. Only
// Begin/Commit/Rollback are ever reached: all statements go through the
// stubbed repository instead.
type noopDriver struct{}

type noopConn struct{}

type noopTx struct{}

func (noopDriver) Open(string) (driver.Conn, error)  { return noopConn{}, nil }
func (noopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (noopConn) Close() error                        { return nil }
func (noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }
func (noopTx) Commit() error                         { return nil }
func (noopTx) Rollback() error                       { return nil }

func init() {
	sql.Register("kitchen_service_stub", noopDriver{})
}

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("kitchen_service_stub", "")
	if err != nil {
		t.Fatalf("opening stub db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// stubOrderRepo records the calls UpdateOrderItemStatus makes. Methods not
// implemented here panic through the embedded nil interface, which is the
// point: the item-status path must not touch anything else.
type stubOrderRepo struct {
	repositories.OrderRepository

	item    *models.OrderItem
	lockErr error

	calls         []string
	syncedOrderID int64
}

func (s *stubOrderRepo) GetOrderItemByID(itemID int64) (*models.OrderItem, error) {
	s.calls = append(s.calls, "GetOrderItemByID")
	if s.item == nil || s.item.ID != itemID {
		return nil, repositories.ErrNotFound
	}
	return s.item, nil
}

func (s *stubOrderRepo) LockOrder(executor repositories.SQLExecutor, orderID int64) error {
	s.calls = append(s.calls, "LockOrder")
	return s.lockErr
}

func (s *stubOrderRepo) UpdateOrderItemStatus(executor repositories.SQLExecutor, itemID int64, status models.OrderItemStatus, updatedAt time.Time) error {
	s.calls = append(s.calls, "UpdateOrderItemStatus")
	return nil
}

func (s *stubOrderRepo) SyncKitchenStatus(executor repositories.SQLExecutor, orderID int64, updatedAt time.Time) error {
	s.calls = append(s.calls, "SyncKitchenStatus")
	s.syncedOrderID = orderID
	return nil
}

func TestUpdateOrderItemStatusSyncsUnderOrderLock(t *testing.T) {
	repo := &stubOrderRepo{
		item: &models.OrderItem{ID: 7, OrderID: 42, Status: models.ItemStatusPending},
	}
	svc := NewKitchenService(repo, newStubDB(t))

	if _, err := svc.UpdateOrderItemStatus(7, string(models.ItemStatusReady)); err != nil {
		t.Fatalf("UpdateOrderItemStatus() error = %v", err)
	}

	// The order lock must come before the item write, and the order-level
	// stage must be recomputed inside the same transaction on every update,
	// never from a sibling read taken before it. Two stations finishing the
	// last two items of an order both run this sequence, so whichever lands
	// second recomputes against the first one's committed write and the
	// order still reaches ready.
	want := []string{"GetOrderItemByID", "LockOrder", "UpdateOrderItemStatus", "SyncKitchenStatus", "GetOrderItemByID"}
	if !reflect.DeepEqual(repo.calls, want) {
		t.Fatalf("call sequence = %v, want %v", repo.calls, want)
	}
	if repo.syncedOrderID != 42 {
		t.Errorf("synced order = %d, want 42", repo.syncedOrderID)
	}
}

func TestUpdateOrderItemStatusInvalidStatus(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := NewKitchenService(repo, newStubDB(t))

	_, err := svc.UpdateOrderItemStatus(7, "burnt")
	if !errors.Is(err, ErrInvalidItemStatus) {
		t.Fatalf("error = %v, want ErrInvalidItemStatus", err)
	}
	if len(repo.calls) != 0 {
		t.Errorf("repository touched on invalid status: %v", repo.calls)
	}
}

func TestUpdateOrderItemStatusUnknownItem(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := NewKitchenService(repo, newStubDB(t))

	_, err := svc.UpdateOrderItemStatus(99, string(models.ItemStatusPreparing))
	if !errors.Is(err, ErrOrderItemNotFound) {
		t.Fatalf("error = %v, want ErrOrderItemNotFound", err)
	}
}

func TestUpdateOrderItemStatusLockFailure(t *testing.T) {
	repo := &stubOrderRepo{
		item:    &models.OrderItem{ID: 7, OrderID: 42, Status: models.ItemStatusPending},
		lockErr: repositories.ErrNotFound,
	}
	svc := NewKitchenService(repo, newStubDB(t))

	_, err := svc.UpdateOrderItemStatus(7, string(models.ItemStatusReady))
	if !errors.Is(err, ErrOrderItemNotFound) {
		t.Fatalf("error = %v, want ErrOrderItemNotFound", err)
	}
	for _, call := range repo.calls {
		if call == "SyncKitchenStatus" || call == "UpdateOrderItemStatus" {
			t.Errorf("write issued after failed lock: %v", repo.calls)
		}
	}
}
