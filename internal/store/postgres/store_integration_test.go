package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tableorder/api-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestStore(t *testing.T, ctx context.Context) (*Store, *pgxpool.Pool) {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	t.Cleanup(pool.Close)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "schema.sql"))
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	return NewStore(pool), pool
}

func createTestUser(t *testing.T, ctx context.Context, st *Store) string {
	t.Helper()
	user, err := st.CreateUser(ctx, store.CreateUserInput{
		Username:     "user-" + uuid.NewString(),
		PasswordHash: "x",
		Name:         "Test",
		Role:         "owner",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user.UserID
}

func TestCreateUserConflict(t *testing.T) {
	ctx := context.Background()
	st, _ := setupTestStore(t, ctx)

	username := "user-" + uuid.NewString()
	input := store.CreateUserInput{Username: username, PasswordHash: "x", Name: "Test", Role: "owner"}
	if _, err := st.CreateUser(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := st.CreateUser(ctx, input)
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict from unique index, got %v", err)
	}
}

func TestMenuOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	st, _ := setupTestStore(t, ctx)

	ownerA := createTestUser(t, ctx, st)
	ownerB := createTestUser(t, ctx, st)

	now := time.Now().UTC()
	menu, err := st.CreateMenu(ctx, store.CreateMenuInput{
		OwnerID:   ownerA,
		MenuID:    now.UnixMilli(),
		Name:      "galbi",
		Price:     15000,
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("create menu: %v", err)
	}

	menus, err := st.ListMenus(ctx, ownerB)
	if err != nil {
		t.Fatalf("list menus: %v", err)
	}
	if len(menus) != 0 {
		t.Fatalf("expected owner B to see no menus, got %d", len(menus))
	}

	_, err = st.UpdateMenu(ctx, menu.ID, ownerB, store.UpdateMenuInput{Name: "hijacked", Price: 1})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner update: expected not found, got %v", err)
	}
	if err := st.DeleteMenu(ctx, menu.ID, ownerB); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("cross-owner delete: expected not found, got %v", err)
	}

	updated, err := st.UpdateMenu(ctx, menu.ID, ownerA, store.UpdateMenuInput{Name: "galbi", Price: 16000})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Price != 16000 {
		t.Fatalf("expected updated price, got %d", updated.Price)
	}
}

func TestQrCodeOverwrite(t *testing.T) {
	ctx := context.Background()
	st, pool := setupTestStore(t, ctx)

	owner := createTestUser(t, ctx, st)

	if _, err := st.LatestQrCode(ctx, owner); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found before first save, got %v", err)
	}

	first, err := st.SaveQrCode(ctx, owner, "data:first", time.Now().UTC())
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := st.SaveQrCode(ctx, owner, "data:second", time.Now().UTC().Add(time.Second))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected overwrite of the single record")
	}

	var count int
	row := pool.QueryRow(ctx, `SELECT COUNT(*) FROM qrcodes WHERE owner_id = $1`, owner)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one qrcode row, got %d", count)
	}
}

func TestQrCodeConcurrentFirstSave(t *testing.T) {
	ctx := context.Background()
	st, pool := setupTestStore(t, ctx)

	owner := createTestUser(t, ctx, st)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := st.SaveQrCode(ctx, owner, fmt.Sprintf("data:%d", i), time.Now().UTC())
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent save: %v", err)
		}
	}

	var count int
	row := pool.QueryRow(ctx, `SELECT COUNT(*) FROM qrcodes WHERE owner_id = $1`, owner)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one qrcode row, got %d", count)
	}
}

func TestOrderStateTransitions(t *testing.T) {
	ctx := context.Background()
	st, _ := setupTestStore(t, ctx)

	owner := createTestUser(t, ctx, st)
	now := time.Now().UTC()
	order, err := st.CreateOrder(ctx, store.CreateOrderInput{
		OwnerID:    owner,
		OrderID:    now.UnixMilli(),
		TableID:    2,
		TableName:  "T2",
		OrderTime:  now.Format("15:04"),
		OrderDate:  now.Format("2006-01-02"),
		TotalPrice: 12000,
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	unpaid, err := st.ListTableOrders(ctx, owner, 2)
	if err != nil {
		t.Fatalf("table orders: %v", err)
	}
	if len(unpaid) != 1 {
		t.Fatalf("expected 1 unpaid order, got %d", len(unpaid))
	}

	paid, err := st.MarkOrderPaid(ctx, order.ID, owner)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !paid.Paid {
		t.Fatal("expected order to be marked paid")
	}

	remaining, err := st.ListRemainingOrders(ctx, owner)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining order, got %d", len(remaining))
	}

	if _, err := st.MarkOrderCompleted(ctx, order.ID, owner); err != nil {
		t.Fatalf("complete: %v", err)
	}
	remaining, err = st.ListRemainingOrders(ctx, owner)
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no remaining orders, got %d", len(remaining))
	}
}
