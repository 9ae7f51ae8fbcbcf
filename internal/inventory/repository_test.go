package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/dkempe/inventory-backend/pkg/db/models"
	pkgerrors "github.com/dkempe/inventory-backend/pkg/errors"
)

func TestUpdateWithVersionStaleWriterFails(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	record := mustCreateStock(t, conn, "B1", 6)

	// Two writers read the same version. The first commit wins.
	first := *record
	second := *record

	first.Quantity = 3
	if _, err := repo.UpdateWithVersion(ctx, &first, 1); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.Version != 2 {
		t.Fatalf("expected version 2 after first commit, got %d", first.Version)
	}

	second.Quantity = 3
	_, err := repo.UpdateWithVersion(ctx, &second, 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeVersionConflict) {
		t.Fatalf("expected VersionConflict for stale writer, got %v", err)
	}

	var stored models.StockRecord
	if err := conn.First(&stored, "sku_code = ?", "B1").Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if stored.Quantity != 3 || stored.Version != 2 {
		t.Fatalf("expected first writer's state, got quantity=%d version=%d", stored.Quantity, stored.Version)
	}
}

func TestUpdateWithVersionIncrementsByOne(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	record := mustCreateStock(t, conn, "B2", 4)

	for expected := 1; expected <= 3; expected++ {
		record.Quantity--
		updated, err := repo.UpdateWithVersion(ctx, record, expected)
		if err != nil {
			t.Fatalf("update at version %d: %v", expected, err)
		}
		if updated.Version != expected+1 {
			t.Fatalf("expected version %d, got %d", expected+1, updated.Version)
		}
	}
}

func TestExistsSKU(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateStock(t, conn, "E1", 1)

	exists, err := repo.ExistsSKU(ctx, "E1")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected sku E1 to exist")
	}

	exists, err = repo.ExistsSKU(ctx, "E2")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("expected sku E2 to be absent")
	}
}

func TestFindByStockAndCustomer(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	record := mustCreateStock(t, conn, "E3", 5)
	entry := &models.ReservationEntry{
		StockID:     record.ID,
		Quantity:    2,
		CustomerRef: "cust-A",
	}
	if _, err := repo.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	found, err := repo.FindByStockAndCustomer(ctx, record.ID, "cust-A")
	if err != nil {
		t.Fatalf("find entry: %v", err)
	}
	if found.ID != entry.ID || found.Quantity != 2 {
		t.Fatalf("unexpected entry %+v", found)
	}

	if _, err := repo.FindByStockAndCustomer(ctx, uuid.New(), "cust-A"); err == nil {
		t.Fatal("expected error for unknown stock id")
	}
}
