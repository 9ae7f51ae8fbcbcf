package inventory

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dkempe/inventory-backend/pkg/db"
	"github.com/dkempe/inventory-backend/pkg/db/models"
	"github.com/dkempe/inventory-backend/pkg/enums"
	"github.com/dkempe/inventory-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockRecord{}, &models.ReservationEntry{}); err != nil {
		t.Fatalf("migrate inventory tables: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "inventory-test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), db.FromConn(conn), logg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func mustCreateStock(t *testing.T, conn *gorm.DB, skuCode string, quantity int) *models.StockRecord {
	t.Helper()
	record := &models.StockRecord{
		ID:         uuid.New(),
		SKUCode:    skuCode,
		Quantity:   quantity,
		UnitPrice:  decimal.NewFromFloat(9.99),
		Status:     enums.StockStatusAvailable,
		ProductRef: "prod-" + uuid.NewString(),
		Version:    1,
	}
	if err := conn.Create(record).Error; err != nil {
		t.Fatalf("create stock record: %v", err)
	}
	return record
}
