package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dkempe/inventory-backend/pkg/db/models"
	"github.com/dkempe/inventory-backend/pkg/enums"
	"github.com/dkempe/inventory-backend/pkg/logger"
)

// SeedDevData inserts a small fixed catalog for local development. It is a
// no-op when any stock rows already exist.
func SeedDevData(ctx context.Context, conn *gorm.DB, logg *logger.Logger) error {
	var count int64
	if err := conn.WithContext(ctx).Model(&models.StockRecord{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting stock records: %w", err)
	}
	if count > 0 {
		logg.Debug(ctx, "stock records already present, skipping dev seed")
		return nil
	}

	seeds := []models.StockRecord{
		{ID: uuid.New(), SKUCode: "DEV-WIDGET-001", Quantity: 100, UnitPrice: decimal.NewFromFloat(9.99), Status: enums.StockStatusAvailable, ProductRef: "dev-widget", Version: 1},
		{ID: uuid.New(), SKUCode: "DEV-WIDGET-002", Quantity: 25, UnitPrice: decimal.NewFromFloat(24.50), Status: enums.StockStatusAvailable, ProductRef: "dev-widget", Version: 1},
		{ID: uuid.New(), SKUCode: "DEV-GADGET-001", Quantity: 0, UnitPrice: decimal.NewFromFloat(149.00), Status: enums.StockStatusOutOfStock, ProductRef: "dev-gadget", Version: 1},
	}
	if err := conn.WithContext(ctx).Create(&seeds).Error; err != nil {
		return fmt.Errorf("seeding stock records: %w", err)
	}
	logg.Info(logg.WithField(ctx, "seeded", len(seeds)), "dev stock catalog seeded")
	return nil
}
