package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkempe/inventory-backend/pkg/enums"
)

// StockRecord is the authoritative record of available quantity for one SKU.
// Quantity already excludes reserved amounts; Version backs optimistic
// concurrency and increments by exactly one per committed mutation.
type StockRecord struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	SKUCode      string             `gorm:"column:sku_code;not null;uniqueIndex:idx_stock_records_sku_code"`
	Quantity     int                `gorm:"column:quantity;not null;default:0"`
	UnitPrice    decimal.Decimal    `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Status       enums.StockStatus  `gorm:"column:status;not null"`
	ProductRef   string             `gorm:"column:product_ref;not null"`
	Version      int                `gorm:"column:version;not null;default:1"`
	Reservations []ReservationEntry `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name independent of GORM pluralization rules.
func (StockRecord) TableName() string {
	return "stock_records"
}
