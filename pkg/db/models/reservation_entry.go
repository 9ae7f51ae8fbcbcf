package models

import (
	"time"

	"github.com/google/uuid"
)

// ReservationEntry is a ledger row for quantity withheld from availability on
// behalf of one customer. An entry never outlives its stock record and is
// released all-or-nothing. The (stock_id, customer_ref) pair is unique so a
// release keyed by SKU and customer always resolves to exactly one entry.
type ReservationEntry struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StockID     uuid.UUID `gorm:"column:stock_id;type:uuid;not null;uniqueIndex:idx_reservation_entries_stock_customer"`
	Quantity    int       `gorm:"column:quantity;not null"`
	CustomerRef string    `gorm:"column:customer_ref;not null;uniqueIndex:idx_reservation_entries_stock_customer"`
	Version     int       `gorm:"column:version;not null;default:1"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name independent of GORM pluralization rules.
func (ReservationEntry) TableName() string {
	return "reservation_entries"
}
