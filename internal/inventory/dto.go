package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkempe/inventory-backend/pkg/db/models"
	"github.com/dkempe/inventory-backend/pkg/enums"
)

// CreateStockInput holds the validated payload to create a stock record.
type CreateStockInput struct {
	SKUCode    string
	Quantity   int
	UnitPrice  decimal.Decimal
	Status     enums.StockStatus
	ProductRef string
}

// UpdateStockInput overwrites the mutable fields of an existing record. The
// id, version, and reservation relationships are never caller-writable.
type UpdateStockInput struct {
	SKUCode    string
	Quantity   int
	UnitPrice  decimal.Decimal
	Status     enums.StockStatus
	ProductRef string
}

// ReserveInput withholds quantity from a SKU for one customer.
type ReserveInput struct {
	SKUCode     string
	Quantity    int
	CustomerRef string
}

// ReleaseInput returns a customer's full reservation to availability. The
// quantity is implied by the matched ledger entry.
type ReleaseInput struct {
	SKUCode     string
	CustomerRef string
}

// StockFilter narrows list queries. Zero values mean "no constraint".
type StockFilter struct {
	SKUCode    string
	Status     enums.StockStatus
	ProductRef string
}

// StockDTO is the read model returned by every engine operation.
type StockDTO struct {
	ID         uuid.UUID         `json:"id"`
	SKUCode    string            `json:"skuCode"`
	Quantity   int               `json:"quantity"`
	UnitPrice  decimal.Decimal   `json:"unitPrice"`
	Status     enums.StockStatus `json:"status"`
	ProductRef string            `json:"productRef,omitempty"`
	Version    int               `json:"version"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// NewStockDTO maps a stock row to its read model.
func NewStockDTO(record *models.StockRecord) *StockDTO {
	if record == nil {
		return nil
	}
	return &StockDTO{
		ID:         record.ID,
		SKUCode:    record.SKUCode,
		Quantity:   record.Quantity,
		UnitPrice:  record.UnitPrice,
		Status:     record.Status,
		ProductRef: record.ProductRef,
		Version:    record.Version,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

// ReservationDTO is the read model for a ledger entry.
type ReservationDTO struct {
	ID          uuid.UUID `json:"id"`
	StockID     uuid.UUID `json:"stockId"`
	SKUCode     string    `json:"skuCode,omitempty"`
	Quantity    int       `json:"quantity"`
	CustomerRef string    `json:"customerRef"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewReservationDTO maps a ledger row to its read model.
func NewReservationDTO(entry *models.ReservationEntry) *ReservationDTO {
	if entry == nil {
		return nil
	}
	return &ReservationDTO{
		ID:          entry.ID,
		StockID:     entry.StockID,
		Quantity:    entry.Quantity,
		CustomerRef: entry.CustomerRef,
		CreatedAt:   entry.CreatedAt,
	}
}
