package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dkempe/inventory-backend/pkg/db/models"
	pkgerrors "github.com/dkempe/inventory-backend/pkg/errors"
	"github.com/dkempe/inventory-backend/pkg/pagination"
)

// StockStore defines persistence operations for stock records.
type StockStore interface {
	FindByID(context.Context, uuid.UUID) (*models.StockRecord, error)
	FindBySKU(context.Context, string) (*models.StockRecord, error)
	FindPage(context.Context, StockFilter, pagination.Pageable) ([]models.StockRecord, int64, error)
	Insert(context.Context, *models.StockRecord) (*models.StockRecord, error)
	UpdateWithVersion(context.Context, *models.StockRecord, int) (*models.StockRecord, error)
	Delete(context.Context, uuid.UUID) error
	ExistsSKU(context.Context, string) (bool, error)
}

// LedgerStore defines persistence operations for reservation entries.
type LedgerStore interface {
	FindByCustomer(context.Context, string) ([]models.ReservationEntry, error)
	FindByStockAndCustomer(context.Context, uuid.UUID, string) (*models.ReservationEntry, error)
	InsertEntry(context.Context, *models.ReservationEntry) (*models.ReservationEntry, error)
	DeleteEntry(context.Context, uuid.UUID) error
}

// Repository wires together stock and reservation persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the stock record without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockRecord, error) {
	var record models.StockRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindBySKU loads the stock record by its business key.
func (r *Repository) FindBySKU(ctx context.Context, skuCode string) (*models.StockRecord, error) {
	var record models.StockRecord
	if err := r.db.WithContext(ctx).First(&record, "sku_code = ?", skuCode).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindPage returns one bounded window of stock records plus the total count
// matching the filter, computed independently of the window.
func (r *Repository) FindPage(ctx context.Context, filter StockFilter, pageable pagination.Pageable) ([]models.StockRecord, int64, error) {
	pageable = pageable.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.StockRecord{})
	if filter.SKUCode != "" {
		qb = qb.Where("sku_code = ?", filter.SKUCode)
	}
	if filter.Status != "" {
		qb = qb.Where("status = ?", filter.Status)
	}
	if filter.ProductRef != "" {
		qb = qb.Where("product_ref = ?", filter.ProductRef)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockRecord
	err := qb.
		Order("created_at ASC").
		Order("id ASC").
		Offset(pageable.Skip).
		Limit(pageable.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Insert creates a new stock record row.
func (r *Repository) Insert(ctx context.Context, record *models.StockRecord) (*models.StockRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Version == 0 {
		record.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateWithVersion persists the record only when the stored version still
// matches expectedVersion, bumping the version by exactly one. Zero rows
// updated means either a concurrent writer won (VersionConflict) or the row
// is gone (NotFound); a probe on the id distinguishes the two.
func (r *Repository) UpdateWithVersion(ctx context.Context, record *models.StockRecord, expectedVersion int) (*models.StockRecord, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Where("id = ? AND version = ?", record.ID, expectedVersion).
		Updates(map[string]any{
			"sku_code":    record.SKUCode,
			"quantity":    record.Quantity,
			"unit_price":  record.UnitPrice,
			"status":      record.Status,
			"product_ref": record.ProductRef,
			"version":     expectedVersion + 1,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.StockRecord{}).Where("id = ?", record.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found").
				WithDetails(map[string]any{"id": record.ID})
		}
		return nil, pkgerrors.New(pkgerrors.CodeVersionConflict, "stock record was modified concurrently").
			WithDetails(map[string]any{"id": record.ID, "expectedVersion": expectedVersion})
	}
	record.Version = expectedVersion + 1
	return record, nil
}

// Delete removes a stock record; the FK cascade removes its ledger entries.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Reservations").Delete(&models.StockRecord{ID: id}).Error
}

// ExistsSKU reports whether any stock record already carries the SKU code.
func (r *Repository) ExistsSKU(ctx context.Context, skuCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Where("sku_code = ?", skuCode).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByCustomer lists all ledger entries held by one customer.
func (r *Repository) FindByCustomer(ctx context.Context, customerRef string) ([]models.ReservationEntry, error) {
	var rows []models.ReservationEntry
	err := r.db.WithContext(ctx).
		Where("customer_ref = ?", customerRef).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByStockAndCustomer resolves the single ledger entry for a stock record
// and customer pair. This is the lookup path used by release.
func (r *Repository) FindByStockAndCustomer(ctx context.Context, stockID uuid.UUID, customerRef string) (*models.ReservationEntry, error) {
	var entry models.ReservationEntry
	err := r.db.WithContext(ctx).
		First(&entry, "stock_id = ? AND customer_ref = ?", stockID, customerRef).
		Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// InsertEntry creates a new ledger row.
func (r *Repository) InsertEntry(ctx context.Context, entry *models.ReservationEntry) (*models.ReservationEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Version == 0 {
		entry.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes a ledger row by ID.
func (r *Repository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ReservationEntry{}).Error
}
