package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/dkempe/inventory-backend/pkg/db"
	"github.com/dkempe/inventory-backend/pkg/db/models"
	"github.com/dkempe/inventory-backend/pkg/enums"
	pkgerrors "github.com/dkempe/inventory-backend/pkg/errors"
	"github.com/dkempe/inventory-backend/pkg/logger"
	"github.com/dkempe/inventory-backend/pkg/pagination"
	"github.com/dkempe/inventory-backend/pkg/tracing"
)

// Service exposes stock management and the reservation protocol. Every
// mutating operation runs inside a single transaction and resolves concurrent
// writers through the stock record's version counter.
type Service interface {
	Create(ctx context.Context, input CreateStockInput) (*StockDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStockInput) (*StockDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reserve(ctx context.Context, input ReserveInput) (*StockDTO, error)
	Release(ctx context.Context, input ReleaseInput) (*StockDTO, error)
	FindByID(ctx context.Context, id uuid.UUID) (*StockDTO, error)
	Find(ctx context.Context, filter StockFilter, pageable pagination.Pageable) (*pagination.Slice[StockDTO], error)
	ListReservationsByCustomer(ctx context.Context, customerRef string) ([]ReservationDTO, error)
}

// service implements the reservation engine.
type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	tracer   trace.Tracer
}

// NewService constructs the reservation engine.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		logg:     logg,
		tracer:   tracing.Tracer("inventory.engine"),
	}, nil
}

// Create persists a new stock record with version 1.
func (s *service) Create(ctx context.Context, input CreateStockInput) (*StockDTO, error) {
	ctx, span := s.tracer.Start(ctx, "engine.create",
		trace.WithAttributes(attribute.String("sku_code", input.SKUCode)))
	defer span.End()

	if err := validateStockFields(input.SKUCode, input.Quantity, input.UnitPrice.IsNegative(), input.Status); err != nil {
		return nil, err
	}

	var created *models.StockRecord
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		exists, err := txRepo.ExistsSKU(ctx, input.SKUCode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sku")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeDuplicateSku, "sku code already exists").
				WithDetails(map[string]any{"skuCode": input.SKUCode})
		}

		record := &models.StockRecord{
			SKUCode:    input.SKUCode,
			Quantity:   input.Quantity,
			UnitPrice:  input.UnitPrice,
			Status:     input.Status,
			ProductRef: input.ProductRef,
		}
		created, err = txRepo.Insert(ctx, record)
		if err != nil {
			if db.IsUniqueViolation(err, "idx_stock_records_sku_code") {
				return pkgerrors.New(pkgerrors.CodeDuplicateSku, "sku code already exists").
					WithDetails(map[string]any{"skuCode": input.SKUCode})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock record")
		}
		return nil
	}); err != nil {
		return nil, s.asDomainError(err, "create stock record")
	}

	ctx = s.logg.WithSKU(ctx, created.SKUCode)
	s.logg.Info(ctx, "stock record created")
	return NewStockDTO(created), nil
}

// Update overwrites the mutable fields of an existing record via a
// version-checked write.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateStockInput) (*StockDTO, error) {
	ctx, span := s.tracer.Start(ctx, "engine.update",
		trace.WithAttributes(attribute.String("stock_id", id.String())))
	defer span.End()

	if err := validateStockFields(input.SKUCode, input.Quantity, input.UnitPrice.IsNegative(), input.Status); err != nil {
		return nil, err
	}

	var updated *models.StockRecord
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock record")
		}

		if record.SKUCode != input.SKUCode {
			exists, err := txRepo.ExistsSKU(ctx, input.SKUCode)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sku")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeDuplicateSku, "sku code already exists").
					WithDetails(map[string]any{"skuCode": input.SKUCode})
			}
		}

		record.SKUCode = input.SKUCode
		record.Quantity = input.Quantity
		record.UnitPrice = input.UnitPrice
		record.Status = input.Status
		record.ProductRef = input.ProductRef

		updated, err = txRepo.UpdateWithVersion(ctx, record, record.Version)
		return err
	}); err != nil {
		return nil, s.asDomainError(err, "update stock record")
	}

	return NewStockDTO(updated), nil
}

// Delete removes a stock record and, through the FK cascade, all of its
// ledger entries.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "engine.delete",
		trace.WithAttributes(attribute.String("stock_id", id.String())))
	defer span.End()

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock record")
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete stock record")
		}
		return nil
	}); err != nil {
		return s.asDomainError(err, "delete stock record")
	}
	return nil
}

// Reserve withholds quantity from a SKU for one customer. The read and the
// version-checked write share one transaction so a concurrent writer makes
// the commit fail rather than oversell.
func (s *service) Reserve(ctx context.Context, input ReserveInput) (*StockDTO, error) {
	ctx, span := s.tracer.Start(ctx, "engine.reserve",
		trace.WithAttributes(
			attribute.String("sku_code", input.SKUCode),
			attribute.Int("quantity", input.Quantity),
		))
	defer span.End()

	if strings.TrimSpace(input.SKUCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "skuCode is required")
	}
	if strings.TrimSpace(input.CustomerRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customerRef is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var updated *models.StockRecord
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindBySKU(ctx, input.SKUCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found").
					WithDetails(map[string]any{"skuCode": input.SKUCode})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock record")
		}

		if record.Quantity < input.Quantity {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"skuCode":   input.SKUCode,
					"available": record.Quantity,
					"requested": input.Quantity,
				})
		}

		record.Quantity -= input.Quantity
		updated, err = txRepo.UpdateWithVersion(ctx, record, record.Version)
		if err != nil {
			return err
		}

		entry := &models.ReservationEntry{
			StockID:     record.ID,
			Quantity:    input.Quantity,
			CustomerRef: input.CustomerRef,
		}
		if _, err := txRepo.InsertEntry(ctx, entry); err != nil {
			if db.IsUniqueViolation(err, "idx_reservation_entries_stock_customer") {
				return pkgerrors.New(pkgerrors.CodeConflict, "customer already holds a reservation for this sku").
					WithDetails(map[string]any{"skuCode": input.SKUCode, "customerRef": input.CustomerRef})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert reservation entry")
		}
		return nil
	}); err != nil {
		return nil, s.asDomainError(err, "reserve stock")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"sku_code":     input.SKUCode,
		"customer_ref": input.CustomerRef,
		"quantity":     input.Quantity,
	})
	s.logg.Info(ctx, "stock reserved")
	return NewStockDTO(updated), nil
}

// Release returns a customer's full reservation to availability and removes
// the ledger entry. A release is all-or-nothing for one entry.
func (s *service) Release(ctx context.Context, input ReleaseInput) (*StockDTO, error) {
	ctx, span := s.tracer.Start(ctx, "engine.release",
		trace.WithAttributes(attribute.String("sku_code", input.SKUCode)))
	defer span.End()

	if strings.TrimSpace(input.SKUCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "skuCode is required")
	}
	if strings.TrimSpace(input.CustomerRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customerRef is required")
	}

	var updated *models.StockRecord
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindBySKU(ctx, input.SKUCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found").
					WithDetails(map[string]any{"skuCode": input.SKUCode})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock record")
		}

		entry, err := txRepo.FindByStockAndCustomer(ctx, record.ID, input.CustomerRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found").
					WithDetails(map[string]any{"skuCode": input.SKUCode, "customerRef": input.CustomerRef})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load reservation entry")
		}

		record.Quantity += entry.Quantity
		updated, err = txRepo.UpdateWithVersion(ctx, record, record.Version)
		if err != nil {
			return err
		}

		if err := txRepo.DeleteEntry(ctx, entry.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete reservation entry")
		}
		return nil
	}); err != nil {
		return nil, s.asDomainError(err, "release stock")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"sku_code":     input.SKUCode,
		"customer_ref": input.CustomerRef,
	})
	s.logg.Info(ctx, "stock released")
	return NewStockDTO(updated), nil
}

// FindByID loads one stock record.
func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*StockDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock record")
	}
	return NewStockDTO(record), nil
}

// Find returns one page of stock records matching the filter.
func (s *service) Find(ctx context.Context, filter StockFilter, pageable pagination.Pageable) (*pagination.Slice[StockDTO], error) {
	pageable = pageable.Normalize()
	rows, total, err := s.repo.FindPage(ctx, filter, pageable)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock records")
	}
	dtos := make([]StockDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewStockDTO(&rows[i]))
	}
	slice := pagination.NewSlice(dtos, total, pageable)
	return &slice, nil
}

// ListReservationsByCustomer lists the ledger entries held by one customer.
func (s *service) ListReservationsByCustomer(ctx context.Context, customerRef string) ([]ReservationDTO, error) {
	if strings.TrimSpace(customerRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customerRef is required")
	}
	rows, err := s.repo.FindByCustomer(ctx, customerRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
	}
	dtos := make([]ReservationDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewReservationDTO(&rows[i]))
	}
	return dtos, nil
}

// asDomainError passes typed errors through and wraps anything else as a
// dependency failure so callers can distinguish business rejections from
// infrastructure faults.
func (s *service) asDomainError(err error, op string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func validateStockFields(skuCode string, quantity int, priceNegative bool, status enums.StockStatus) error {
	if strings.TrimSpace(skuCode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "skuCode is required")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if priceNegative {
		return pkgerrors.New(pkgerrors.CodeValidation, "unitPrice must be non-negative")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "status must be a known stock status")
	}
	return nil
}
