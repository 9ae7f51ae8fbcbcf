package gateway

import (
	"context"
	"encoding/json"

	"github.com/dkempe/inventory-backend/internal/inventory"
	pkgerrors "github.com/dkempe/inventory-backend/pkg/errors"
)

// Handler processes one decoded message payload.
type Handler func(ctx context.Context, payload []byte) error

// reservePayload mirrors the inventory.reserve wire schema. Pointer fields
// distinguish "absent" from zero so missing required fields are rejected as
// malformed rather than treated as zero-value requests.
type reservePayload struct {
	SKUCode    *string `json:"skuCode"`
	Quantity   *int    `json:"quantity"`
	CustomerID *string `json:"customerId"`
}

// releasePayload mirrors the inventory.release wire schema.
type releasePayload struct {
	SKUCode    *string `json:"skuCode"`
	CustomerID *string `json:"customerId"`
}

// ReserveHandler decodes a reserve request and applies it through the engine.
func ReserveHandler(engine inventory.Service) Handler {
	return func(ctx context.Context, payload []byte) error {
		var req reservePayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeMalformedEvent, err, "decode reserve payload")
		}
		if req.SKUCode == nil || *req.SKUCode == "" {
			return pkgerrors.New(pkgerrors.CodeMalformedEvent, "reserve payload missing skuCode")
		}
		if req.Quantity == nil {
			return pkgerrors.New(pkgerrors.CodeMalformedEvent, "reserve payload missing quantity")
		}
		if req.CustomerID == nil || *req.CustomerID == "" {
			return pkgerrors.New(pkgerrors.CodeMalformedEvent, "reserve payload missing customerId")
		}

		_, err := engine.Reserve(ctx, inventory.ReserveInput{
			SKUCode:     *req.SKUCode,
			Quantity:    *req.Quantity,
			CustomerRef: *req.CustomerID,
		})
		return err
	}
}

// ReleaseHandler decodes a release request and applies it through the engine.
func ReleaseHandler(engine inventory.Service) Handler {
	return func(ctx context.Context, payload []byte) error {
		var req releasePayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeMalformedEvent, err, "decode release payload")
		}
		if req.SKUCode == nil || *req.SKUCode == "" {
			return pkgerrors.New(pkgerrors.CodeMalformedEvent, "release payload missing skuCode")
		}
		if req.CustomerID == nil || *req.CustomerID == "" {
			return pkgerrors.New(pkgerrors.CodeMalformedEvent, "release payload missing customerId")
		}

		_, err := engine.Release(ctx, inventory.ReleaseInput{
			SKUCode:     *req.SKUCode,
			CustomerRef: *req.CustomerID,
		})
		return err
	}
}
