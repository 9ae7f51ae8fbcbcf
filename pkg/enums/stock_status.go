package enums

import "fmt"

// StockStatus represents the informational availability state of a stock record.
// It is stored as provided by callers and is not derived from quantity.
type StockStatus string

const (
	StockStatusAvailable    StockStatus = "AVAILABLE"
	StockStatusReserved     StockStatus = "RESERVED"
	StockStatusOutOfStock   StockStatus = "OUT_OF_STOCK"
	StockStatusDiscontinued StockStatus = "DISCONTINUED"
)

var validStockStatuses = []StockStatus{
	StockStatusAvailable,
	StockStatusReserved,
	StockStatusOutOfStock,
	StockStatusDiscontinued,
}

// String implements fmt.Stringer.
func (s StockStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockStatus.
func (s StockStatus) IsValid() bool {
	for _, candidate := range validStockStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockStatus converts raw input into a StockStatus. Single-letter wire
// values (A/R/O/D) from the legacy event schema are accepted too.
func ParseStockStatus(value string) (StockStatus, error) {
	switch value {
	case "A":
		return StockStatusAvailable, nil
	case "R":
		return StockStatusReserved, nil
	case "O":
		return StockStatusOutOfStock, nil
	case "D":
		return StockStatusDiscontinued, nil
	}
	for _, candidate := range validStockStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock status %q", value)
}
