package entities

import "time"

// StockStatus represents the inventory health classification of an ingredient
type StockStatus int

const (
	Stocked StockStatus = iota
	LowStock
	Surplus
)

// String method for StockStatus enum
func (s StockStatus) String() string {
	switch s {
	case Stocked:
		return "Stocked"
	case LowStock:
		return "Low Stock"
	case Surplus:
		return "Surplus"
	default:
		return "Unknown"
	}
}

// MarshalText renders the display label
func (s StockStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status notes
const (
	NoteStockedUnsold = "stocked but unsold"
	NoteNoSalesData   = "no sales data"
	NoteUnderOneWeek  = "buffer under one week of usage"
	NoteOverSixWeeks  = "buffer over six weeks of usage"
	NoteOneToSixWeeks = "buffer is one to six weeks"
)

// Thresholds holds the usage multiples that bound the Stocked band
type Thresholds struct {
	SafetyRatio  float64
	SurplusRatio float64
}

// DefaultThresholds returns the quarter-month safety and six-week surplus ratios
func DefaultThresholds() Thresholds {
	return Thresholds{SafetyRatio: 0.25, SurplusRatio: 1.5}
}

// Classify derives status and note from average monthly usage and stock delta.
// Both buffer comparisons are strict.
func (t Thresholds) Classify(avgMonthlyUsage, stockDelta float64) (StockStatus, string) {
	if avgMonthlyUsage <= 0 {
		if stockDelta > 0 {
			return Surplus, NoteStockedUnsold
		}
		return Stocked, NoteNoSalesData
	}

	safetyBuffer := avgMonthlyUsage * t.SafetyRatio
	surplusBuffer := avgMonthlyUsage * t.SurplusRatio

	switch {
	case stockDelta < safetyBuffer:
		return LowStock, NoteUnderOneWeek
	case stockDelta > surplusBuffer:
		return Surplus, NoteOverSixWeeks
	default:
		return Stocked, NoteOneToSixWeeks
	}
}

// ReconciliationEntry is the usage/supply balance of one ingredient
type ReconciliationEntry struct {
	Ingredient      string
	Unit            Unit
	AvgMonthlyUsage float64
	MonthlyShipment float64
	StockDelta      float64
	Status          StockStatus
	Note            string
}

// LowStockAlert is generated for every Low Stock entry of a run
type LowStockAlert struct {
	Date       time.Time
	Ingredient string
	Message    string
	Icon       string
	Color      string
}
