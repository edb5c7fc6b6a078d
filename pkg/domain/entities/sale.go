package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemName identifies a sellable menu item
type ItemName string

// MonthLabel is one of the fixed month buckets of the reporting window
type MonthLabel string

// Dataset names one of the logical datasets addressed inside a monthly sale matrix
type Dataset string

const (
	DatasetRevenue   Dataset = "revenue"
	DatasetWarehouse Dataset = "warehouse"
	DatasetItems     Dataset = "items"
)

// SaleRecord is one item-level sale line for a month.
// Amount and Count are invalid when the source cell could not be coerced.
type SaleRecord struct {
	ItemName ItemName
	Month    MonthLabel
	Amount   decimal.NullDecimal
	Count    decimal.NullDecimal
}

// NewSaleRecord creates a validated SaleRecord
func NewSaleRecord(itemName ItemName, month MonthLabel, amount, count decimal.NullDecimal) (*SaleRecord, error) {
	if string(itemName) == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if string(month) == "" {
		return nil, fmt.Errorf("month cannot be empty")
	}

	return &SaleRecord{
		ItemName: itemName,
		Month:    month,
		Amount:   amount,
		Count:    count,
	}, nil
}

// CategorySale is one warehouse/category revenue line for a month
type CategorySale struct {
	Category string
	Month    MonthLabel
	Amount   decimal.NullDecimal
}

// RevenuePoint is the total revenue of one month bucket
type RevenuePoint struct {
	Month        MonthLabel
	TotalRevenue decimal.Decimal
}

// ValueOrZero returns the decimal value, or zero when the value is missing
func ValueOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
