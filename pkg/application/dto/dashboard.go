package dto

import (
	"github.com/shopspring/decimal"
)

// Dashboard contains the complete output of one pipeline run
type Dashboard struct {
	GeneratedAt    string          `json:"generated_at"`
	KPIs           KPIs            `json:"kpis"`
	RevenueChart   RevenueChart    `json:"revenue_chart"`
	TopItems       []ItemRow       `json:"top_items"`
	Inventory      []InventoryRow  `json:"inventory"`
	InventoryChart InventoryChart  `json:"inventory_chart"`
	Donut          DonutChart      `json:"donut"`
	LowStockAlerts []LowStockAlert `json:"low_stock_alerts"`
	SkippedMapping []SkippedEntry  `json:"skipped_mapping"`
}

// KPIs is the scalar block at the top of the dashboard
type KPIs struct {
	LatestMonth        string          `json:"latest_month"`
	LatestMonthRevenue decimal.Decimal `json:"latest_month_revenue"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	BestSelling        NamedValue      `json:"best_selling"`
	WorstSelling       NamedValue      `json:"worst_selling"`
	TopCategory        NamedValue      `json:"top_category"`
	TopItem            NamedValue      `json:"top_item"`
	LowStockCount      int             `json:"low_stock_count"`
}

// NamedValue pairs a display name with a count or amount
type NamedValue struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// RevenueChart holds the actual series and the one-step projection.
// The projection series are aligned to Labels and are null except at the last
// actual point and the projected point.
type RevenueChart struct {
	Labels      []string   `json:"labels"`
	Actual      []float64  `json:"actual"`
	Prediction  []*float64 `json:"prediction"`
	Optimistic  []*float64 `json:"optimistic"`
	Pessimistic []*float64 `json:"pessimistic"`
}

// ItemRow is one record of the ranked item table
type ItemRow struct {
	ItemName   string  `json:"Item Name"`
	Amount     float64 `json:"Amount"`
	Count      float64 `json:"Count"`
	MonthsData int     `json:"Months_Data"`
	AvgPrice   float64 `json:"Avg_Price"`
}

// InventoryRow is one record of the reconciliation table, quantities rounded
type InventoryRow struct {
	Ingredient      string  `json:"Ingredient"`
	Unit            string  `json:"Unit"`
	AvgMonthlyUsage float64 `json:"Avg_Monthly_Usage"`
	MonthlyShipment float64 `json:"Monthly_Shipment"`
	StockDelta      float64 `json:"Stock_Delta"`
	Status          string  `json:"Status"`
	Note            string  `json:"Note"`
}

// InventoryChart is the reconciliation sorted by stock delta for charting
type InventoryChart struct {
	Labels       []string  `json:"labels"`
	Data         []float64 `json:"data"`
	Colors       []string  `json:"colors"`
	BorderColors []string  `json:"borderColors"`
	Units        []string  `json:"units"`
}

// DonutChart is the revenue share of the top items plus the remainder
type DonutChart struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// LowStockAlert is one alert record for a Low Stock ingredient
type LowStockAlert struct {
	Date       string `json:"date"`
	Ingredient string `json:"ingredient"`
	Message    string `json:"message"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
}

// SkippedEntry reports a mapping entry dropped because one side was absent
type SkippedEntry struct {
	Shipment string `json:"shipment"`
	Recipe   string `json:"recipe"`
	Missing  string `json:"missing"`
}

// EmptyInventory returns the inventory section with every collection empty
// rather than nil, so it serializes as [] instead of null
func EmptyInventory() (rows []InventoryRow, chart InventoryChart, alerts []LowStockAlert, skipped []SkippedEntry) {
	return []InventoryRow{},
		InventoryChart{Labels: []string{}, Data: []float64{}, Colors: []string{}, BorderColors: []string{}, Units: []string{}},
		[]LowStockAlert{},
		[]SkippedEntry{}
}
