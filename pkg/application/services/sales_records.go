package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/infrastructure/tabular"
)

// Column names of the sale matrix sheets
const (
	ItemNameColumn = "Item Name"
	CategoryColumn = "Category"
)

// BuildRevenueSeries totals the Amount column of each month's revenue sheet
// and orders the points by the window's month order
func BuildRevenueSeries(tables []MonthTable, order []entities.MonthLabel) []entities.RevenuePoint {
	totals := make(map[entities.MonthLabel]decimal.Decimal, len(tables))
	for _, mt := range tables {
		total := decimal.Zero
		for row := 0; row < mt.Table.Len(); row++ {
			total = total.Add(entities.ValueOrZero(mt.Table.Amount(row, tabular.AmountColumn)))
		}
		totals[mt.Month] = total
	}

	series := make([]entities.RevenuePoint, 0, len(totals))
	for _, month := range order {
		if total, ok := totals[month]; ok {
			series = append(series, entities.RevenuePoint{Month: month, TotalRevenue: total})
		}
	}
	return series
}

// BuildSaleRecords converts item sheets into sale records tagged with their month.
// Rows without an item name are skipped.
func BuildSaleRecords(tables []MonthTable) []*entities.SaleRecord {
	var records []*entities.SaleRecord
	for _, mt := range tables {
		for row := 0; row < mt.Table.Len(); row++ {
			record, err := entities.NewSaleRecord(
				entities.ItemName(mt.Table.Value(row, ItemNameColumn)),
				mt.Month,
				mt.Table.Amount(row, tabular.AmountColumn),
				mt.Table.Count(row, tabular.CountColumn),
			)
			if err != nil {
				continue
			}
			records = append(records, record)
		}
	}
	return records
}

// BuildCategorySales converts warehouse sheets into category revenue lines.
// The second result is false when no sheet carries a Category column.
func BuildCategorySales(tables []MonthTable) ([]entities.CategorySale, bool) {
	var sales []entities.CategorySale
	hasCategory := false
	for _, mt := range tables {
		if !mt.Table.HasColumn(CategoryColumn) {
			continue
		}
		hasCategory = true
		for row := 0; row < mt.Table.Len(); row++ {
			category := mt.Table.Value(row, CategoryColumn)
			if category == "" {
				continue
			}
			sales = append(sales, entities.CategorySale{
				Category: category,
				Month:    mt.Month,
				Amount:   mt.Table.Amount(row, tabular.AmountColumn),
			})
		}
	}
	return sales, hasCategory
}

// TotalCountByItem sums valid Count values per item across all months
func TotalCountByItem(records []*entities.SaleRecord) map[entities.ItemName]decimal.Decimal {
	totals := make(map[entities.ItemName]decimal.Decimal)
	for _, record := range records {
		totals[record.ItemName] = totals[record.ItemName].Add(entities.ValueOrZero(record.Count))
	}
	return totals
}

func sortedItemNames[V any](m map[entities.ItemName]V) []entities.ItemName {
	names := make([]entities.ItemName, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
