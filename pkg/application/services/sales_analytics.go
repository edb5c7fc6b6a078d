package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/msydata/dashboard/pkg/domain/entities"
)

// AllOthersLabel names the aggregated donut bucket
const AllOthersLabel = "All Others"

// ItemSummary is one row of the ranked item table
type ItemSummary struct {
	ItemName   entities.ItemName
	Amount     decimal.Decimal
	Count      decimal.Decimal
	MonthsData int
	AvgPrice   decimal.Decimal
}

// ItemCount pairs an item with its summed sale count
type ItemCount struct {
	ItemName entities.ItemName
	Count    decimal.Decimal
}

// CategoryAmount pairs a warehouse category with its summed revenue
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// Share is one slice of the revenue donut
type Share struct {
	Label  string
	Amount decimal.Decimal
}

// SalesAnalytics derives the scalar KPIs and rankings from sale records
type SalesAnalytics struct{}

// NewSalesAnalytics creates a sales analytics service
func NewSalesAnalytics() *SalesAnalytics {
	return &SalesAnalytics{}
}

// RankItems totals amount and count per item and sorts by amount, highest first.
// Equal amounts are ordered by item name.
func (a *SalesAnalytics) RankItems(records []*entities.SaleRecord) []ItemSummary {
	type accumulator struct {
		amount decimal.Decimal
		count  decimal.Decimal
		months map[entities.MonthLabel]bool
	}

	acc := make(map[entities.ItemName]*accumulator)
	for _, record := range records {
		item, ok := acc[record.ItemName]
		if !ok {
			item = &accumulator{months: make(map[entities.MonthLabel]bool)}
			acc[record.ItemName] = item
		}
		item.amount = item.amount.Add(entities.ValueOrZero(record.Amount))
		item.count = item.count.Add(entities.ValueOrZero(record.Count))
		item.months[record.Month] = true
	}

	summaries := make([]ItemSummary, 0, len(acc))
	for _, name := range sortedItemNames(acc) {
		item := acc[name]
		avgPrice := decimal.Zero
		if !item.count.IsZero() {
			avgPrice = item.amount.DivRound(item.count, 4)
		}
		summaries = append(summaries, ItemSummary{
			ItemName:   name,
			Amount:     item.amount,
			Count:      item.count,
			MonthsData: len(item.months),
			AvgPrice:   avgPrice,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Amount.GreaterThan(summaries[j].Amount)
	})
	return summaries
}

// BestAndWorstSelling returns the items with the highest and lowest summed count.
// Ties resolve to the lexically first item name.
func (a *SalesAnalytics) BestAndWorstSelling(records []*entities.SaleRecord) (best, worst ItemCount, ok bool) {
	counts := TotalCountByItem(records)
	names := sortedItemNames(counts)
	if len(names) == 0 {
		return ItemCount{}, ItemCount{}, false
	}

	best = ItemCount{ItemName: names[0], Count: counts[names[0]]}
	worst = best
	for _, name := range names[1:] {
		count := counts[name]
		if count.GreaterThan(best.Count) {
			best = ItemCount{ItemName: name, Count: count}
		}
		if count.LessThan(worst.Count) {
			worst = ItemCount{ItemName: name, Count: count}
		}
	}
	return best, worst, true
}

// TopCategory returns the warehouse category with the highest summed amount.
// Ties resolve to the lexically first category.
func (a *SalesAnalytics) TopCategory(sales []entities.CategorySale) (CategoryAmount, bool) {
	totals := make(map[string]decimal.Decimal)
	for _, sale := range sales {
		totals[sale.Category] = totals[sale.Category].Add(entities.ValueOrZero(sale.Amount))
	}
	if len(totals) == 0 {
		return CategoryAmount{}, false
	}

	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	top := CategoryAmount{Category: categories[0], Amount: totals[categories[0]]}
	for _, category := range categories[1:] {
		if totals[category].GreaterThan(top.Amount) {
			top = CategoryAmount{Category: category, Amount: totals[category]}
		}
	}
	return top, true
}

// RevenueShares returns the first size ranked items plus one bucket holding
// the summed amount of the rest
func (a *SalesAnalytics) RevenueShares(ranked []ItemSummary, size int) []Share {
	if size > len(ranked) {
		size = len(ranked)
	}

	shares := make([]Share, 0, size+1)
	for _, item := range ranked[:size] {
		shares = append(shares, Share{Label: string(item.ItemName), Amount: item.Amount})
	}

	others := decimal.Zero
	for _, item := range ranked[size:] {
		others = others.Add(item.Amount)
	}
	return append(shares, Share{Label: AllOthersLabel, Amount: others})
}

// WindowTotal sums the revenue series
func (a *SalesAnalytics) WindowTotal(series []entities.RevenuePoint) decimal.Decimal {
	total := decimal.Zero
	for _, point := range series {
		total = total.Add(point.TotalRevenue)
	}
	return total
}

// MonthRevenue returns the revenue of one month, zero when the month is absent
func (a *SalesAnalytics) MonthRevenue(series []entities.RevenuePoint, month entities.MonthLabel) decimal.Decimal {
	for _, point := range series {
		if point.Month == month {
			return point.TotalRevenue
		}
	}
	return decimal.Zero
}
