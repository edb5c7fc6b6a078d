package services

import (
	"fmt"

	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/domain/repositories"
)

// IngredientUsage is the consumption of one ingredient over the window
type IngredientUsage struct {
	Ingredient      entities.Ingredient
	TotalUsage      float64
	AvgMonthlyUsage float64
}

// UsageReport holds per-ingredient usage in recipe column order
type UsageReport struct {
	Usages []IngredientUsage
	index  map[entities.IngredientName]int
}

// Usage returns the usage of an ingredient
func (r *UsageReport) Usage(name entities.IngredientName) (IngredientUsage, bool) {
	i, ok := r.index[name]
	if !ok {
		return IngredientUsage{}, false
	}
	return r.Usages[i], true
}

// UsageAggregator joins sale counts against recipes
type UsageAggregator struct {
	windowLength int
}

// NewUsageAggregator creates an aggregator averaging over windowLength months
func NewUsageAggregator(windowLength int) *UsageAggregator {
	return &UsageAggregator{windowLength: windowLength}
}

// Aggregate computes total and average monthly usage of every recipe ingredient.
// Sold items without a recipe contribute nothing.
func (a *UsageAggregator) Aggregate(sales repositories.SalesRepository, recipes repositories.RecipeRepository) (*UsageReport, error) {
	if a.windowLength <= 0 {
		return nil, fmt.Errorf("usage window must be positive, got %d", a.windowLength)
	}

	records, err := sales.GetAllSales()
	if err != nil {
		return nil, fmt.Errorf("failed to read sales: %w", err)
	}
	counts := TotalCountByItem(records)

	type joined struct {
		recipe *entities.Recipe
		count  float64
	}
	var rows []joined
	for _, item := range sortedItemNames(counts) {
		recipe, err := recipes.GetRecipe(item)
		if err != nil {
			continue
		}
		rows = append(rows, joined{recipe: recipe, count: counts[item].InexactFloat64()})
	}

	ingredients := recipes.Ingredients()
	report := &UsageReport{
		Usages: make([]IngredientUsage, len(ingredients)),
		index:  make(map[entities.IngredientName]int, len(ingredients)),
	}
	for i, ingredient := range ingredients {
		total := 0.0
		for _, row := range rows {
			total += row.recipe.QuantityOf(ingredient.Name) * row.count
		}
		report.Usages[i] = IngredientUsage{
			Ingredient:      ingredient,
			TotalUsage:      total,
			AvgMonthlyUsage: total / float64(a.windowLength),
		}
		report.index[ingredient.Name] = i
	}

	return report, nil
}
