package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/infrastructure/repositories/memory"
	"github.com/msydata/dashboard/pkg/logging"
)

func sale(item entities.ItemName, month entities.MonthLabel, count int64) *entities.SaleRecord {
	return &entities.SaleRecord{
		ItemName: item,
		Month:    month,
		Count:    decimal.NewNullDecimal(decimal.NewFromInt(count)),
	}
}

func salesRepo(t *testing.T, records ...*entities.SaleRecord) *memory.SalesRepository {
	t.Helper()
	repo := memory.NewSalesRepository()
	require.NoError(t, repo.LoadSales(records))
	return repo
}

func recipeRepo(t *testing.T, ingredients []entities.Ingredient, recipes ...*entities.Recipe) *memory.RecipeRepository {
	t.Helper()
	repo := memory.NewRecipeRepository(len(recipes))
	require.NoError(t, repo.LoadRecipes(ingredients, recipes))
	return repo
}

func shipmentRepo(t *testing.T, shipments ...*entities.Shipment) *memory.ShipmentRepository {
	t.Helper()
	repo := memory.NewShipmentRepository(len(shipments))
	require.NoError(t, repo.LoadShipments(shipments))
	return repo
}

func shipment(t *testing.T, name entities.ShipmentName, frequency string, qty, count, factor float64) *entities.Shipment {
	t.Helper()
	s, err := entities.NewShipment(name, frequency, qty, count, "g", factor)
	require.NoError(t, err)
	return s
}

func TestUsageAggregator_Aggregate(t *testing.T) {
	ingredients := []entities.Ingredient{
		{Name: "Rice", Unit: entities.Grams},
		{Name: "Egg", Unit: entities.Count},
		{Name: "Flour", Unit: entities.Grams},
	}
	recipes := recipeRepo(t, ingredients,
		&entities.Recipe{ItemName: "Fried Rice", Quantities: map[entities.IngredientName]float64{"Rice": 250, "Egg": 2}},
		&entities.Recipe{ItemName: "Steamed Rice", Quantities: map[entities.IngredientName]float64{"Rice": 200}},
		&entities.Recipe{ItemName: "Dumplings", Quantities: map[entities.IngredientName]float64{"Flour": 80}},
	)
	sales := salesRepo(t,
		sale("Fried Rice", "May", 10),
		sale("Fried Rice", "June", 20),
		sale("Steamed Rice", "May", 5),
		sale("Milk Tea", "May", 100),
		&entities.SaleRecord{ItemName: "Fried Rice", Month: "July"},
	)

	report, err := NewUsageAggregator(6).Aggregate(sales, recipes)
	require.NoError(t, err)
	require.Len(t, report.Usages, 3)

	rice, ok := report.Usage("Rice")
	require.True(t, ok)
	assert.Equal(t, 30*250.0+5*200.0, rice.TotalUsage)
	assert.InDelta(t, (30*250.0+5*200.0)/6, rice.AvgMonthlyUsage, 1e-9)

	egg, ok := report.Usage("Egg")
	require.True(t, ok)
	assert.Equal(t, 60.0, egg.TotalUsage)
	assert.Equal(t, entities.Count, egg.Ingredient.Unit)

	flour, ok := report.Usage("Flour")
	require.True(t, ok)
	assert.Equal(t, 0.0, flour.TotalUsage, "recipe without sales uses nothing")

	_, ok = report.Usage("Milk Tea")
	assert.False(t, ok)

	_, err = NewUsageAggregator(0).Aggregate(sales, recipes)
	assert.EqualError(t, err, "usage window must be positive, got 0")
}

func newUsageReport(usages map[entities.IngredientName]float64, order ...entities.IngredientName) *UsageReport {
	report := &UsageReport{index: make(map[entities.IngredientName]int)}
	for i, name := range order {
		report.Usages = append(report.Usages, IngredientUsage{
			Ingredient:      entities.Ingredient{Name: name},
			TotalUsage:      usages[name] * 6,
			AvgMonthlyUsage: usages[name],
		})
		report.index[name] = i
	}
	return report
}

func reconciliationConfig() config.Pipeline {
	cfg := config.Default()
	cfg.IngredientMap = []config.IngredientMapping{
		{Shipment: "Beef", Recipe: "braised beef used"},
		{Shipment: "Ramen", Recipe: "Ramen"},
		{Shipment: "Rice", Recipe: "Rice"},
		{Shipment: "Peas + Carrot", Recipe: "Peas"},
		{Shipment: "Egg", Recipe: "Egg"},
		{Shipment: "Flour", Recipe: "flour"},
	}
	return cfg
}

func TestReconciliationService_Reconcile(t *testing.T) {
	cfg := reconciliationConfig()
	service := NewReconciliationService(cfg, logging.Discard(), nil)

	usage := newUsageReport(map[entities.IngredientName]float64{
		"braised beef used": 1000,
		"Rice":              5000,
		"Peas":              300,
		"Carrot":            300,
		"Egg":               0,
	}, "braised beef used", "Rice", "Peas", "Carrot", "Egg")

	recipes := recipeRepo(t, []entities.Ingredient{
		{Name: "braised beef used", Unit: entities.Grams},
		{Name: "Rice", Unit: entities.Grams},
		{Name: "Peas", Unit: entities.Grams},
		{Name: "Carrot", Unit: entities.Grams},
		{Name: "Egg", Unit: entities.Count},
	})

	shipments := shipmentRepo(t,
		shipment(t, "Beef", "Weekly", 250, 1, 1),   // 1000 delivered
		shipment(t, "Rice", "Monthly", 7000, 1, 1), // 7000 delivered
		shipment(t, "Peas + Carrot", "Weekly", 400, 1, 1),
		shipment(t, "Egg", "Weekly", 30, 1, 1),
		shipment(t, "Flour", "Weekly", 1, 1, 1),
	)

	result, err := service.Reconcile(context.Background(), usage, shipments, recipes)
	require.NoError(t, err)
	require.Len(t, result.Entries, 4)

	beef := result.Entries[0]
	assert.Equal(t, "Beef", beef.Ingredient)
	assert.Equal(t, 0.0, beef.StockDelta)
	assert.Equal(t, entities.LowStock, beef.Status)

	rice := result.Entries[1]
	assert.Equal(t, "Rice", rice.Ingredient)
	assert.Equal(t, 2000.0, rice.StockDelta)
	assert.Equal(t, entities.Stocked, rice.Status)

	peas := result.Entries[2]
	assert.Equal(t, "Peas & Carrot", peas.Ingredient)
	assert.Equal(t, 600.0, peas.AvgMonthlyUsage)
	assert.Equal(t, 1600.0, peas.MonthlyShipment)
	assert.Equal(t, entities.Surplus, peas.Status)
	assert.Equal(t, entities.NoteOverSixWeeks, peas.Note)

	egg := result.Entries[3]
	assert.Equal(t, entities.Count, egg.Unit)
	assert.Equal(t, entities.Surplus, egg.Status)
	assert.Equal(t, entities.NoteStockedUnsold, egg.Note)

	assert.Equal(t, []LookupMiss{
		{Shipment: "Ramen", Recipe: "Ramen", Side: MissingShipment},
		{Shipment: "Flour", Recipe: "flour", Side: MissingRecipe},
	}, result.Misses)

	assert.Equal(t, 1, result.LowStockCount())
}

func TestReconciliationService_CombinedComponentMissing(t *testing.T) {
	cfg := reconciliationConfig()
	cfg.IngredientMap = []config.IngredientMapping{{Shipment: "Peas + Carrot", Recipe: "Peas"}}
	service := NewReconciliationService(cfg, logging.Discard(), nil)

	usage := newUsageReport(map[entities.IngredientName]float64{"Peas": 300}, "Peas")
	recipes := recipeRepo(t, []entities.Ingredient{{Name: "Peas"}})
	shipments := shipmentRepo(t, shipment(t, "Peas + Carrot", "Weekly", 400, 1, 1))

	result, err := service.Reconcile(context.Background(), usage, shipments, recipes)
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Equal(t, []LookupMiss{{Shipment: "Peas + Carrot", Recipe: "Carrot", Side: MissingRecipe}}, result.Misses)

	_, err = service.Reconcile(context.Background(), nil, shipments, recipes)
	assert.Error(t, err)
}

func TestRoundForDisplay(t *testing.T) {
	testCases := []struct {
		input    float64
		expected float64
	}{
		{907.184, 907},
		{-92.816, -93},
		{2.5, 2},
		{3.5, 4},
		{-0.4, 0},
	}

	for _, tc := range testCases {
		got := RoundForDisplay(tc.input)
		assert.Equal(t, tc.expected, got, "input %v", tc.input)
	}
}

func TestReconciliationResult_Views(t *testing.T) {
	result := &ReconciliationResult{Entries: []entities.ReconciliationEntry{
		{Ingredient: "Rice", StockDelta: 4750.4, Status: entities.Stocked},
		{Ingredient: "Beef", StockDelta: -92.816, Status: entities.LowStock},
		{Ingredient: "Egg", StockDelta: 100, Status: entities.Surplus},
		{Ingredient: "Chicken", StockDelta: 100.2, Status: entities.LowStock},
	}}

	var order []string
	for _, entry := range result.ChartOrder() {
		order = append(order, entry.Ingredient)
	}
	assert.Equal(t, []string{"Beef", "Egg", "Chicken", "Rice"}, order, "rounded ties keep mapping order")

	rounded := result.Rounded()
	assert.Equal(t, 4750.0, rounded[0].StockDelta)
	assert.Equal(t, 4750.4, result.Entries[0].StockDelta, "rounding does not mutate entries")

	now := time.Date(2025, time.November, 3, 21, 40, 0, 0, time.UTC)
	alerts := result.LowStockAlerts(now)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Beef", alerts[0].Ingredient)
	assert.Equal(t, "Low stock alert: Beef buffer is less than 1 week of usage", alerts[0].Message)
	assert.Equal(t, "fa-exclamation-triangle", alerts[0].Icon)
	assert.Equal(t, "warning", alerts[0].Color)
	assert.Equal(t, now, alerts[1].Date)

	assert.Equal(t, "rgba(231, 74, 59, 0.8)", ColorsFor(entities.LowStock).Fill)
	assert.Equal(t, "rgba(246, 194, 62, 1)", ColorsFor(entities.Surplus).Border)
	assert.Equal(t, "rgba(28, 200, 138, 0.8)", ColorsFor(entities.Stocked).Fill)
}
