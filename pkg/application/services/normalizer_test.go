package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/infrastructure/tabular"
	"github.com/msydata/dashboard/pkg/logging"
)

func newTable(t *testing.T, header []string, rows ...[]string) *tabular.Table {
	t.Helper()
	table, err := tabular.NewTable(header, rows)
	require.NoError(t, err)
	return table
}

func TestParseIngredientHeader(t *testing.T) {
	testCases := []struct {
		header       string
		expectedName entities.IngredientName
		expectedUnit entities.Unit
	}{
		{"Rice (g)", "Rice", entities.Grams},
		{"chicken thigh (pcs)", "chicken thigh", entities.Pieces},
		{"Egg (count)", "Egg", entities.Count},
		{"Rice(g)", "Rice", entities.Grams},
		{"Green Onion", "Green Onion", entities.Grams},
		{"Sauce (ml)", "Sauce (ml)", entities.Grams},
	}

	for _, tc := range testCases {
		t.Run(tc.header, func(t *testing.T) {
			name, unit := ParseIngredientHeader(tc.header)
			assert.Equal(t, tc.expectedName, name)
			assert.Equal(t, tc.expectedUnit, unit)
		})
	}
}

func TestRecipeNormalizer_Normalize(t *testing.T) {
	normalizer := NewRecipeNormalizer(config.Default(), logging.Discard())

	t.Run("composite fold", func(t *testing.T) {
		table := newTable(t,
			[]string{"Item name", "Braised Chicken", "chicken thigh (pcs)", "Rice (g)", "Egg (count)"},
			[]string{"Chicken Rice", "100", "2", "200", ""},
			[]string{"Plain Rice", "", "", "180", "1"},
		)

		repo, err := normalizer.Normalize(context.Background(), table)
		require.NoError(t, err)

		recipe, err := repo.GetRecipe("Chicken Rice")
		require.NoError(t, err)
		assert.Equal(t, 300.0, recipe.QuantityOf("Total_Chicken_Usage"))
		assert.Equal(t, 200.0, recipe.QuantityOf("Rice"))
		assert.Equal(t, 0.0, recipe.QuantityOf("Egg"), "missing cell defaults to zero")
		assert.NotContains(t, recipe.Quantities, entities.IngredientName("Braised Chicken"))
		assert.NotContains(t, recipe.Quantities, entities.IngredientName("chicken thigh"))

		plain, err := repo.GetRecipe("Plain Rice")
		require.NoError(t, err)
		assert.Equal(t, 0.0, plain.QuantityOf("Total_Chicken_Usage"))

		var names []entities.IngredientName
		for _, ingredient := range repo.Ingredients() {
			names = append(names, ingredient.Name)
		}
		assert.Equal(t, []entities.IngredientName{"Rice", "Egg", "Total_Chicken_Usage"}, names)

		unit, ok := repo.Unit("Egg")
		require.True(t, ok)
		assert.Equal(t, entities.Count, unit)

		_, ok = repo.Unit("Braised Chicken")
		assert.False(t, ok)
	})

	t.Run("fold skipped when sources are absent", func(t *testing.T) {
		table := newTable(t,
			[]string{"Item name", "Rice (g)"},
			[]string{"Plain Rice", "180"},
		)

		repo, err := normalizer.Normalize(context.Background(), table)
		require.NoError(t, err)
		_, ok := repo.Unit("Total_Chicken_Usage")
		assert.False(t, ok)
	})

	t.Run("fold with one source present", func(t *testing.T) {
		table := newTable(t,
			[]string{"Item name", "chicken thigh (pcs)"},
			[]string{"Wings", "3"},
		)

		repo, err := normalizer.Normalize(context.Background(), table)
		require.NoError(t, err)
		recipe, err := repo.GetRecipe("Wings")
		require.NoError(t, err)
		assert.Equal(t, 300.0, recipe.QuantityOf("Total_Chicken_Usage"))
	})

	t.Run("canonical identifier column accepted", func(t *testing.T) {
		table := newTable(t,
			[]string{"Item Name", "Rice (g)"},
			[]string{"Plain Rice", "180"},
		)

		repo, err := normalizer.Normalize(context.Background(), table)
		require.NoError(t, err)
		_, err = repo.GetRecipe("Plain Rice")
		assert.NoError(t, err)
	})

	t.Run("duplicate rows keep the first", func(t *testing.T) {
		table := newTable(t,
			[]string{"Item name", "Rice (g)"},
			[]string{"Plain Rice", "180"},
			[]string{"Plain Rice", "999"},
			[]string{"", "5"},
		)

		repo, err := normalizer.Normalize(context.Background(), table)
		require.NoError(t, err)
		all, err := repo.GetAllRecipes()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, 180.0, all[0].QuantityOf("Rice"))
	})

	t.Run("missing identifier column", func(t *testing.T) {
		table := newTable(t, []string{"Dish", "Rice (g)"}, []string{"Plain Rice", "180"})

		_, err := normalizer.Normalize(context.Background(), table)
		assert.EqualError(t, err, `recipe table has no "Item name" column`)
	})
}

func TestCadenceMultiplier(t *testing.T) {
	testCases := []struct {
		frequency string
		expected  float64
	}{
		{"Weekly", 4},
		{"Biweekly", 2},
		{"Monthly", 1},
		{"", 0},
		{"quarterly", 0},
		{"twice WEEKLY", 4},
	}

	for _, tc := range testCases {
		t.Run(tc.frequency, func(t *testing.T) {
			assert.Equal(t, tc.expected, CadenceMultiplier(tc.frequency))
		})
	}
}

func TestShipmentNormalizer_Normalize(t *testing.T) {
	normalizer := NewShipmentNormalizer(config.Default(), logging.Discard())

	table := newTable(t,
		[]string{ShipmentIngredientColumn, ShipmentFrequencyColumn, ShipmentQuantityColumn, ShipmentCountColumn, ShipmentUnitColumn},
		[]string{"Beef", "Weekly", "10", "2", "lbs"},
		[]string{"White Onion", "Monthly", "4", "1", "whole onion"},
		[]string{"Cilantro", "Biweekly", "", "3", "bunch"},
		[]string{"Salt", "", "5", "1", "g"},
		[]string{"Beef", "Monthly", "1", "1", "lbs"},
		[]string{"", "Weekly", "1", "1", "g"},
	)

	repo, err := normalizer.Normalize(context.Background(), table)
	require.NoError(t, err)

	all, err := repo.GetAllShipments()
	require.NoError(t, err)
	require.Len(t, all, 4)

	beef, err := repo.GetShipment("Beef")
	require.NoError(t, err)
	assert.Equal(t, entities.Weekly, beef.Cadence, "first duplicate row wins")
	assert.InDelta(t, 10*2*4*453.592, beef.MonthlyDelivered(), 1e-9)

	onion, err := repo.GetShipment("White Onion")
	require.NoError(t, err)
	assert.Equal(t, 600.0, onion.MonthlyDelivered())

	cilantro, err := repo.GetShipment("Cilantro")
	require.NoError(t, err)
	assert.Equal(t, 0.0, cilantro.MonthlyDelivered(), "missing quantity counts as zero")
	assert.Equal(t, 1.0, cilantro.ConversionFactor, "unknown unit is canonical")

	salt, err := repo.GetShipment("Salt")
	require.NoError(t, err)
	assert.Equal(t, entities.CadenceUnknown, salt.Cadence)
	assert.Equal(t, 0.0, salt.MonthlyDelivered())

	t.Run("missing ingredient column", func(t *testing.T) {
		_, err := normalizer.Normalize(context.Background(), newTable(t, []string{"Name"}))
		assert.EqualError(t, err, `shipment table has no "Ingredient" column`)
	})
}
