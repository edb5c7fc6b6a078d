package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msydata/dashboard/pkg/domain/entities"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []entities.MonthLabel{"May", "June", "July", "August", "September", "October"}, cfg.MonthOrder())
	assert.Equal(t, 6, cfg.WindowLength())
	assert.Equal(t, "data 3", cfg.Months[5].Sheets[entities.DatasetRevenue])
	assert.Equal(t, "data 1", cfg.Months[0].Sheets[entities.DatasetRevenue])
	assert.Len(t, cfg.IngredientMap, 14)
	assert.Equal(t, entities.ShipmentName("Beef"), cfg.IngredientMap[0].Shipment)
	assert.Equal(t, entities.ShipmentName("Chicken Wings"), cfg.IngredientMap[13].Shipment)

	thresholds := cfg.StatusThresholds()
	assert.Equal(t, 0.25, thresholds.SafetyRatio)
	assert.Equal(t, 1.5, thresholds.SurplusRatio)
}

func TestPipeline_ConversionFactor(t *testing.T) {
	cfg := Default()

	testCases := []struct {
		unit     string
		expected float64
	}{
		{"lbs", 453.592},
		{"whole onion", 150},
		{"eggs", 1},
		{"g", 1},
		{"crates", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.unit, func(t *testing.T) {
			assert.Equal(t, tc.expected, cfg.ConversionFactor(tc.unit))
		})
	}
}

func TestPipeline_CombinedShipmentFor(t *testing.T) {
	cfg := Default()

	combined, ok := cfg.CombinedShipmentFor("Peas + Carrot")
	require.True(t, ok)
	assert.Equal(t, "Peas & Carrot", combined.DisplayName)
	assert.Equal(t, []entities.IngredientName{"Peas", "Carrot"}, combined.Components)

	_, ok = cfg.CombinedShipmentFor("Beef")
	assert.False(t, ok)
}

func TestPipeline_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(p *Pipeline)
		expectError string
	}{
		{"no months", func(p *Pipeline) { p.Months = nil }, "at least one month source is required"},
		{"bad month", func(p *Pipeline) { p.Months[0].Month = "Maytember" }, "invalid month label: Maytember"},
		{"duplicate month", func(p *Pipeline) { p.Months[1].Month = "May" }, "duplicate month label: May"},
		{"missing file", func(p *Pipeline) { p.Months[2].File = "" }, "month July has no source file"},
		{"empty item column", func(p *Pipeline) { p.RecipeItemColumn = "" }, "recipe item column cannot be empty"},
		{"inverted thresholds", func(p *Pipeline) { p.Thresholds = Thresholds{Safety: 2, Surplus: 1} }, "thresholds must satisfy 0 < safety < surplus, got 2 / 1"},
		{"zero donut", func(p *Pipeline) { p.DonutSize = 0 }, "donut size must be positive, got 0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.EqualError(t, cfg.Validate(), tc.expectError)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("yaml overlay", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pipeline.yaml")
		content := `
recipe_file: recipes.csv
thresholds:
  safety: 0.5
  surplus: 2
months:
  - month: November
    file: November.xlsx
    sheets:
      revenue: data 1
      warehouse: data 2
      items: data 3
composite_folds:
  - target: Total_Chicken_Usage
    unit: g
    sources:
      - column: chicken thigh
        factor: 100
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "recipes.csv", cfg.RecipeFile)
		assert.Equal(t, "MSY Data - Shipment.csv", cfg.ShipmentFile)
		assert.Equal(t, []entities.MonthLabel{"November"}, cfg.MonthOrder())
		assert.Equal(t, "data 3", cfg.Months[0].Sheets[entities.DatasetItems])
		assert.Equal(t, 0.5, cfg.Thresholds.Safety)
		require.Len(t, cfg.CompositeFolds, 1)
		assert.Equal(t, entities.Grams, cfg.CompositeFolds[0].Unit)
	})

	t.Run("invalid overlay", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pipeline.yaml")
		require.NoError(t, os.WriteFile(path, []byte("donut_size: -1\n"), 0644))

		_, err := Load(path)
		assert.ErrorContains(t, err, "donut size must be positive")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DASHBOARD_DATA_DIR", "/srv/data")
	t.Setenv("DASHBOARD_ADDR", ":9090")

	env := LoadEnv()
	assert.Equal(t, "/srv/data", env.DataDir)
	assert.Equal(t, ":9090", env.Addr)
}
