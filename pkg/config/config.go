package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/msydata/dashboard/pkg/domain/entities"
)

// MonthSource locates the sale matrix workbook of one month and the sheet
// holding each of its datasets
type MonthSource struct {
	Month  entities.MonthLabel         `yaml:"month"`
	File   string                      `yaml:"file"`
	Sheets map[entities.Dataset]string `yaml:"sheets"`
}

// IngredientMapping pairs a shipment-side name with its recipe-side name
type IngredientMapping struct {
	Shipment entities.ShipmentName   `yaml:"shipment"`
	Recipe   entities.IngredientName `yaml:"recipe"`
}

// FoldSource is one source column of a composite ingredient
type FoldSource struct {
	Column entities.IngredientName `yaml:"column"`
	Factor float64                 `yaml:"factor"`
}

// CompositeFold replaces several source columns with one derived column
type CompositeFold struct {
	Target  entities.IngredientName `yaml:"target"`
	Unit    entities.Unit           `yaml:"unit"`
	Sources []FoldSource            `yaml:"sources"`
}

// CombinedShipment is a shipment line that supplies several recipe ingredients
type CombinedShipment struct {
	Shipment    entities.ShipmentName     `yaml:"shipment"`
	DisplayName string                    `yaml:"display_name"`
	Components  []entities.IngredientName `yaml:"components"`
	Unit        entities.Unit             `yaml:"unit"`
}

// Thresholds holds the status band ratios
type Thresholds struct {
	Safety  float64 `yaml:"safety"`
	Surplus float64 `yaml:"surplus"`
}

// Pipeline holds the static tables the analysis pipeline runs against.
// A Pipeline is built once at start and never mutated afterwards.
type Pipeline struct {
	Months            []MonthSource       `yaml:"months"`
	RecipeFile        string              `yaml:"recipe_file"`
	ShipmentFile      string              `yaml:"shipment_file"`
	RecipeItemColumn  string              `yaml:"recipe_item_column"`
	UnitConversions   map[string]float64  `yaml:"unit_conversions"`
	IngredientMap     []IngredientMapping `yaml:"ingredient_map"`
	CompositeFolds    []CompositeFold     `yaml:"composite_folds"`
	CombinedShipments []CombinedShipment  `yaml:"combined_shipments"`
	Thresholds        Thresholds          `yaml:"thresholds"`
	DonutSize         int                 `yaml:"donut_size"`
}

func matrix(month entities.MonthLabel, file, revenueSheet string) MonthSource {
	return MonthSource{
		Month: month,
		File:  file,
		Sheets: map[entities.Dataset]string{
			entities.DatasetRevenue:   revenueSheet,
			entities.DatasetWarehouse: "data 2",
			entities.DatasetItems:     "data 3",
		},
	}
}

// Default returns the tables for the May to October reporting window
func Default() Pipeline {
	return Pipeline{
		Months: []MonthSource{
			matrix("May", "May_Data_Matrix.xlsx", "data 1"),
			matrix("June", "June_Data_Matrix.xlsx", "data 1"),
			matrix("July", "July_Data_Matrix.xlsx", "data 1"),
			matrix("August", "August_Data_Matrix.xlsx", "data 1"),
			matrix("September", "September_Data_Matrix.xlsx", "data 1"),
			// The October export carries revenue records on its item sheet.
			matrix("October", "October_Data_Matrix_20251103_214000.xlsx", "data 3"),
		},
		RecipeFile:       "MSY Data - Ingredient.csv",
		ShipmentFile:     "MSY Data - Shipment.csv",
		RecipeItemColumn: "Item name",
		UnitConversions: map[string]float64{
			"lbs":         453.592,
			"rolls":       1,
			"pieces":      1,
			"eggs":        1,
			"whole onion": 150,
		},
		IngredientMap: []IngredientMapping{
			{Shipment: "Beef", Recipe: "braised beef used"},
			{Shipment: "Chicken", Recipe: "Total_Chicken_Usage"},
			{Shipment: "Ramen", Recipe: "Ramen"},
			{Shipment: "Rice Noodles", Recipe: "Rice Noodles"},
			{Shipment: "Flour", Recipe: "flour"},
			{Shipment: "Tapioca Starch", Recipe: "Tapioca Starch"},
			{Shipment: "Rice", Recipe: "Rice"},
			{Shipment: "Green Onion", Recipe: "Green Onion"},
			{Shipment: "White Onion", Recipe: "White onion"},
			{Shipment: "Cilantro", Recipe: "Cilantro"},
			{Shipment: "Egg", Recipe: "Egg"},
			{Shipment: "Peas + Carrot", Recipe: "Peas"},
			{Shipment: "Bokchoy", Recipe: "Boychoy"},
			{Shipment: "Chicken Wings", Recipe: "Chicken Wings"},
		},
		CompositeFolds: []CompositeFold{
			{
				Target: "Total_Chicken_Usage",
				Unit:   entities.Grams,
				Sources: []FoldSource{
					{Column: "Braised Chicken", Factor: 1},
					{Column: "chicken thigh", Factor: 100},
				},
			},
		},
		CombinedShipments: []CombinedShipment{
			{
				Shipment:    "Peas + Carrot",
				DisplayName: "Peas & Carrot",
				Components:  []entities.IngredientName{"Peas", "Carrot"},
				Unit:        entities.Grams,
			},
		},
		Thresholds: Thresholds{Safety: 0.25, Surplus: 1.5},
		DonutSize:  5,
	}
}

// Load overlays the YAML file at path onto the default tables
func Load(path string) (Pipeline, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Pipeline{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Pipeline{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the tables for internal consistency
func (p Pipeline) Validate() error {
	if len(p.Months) == 0 {
		return fmt.Errorf("at least one month source is required")
	}

	seen := make(map[entities.MonthLabel]bool, len(p.Months))
	for _, m := range p.Months {
		if _, err := time.Parse("January", string(m.Month)); err != nil {
			return fmt.Errorf("invalid month label: %s", m.Month)
		}
		if seen[m.Month] {
			return fmt.Errorf("duplicate month label: %s", m.Month)
		}
		seen[m.Month] = true
		if m.File == "" {
			return fmt.Errorf("month %s has no source file", m.Month)
		}
	}

	if p.RecipeItemColumn == "" {
		return fmt.Errorf("recipe item column cannot be empty")
	}
	if p.Thresholds.Safety <= 0 || p.Thresholds.Surplus <= p.Thresholds.Safety {
		return fmt.Errorf("thresholds must satisfy 0 < safety < surplus, got %v / %v",
			p.Thresholds.Safety, p.Thresholds.Surplus)
	}
	if p.DonutSize <= 0 {
		return fmt.Errorf("donut size must be positive, got %d", p.DonutSize)
	}

	for _, fold := range p.CompositeFolds {
		if fold.Target == "" || len(fold.Sources) == 0 {
			return fmt.Errorf("composite fold needs a target and at least one source")
		}
	}

	return nil
}

// MonthOrder returns the month labels in window order
func (p Pipeline) MonthOrder() []entities.MonthLabel {
	order := make([]entities.MonthLabel, len(p.Months))
	for i, m := range p.Months {
		order[i] = m.Month
	}
	return order
}

// WindowLength is the number of months usage is averaged over
func (p Pipeline) WindowLength() int {
	return len(p.Months)
}

// ConversionFactor returns the canonical-unit multiplier of a shipment unit.
// Unknown units are treated as already canonical.
func (p Pipeline) ConversionFactor(unit string) float64 {
	if factor, ok := p.UnitConversions[unit]; ok {
		return factor
	}
	return 1
}

// StatusThresholds converts the ratios into the classification thresholds
func (p Pipeline) StatusThresholds() entities.Thresholds {
	return entities.Thresholds{SafetyRatio: p.Thresholds.Safety, SurplusRatio: p.Thresholds.Surplus}
}

// CombinedShipmentFor returns the combined shipment definition for a shipment name
func (p Pipeline) CombinedShipmentFor(name entities.ShipmentName) (CombinedShipment, bool) {
	for _, c := range p.CombinedShipments {
		if c.Shipment == name {
			return c, true
		}
	}
	return CombinedShipment{}, false
}
