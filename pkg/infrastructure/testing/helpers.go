package testing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/domain/entities"
)

// TB is the subset of testing.TB the fixture writers need
type TB interface {
	Helper()
	TempDir() string
	Fatalf(format string, args ...any)
}

// Sheet is one worksheet of a fixture workbook
type Sheet struct {
	Name string
	Rows [][]any
}

// Workbook is a fixture xlsx file
type Workbook struct {
	File   string
	Sheets []Sheet
}

// Scenario is a complete source directory: one workbook per month plus the
// recipe and shipment CSV files
type Scenario struct {
	Workbooks []Workbook
	CSVFiles  map[string][][]string
}

// Without returns a copy of the scenario with the named file left out
func (s Scenario) Without(file string) Scenario {
	out := Scenario{CSVFiles: make(map[string][][]string, len(s.CSVFiles))}
	for _, wb := range s.Workbooks {
		if wb.File != file {
			out.Workbooks = append(out.Workbooks, wb)
		}
	}
	for name, records := range s.CSVFiles {
		if name != file {
			out.CSVFiles[name] = records
		}
	}
	return out
}

// Write creates every file of the scenario under dir
func (s Scenario) Write(dir string) error {
	for _, wb := range s.Workbooks {
		if err := writeWorkbook(filepath.Join(dir, wb.File), wb.Sheets); err != nil {
			return fmt.Errorf("failed to write workbook %s: %w", wb.File, err)
		}
	}
	for name, records := range s.CSVFiles {
		if err := writeCSV(filepath.Join(dir, name), records); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// WriteScenario writes the scenario into a fresh temporary directory and returns it
func WriteScenario(t TB, s Scenario) string {
	t.Helper()
	dir := t.TempDir()
	if err := s.Write(dir); err != nil {
		t.Fatalf("failed to write scenario: %v", err)
	}
	return dir
}

// StandardScenario builds a six-month restaurant scenario over the configured sources.
//
// Every month sells 10 Beef Noodle Soup ($150), 20 Chicken Rice ($200) and
// 5 Fried Rice ($50), so each month's revenue is $400. Warehouse categories are
// Noodles ($150) and Rice ($250). Over six months the reconciliation yields
// Beef Low Stock, Chicken and Rice Stocked, Egg and Peas & Carrot Surplus.
func StandardScenario(cfg config.Pipeline) Scenario {
	items := [][]any{
		{"Item Name", "Count", "Amount"},
		{"Beef Noodle Soup", 10, "$150.00"},
		{"Chicken Rice", 20, "$200.00"},
		{"Fried Rice", 5, "$50.00"},
	}
	revenue := [][]any{
		{"Receipt", "Amount"},
		{"R-1", "$150.00"},
		{"R-2", "$250.00"},
	}
	warehouse := [][]any{
		{"Category", "Amount"},
		{"Noodles", "$150.00"},
		{"Rice", "$250.00"},
	}

	var scenario Scenario
	for _, source := range cfg.Months {
		byName := make(map[string][][]any)
		byName[source.Sheets[entities.DatasetItems]] = items
		if _, ok := byName[source.Sheets[entities.DatasetRevenue]]; !ok {
			byName[source.Sheets[entities.DatasetRevenue]] = revenue
		}
		byName[source.Sheets[entities.DatasetWarehouse]] = warehouse

		var sheets []Sheet
		for _, name := range []string{"data 1", "data 2", "data 3"} {
			if rows, ok := byName[name]; ok {
				sheets = append(sheets, Sheet{Name: name, Rows: rows})
			}
		}
		scenario.Workbooks = append(scenario.Workbooks, Workbook{File: source.File, Sheets: sheets})
	}

	scenario.CSVFiles = map[string][][]string{
		cfg.RecipeFile: {
			{cfg.RecipeItemColumn, "braised beef used (g)", "Braised Chicken", "chicken thigh (pcs)", "Rice", "Peas", "Carrot", "Egg (count)"},
			{"Beef Noodle Soup", "100", "", "", "", "", "", "1"},
			{"Chicken Rice", "0", "50", "1", "200", "10", "10", "0"},
			{"Fried Rice", "0", "0", "0", "250", "20", "20", "2"},
		},
		cfg.ShipmentFile: {
			{"Ingredient", "frequency", "Quantity per shipment", "Number of shipments", "Unit of shipment"},
			{"Beef", "Weekly", "0.5", "1", "lbs"},
			{"Chicken", "Biweekly", "5", "1", "lbs"},
			{"Rice", "Monthly", "10000", "1", "g"},
			{"Peas + Carrot", "Weekly", "400", "1", "g"},
			{"Egg", "Weekly", "30", "1", "eggs"},
		},
	}
	return scenario
}

func writeWorkbook(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			values := row
			if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func writeCSV(path string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}
