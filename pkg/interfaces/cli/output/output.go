package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/msydata/dashboard/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	BuildTime time.Duration
	Writer    io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate renders the dashboard in the configured format
func Generate(dashboard *dto.Dashboard, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(dashboard, config)
	case "json":
		return generateJSONOutput(dashboard, config)
	case "csv":
		return generateCSVOutput(dashboard, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(d *dto.Dashboard, config Config) error {
	w := config.writer()

	fmt.Fprintf(w, "📊 Dashboard Summary\n")
	fmt.Fprintf(w, "====================\n\n")

	fmt.Fprintf(w, "%s Revenue: $%s\n", d.KPIs.LatestMonth, d.KPIs.LatestMonthRevenue.StringFixed(2))
	fmt.Fprintf(w, "Total Revenue: $%s\n", d.KPIs.TotalRevenue.StringFixed(2))
	fmt.Fprintf(w, "Best Selling: %s (%s)\n", d.KPIs.BestSelling.Name, d.KPIs.BestSelling.Value.String())
	fmt.Fprintf(w, "Worst Selling: %s (%s)\n", d.KPIs.WorstSelling.Name, d.KPIs.WorstSelling.Value.String())
	fmt.Fprintf(w, "Top Category: %s ($%s)\n", d.KPIs.TopCategory.Name, d.KPIs.TopCategory.Value.StringFixed(2))
	fmt.Fprintf(w, "Top Item: %s ($%s)\n", d.KPIs.TopItem.Name, d.KPIs.TopItem.Value.StringFixed(2))
	fmt.Fprintf(w, "Low Stock Ingredients: %d\n", d.KPIs.LowStockCount)
	if config.Verbose {
		fmt.Fprintf(w, "Build Time: %v\n", config.BuildTime)
	}
	fmt.Fprintln(w)

	if n := len(d.RevenueChart.Labels); n > 0 && n == len(d.RevenueChart.Actual)+1 {
		fmt.Fprintf(w, "📈 Revenue Forecast:\n")
		for i, value := range d.RevenueChart.Actual {
			fmt.Fprintf(w, "  %-10s %12.2f\n", d.RevenueChart.Labels[i], value)
		}
		fmt.Fprintf(w, "  %-10s %12.2f  (%.2f .. %.2f)\n",
			d.RevenueChart.Labels[n-1],
			deref(d.RevenueChart.Prediction[n-1]),
			deref(d.RevenueChart.Pessimistic[n-1]),
			deref(d.RevenueChart.Optimistic[n-1]))
		fmt.Fprintln(w)
	}

	if len(d.Inventory) > 0 {
		fmt.Fprintf(w, "📦 Inventory:\n")
		fmt.Fprintf(w, "%-20s %-6s %-10s %-10s %-10s %-10s\n",
			"Ingredient", "Unit", "Usage", "Shipment", "Delta", "Status")
		fmt.Fprintf(w, "%-20s %-6s %-10s %-10s %-10s %-10s\n",
			"--------------------", "------", "----------", "----------", "----------", "----------")

		for _, row := range d.Inventory {
			fmt.Fprintf(w, "%-20s %-6s %-10.0f %-10.0f %-10.0f %-10s\n",
				row.Ingredient,
				row.Unit,
				row.AvgMonthlyUsage,
				row.MonthlyShipment,
				row.StockDelta,
				row.Status)
		}
		fmt.Fprintln(w)
	}

	if len(d.LowStockAlerts) > 0 {
		fmt.Fprintf(w, "⚠️  Alerts:\n")
		for _, alert := range d.LowStockAlerts {
			fmt.Fprintf(w, "  %s  %s\n", alert.Date, alert.Message)
		}
		fmt.Fprintln(w)
	}

	if config.Verbose && len(d.SkippedMapping) > 0 {
		fmt.Fprintf(w, "🔍 Skipped Mapping Entries:\n")
		for _, skipped := range d.SkippedMapping {
			fmt.Fprintf(w, "  %s -> %s (missing %s)\n", skipped.Shipment, skipped.Recipe, skipped.Missing)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(d *dto.Dashboard, config Config) error {
	jsonData, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "dashboard.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes the record tables as CSV files
func generateCSVOutput(d *dto.Dashboard, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	itemsFile := filepath.Join(config.OutputDir, "top_items.csv")
	if err := writeItemsCSV(d.TopItems, itemsFile); err != nil {
		return fmt.Errorf("failed to write top items CSV: %w", err)
	}

	inventoryFile := filepath.Join(config.OutputDir, "inventory.csv")
	if err := writeInventoryCSV(d.Inventory, inventoryFile); err != nil {
		return fmt.Errorf("failed to write inventory CSV: %w", err)
	}

	revenueFile := filepath.Join(config.OutputDir, "revenue.csv")
	if err := writeRevenueCSV(d.RevenueChart, revenueFile); err != nil {
		return fmt.Errorf("failed to write revenue CSV: %w", err)
	}

	if config.Verbose {
		w := config.writer()
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Top Items: %s\n", itemsFile)
		fmt.Fprintf(w, "  Inventory: %s\n", inventoryFile)
		fmt.Fprintf(w, "  Revenue: %s\n", revenueFile)
	}

	return nil
}

func writeItemsCSV(items []dto.ItemRow, filename string) error {
	records := [][]string{{"Item Name", "Amount", "Count", "Months_Data", "Avg_Price"}}
	for _, item := range items {
		records = append(records, []string{
			item.ItemName,
			formatFloat(item.Amount),
			formatFloat(item.Count),
			strconv.Itoa(item.MonthsData),
			formatFloat(item.AvgPrice),
		})
	}
	return writeCSV(filename, records)
}

func writeInventoryCSV(rows []dto.InventoryRow, filename string) error {
	records := [][]string{{"Ingredient", "Unit", "Avg_Monthly_Usage", "Monthly_Shipment", "Stock_Delta", "Status", "Note"}}
	for _, row := range rows {
		records = append(records, []string{
			row.Ingredient,
			row.Unit,
			formatFloat(row.AvgMonthlyUsage),
			formatFloat(row.MonthlyShipment),
			formatFloat(row.StockDelta),
			row.Status,
			row.Note,
		})
	}
	return writeCSV(filename, records)
}

func writeRevenueCSV(chart dto.RevenueChart, filename string) error {
	records := [][]string{{"Month", "Actual", "Prediction", "Optimistic", "Pessimistic"}}
	for i, label := range chart.Labels {
		actual := ""
		if i < len(chart.Actual) {
			actual = formatFloat(chart.Actual[i])
		}
		records = append(records, []string{
			label,
			actual,
			formatOptional(chart.Prediction, i),
			formatOptional(chart.Optimistic, i),
			formatOptional(chart.Pessimistic, i),
		})
	}
	return writeCSV(filename, records)
}

func writeCSV(filename string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(series []*float64, i int) string {
	if i >= len(series) || series[i] == nil {
		return ""
	}
	return formatFloat(*series[i])
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
