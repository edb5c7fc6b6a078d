package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/domain/repositories"
	"github.com/msydata/dashboard/pkg/logging"
	"github.com/msydata/dashboard/pkg/metrics"
)

// Sides of a reconciliation lookup miss
const (
	MissingShipment = "shipment"
	MissingRecipe   = "recipe"
)

// LookupMiss records a mapping entry skipped because a name was absent
type LookupMiss struct {
	Shipment entities.ShipmentName
	Recipe   entities.IngredientName
	Side     string
}

// ReconciliationResult holds classified entries in mapping order and the misses
type ReconciliationResult struct {
	Entries []entities.ReconciliationEntry
	Misses  []LookupMiss
}

// ReconciliationService balances shipped quantities against recipe usage
type ReconciliationService struct {
	cfg     config.Pipeline
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewReconciliationService creates a reconciliation service
func NewReconciliationService(cfg config.Pipeline, logger *logging.Logger, m *metrics.Metrics) *ReconciliationService {
	return &ReconciliationService{
		cfg:     cfg,
		logger:  logger.WithComponent("reconciliation"),
		metrics: m,
	}
}

// Reconcile walks the ingredient mapping, computes each stock delta and
// classifies it. Entries whose names are absent on either side are skipped.
func (s *ReconciliationService) Reconcile(
	ctx context.Context,
	usage *UsageReport,
	shipments repositories.ShipmentRepository,
	recipes repositories.RecipeRepository,
) (*ReconciliationResult, error) {
	if usage == nil {
		return nil, fmt.Errorf("usage report is required")
	}

	thresholds := s.cfg.StatusThresholds()
	result := &ReconciliationResult{}

	for _, mapping := range s.cfg.IngredientMap {
		shipment, err := shipments.GetShipment(mapping.Shipment)
		if err != nil {
			s.miss(ctx, result, mapping.Shipment, mapping.Recipe, MissingShipment)
			continue
		}
		recipeUsage, ok := usage.Usage(mapping.Recipe)
		if !ok {
			s.miss(ctx, result, mapping.Shipment, mapping.Recipe, MissingRecipe)
			continue
		}

		monthlyShipment := shipment.MonthlyDelivered()

		if combined, ok := s.cfg.CombinedShipmentFor(mapping.Shipment); ok {
			combinedUsage, missing, ok := combinedUsage(usage, combined)
			if !ok {
				s.miss(ctx, result, mapping.Shipment, missing, MissingRecipe)
				continue
			}
			result.Entries = append(result.Entries, classify(thresholds, combined.DisplayName, combined.Unit, combinedUsage, monthlyShipment))
			continue
		}

		unit, ok := recipes.Unit(mapping.Recipe)
		if !ok {
			unit = entities.Grams
		}
		result.Entries = append(result.Entries, classify(thresholds, string(mapping.Shipment), unit, recipeUsage.AvgMonthlyUsage, monthlyShipment))
	}

	return result, nil
}

func (s *ReconciliationService) miss(ctx context.Context, result *ReconciliationResult, shipment entities.ShipmentName, recipe entities.IngredientName, side string) {
	result.Misses = append(result.Misses, LookupMiss{Shipment: shipment, Recipe: recipe, Side: side})
	s.metrics.RecordLookupMiss(side)
	s.logger.WarnContext(ctx, "ingredient mapping skipped",
		"shipment", shipment,
		"recipe", recipe,
		"missing", side,
	)
}

// combinedUsage sums the average monthly usage of every component.
// It reports the first absent component when one is missing.
func combinedUsage(usage *UsageReport, combined config.CombinedShipment) (float64, entities.IngredientName, bool) {
	total := 0.0
	for _, component := range combined.Components {
		u, ok := usage.Usage(component)
		if !ok {
			return 0, component, false
		}
		total += u.AvgMonthlyUsage
	}
	return total, "", true
}

func classify(thresholds entities.Thresholds, name string, unit entities.Unit, avgMonthlyUsage, monthlyShipment float64) entities.ReconciliationEntry {
	delta := monthlyShipment - avgMonthlyUsage
	status, note := thresholds.Classify(avgMonthlyUsage, delta)
	return entities.ReconciliationEntry{
		Ingredient:      name,
		Unit:            unit,
		AvgMonthlyUsage: avgMonthlyUsage,
		MonthlyShipment: monthlyShipment,
		StockDelta:      delta,
		Status:          status,
		Note:            note,
	}
}

// RoundForDisplay rounds a quantity to the nearest whole unit, halves to even
func RoundForDisplay(v float64) float64 {
	r := math.RoundToEven(v)
	if r == 0 {
		return 0
	}
	return r
}

// Rounded returns the entries with every quantity rounded for display
func (r *ReconciliationResult) Rounded() []entities.ReconciliationEntry {
	rounded := make([]entities.ReconciliationEntry, len(r.Entries))
	for i, entry := range r.Entries {
		entry.AvgMonthlyUsage = RoundForDisplay(entry.AvgMonthlyUsage)
		entry.MonthlyShipment = RoundForDisplay(entry.MonthlyShipment)
		entry.StockDelta = RoundForDisplay(entry.StockDelta)
		rounded[i] = entry
	}
	return rounded
}

// ChartOrder returns the rounded entries sorted ascending by stock delta.
// Equal deltas keep mapping order.
func (r *ReconciliationResult) ChartOrder() []entities.ReconciliationEntry {
	entries := r.Rounded()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StockDelta < entries[j].StockDelta
	})
	return entries
}

// LowStockCount returns the number of Low Stock entries
func (r *ReconciliationResult) LowStockCount() int {
	count := 0
	for _, entry := range r.Entries {
		if entry.Status == entities.LowStock {
			count++
		}
	}
	return count
}

// LowStockAlerts builds one alert per Low Stock entry, dated now
func (r *ReconciliationResult) LowStockAlerts(now time.Time) []entities.LowStockAlert {
	var alerts []entities.LowStockAlert
	for _, entry := range r.Entries {
		if entry.Status != entities.LowStock {
			continue
		}
		alerts = append(alerts, entities.LowStockAlert{
			Date:       now,
			Ingredient: entry.Ingredient,
			Message:    fmt.Sprintf("Low stock alert: %s buffer is less than 1 week of usage", entry.Ingredient),
			Icon:       "fa-exclamation-triangle",
			Color:      "warning",
		})
	}
	return alerts
}

// StatusColors is the fill and border color used to chart a status
type StatusColors struct {
	Fill   string
	Border string
}

// ColorsFor returns the chart colors of a status
func ColorsFor(status entities.StockStatus) StatusColors {
	switch status {
	case entities.LowStock:
		return StatusColors{Fill: "rgba(231, 74, 59, 0.8)", Border: "rgba(231, 74, 59, 1)"}
	case entities.Surplus:
		return StatusColors{Fill: "rgba(246, 194, 62, 0.8)", Border: "rgba(246, 194, 62, 1)"}
	default:
		return StatusColors{Fill: "rgba(28, 200, 138, 0.8)", Border: "rgba(28, 200, 138, 1)"}
	}
}
