package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/msydata/dashboard/pkg/application/dto"
	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/infrastructure/repositories/memory"
	"github.com/msydata/dashboard/pkg/infrastructure/tabular"
	"github.com/msydata/dashboard/pkg/logging"
	"github.com/msydata/dashboard/pkg/metrics"
)

// Labels used when a scalar cannot be derived
const (
	UnavailableCategory = "Error"
	AlertDateLayout     = "January 02, 2006"
)

// Clock returns the current time
type Clock func() time.Time

// DashboardService runs the whole pipeline from source files to the dashboard contract.
// It holds no state between runs.
type DashboardService struct {
	cfg     config.Pipeline
	sources *SourceLoader
	logger  *logging.Logger
	metrics *metrics.Metrics
	clock   Clock

	recipes    *RecipeNormalizer
	shipments  *ShipmentNormalizer
	reconciler *ReconciliationService
	forecaster *ForecastService
	analytics  *SalesAnalytics
}

// NewDashboardService wires the pipeline components over one configuration.
// A nil clock uses time.Now.
func NewDashboardService(cfg config.Pipeline, loader *tabular.Loader, logger *logging.Logger, m *metrics.Metrics, clock Clock) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardService{
		cfg:        cfg,
		sources:    NewSourceLoader(cfg, loader, logger, m),
		logger:     logger.WithComponent("dashboard"),
		metrics:    m,
		clock:      clock,
		recipes:    NewRecipeNormalizer(cfg, logger),
		shipments:  NewShipmentNormalizer(cfg, logger),
		reconciler: NewReconciliationService(cfg, logger, m),
		forecaster: NewForecastService(),
		analytics:  NewSalesAnalytics(),
	}
}

// Build recomputes the dashboard from the sources under dir.
// It fails when every source of the revenue, items or warehouse dataset is unreadable.
func (s *DashboardService) Build(ctx context.Context, dir string) (dashboard *dto.Dashboard, err error) {
	start := time.Now()
	lowStock := 0
	defer func() {
		duration := time.Since(start)
		s.metrics.RecordPipelineRun(duration, err, lowStock)
		s.logger.Performance(ctx, "build_dashboard", duration, err == nil)
	}()

	revenueTables, err := s.sources.LoadDataset(ctx, dir, entities.DatasetRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue data: %w", err)
	}
	itemTables, err := s.sources.LoadDataset(ctx, dir, entities.DatasetItems)
	if err != nil {
		return nil, fmt.Errorf("failed to load item data: %w", err)
	}
	warehouseTables, err := s.sources.LoadDataset(ctx, dir, entities.DatasetWarehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouse data: %w", err)
	}

	series := BuildRevenueSeries(revenueTables, s.cfg.MonthOrder())
	records := BuildSaleRecords(itemTables)
	categories, hasCategory := BuildCategorySales(warehouseTables)

	sales := memory.NewSalesRepository()
	if err := sales.LoadSales(records); err != nil {
		return nil, fmt.Errorf("failed to load sale records: %w", err)
	}

	forecast, err := s.forecaster.Forecast(series)
	if err != nil {
		return nil, fmt.Errorf("failed to forecast revenue: %w", err)
	}

	now := s.clock()
	dashboard = &dto.Dashboard{
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		RevenueChart: revenueChart(series, forecast),
	}

	ranked := s.analytics.RankItems(records)
	dashboard.KPIs = s.kpis(ctx, series, records, ranked, categories, hasCategory)
	dashboard.TopItems = itemRows(ranked)
	dashboard.Donut = donutChart(s.analytics.RevenueShares(ranked, s.cfg.DonutSize))

	result, err := s.reconcile(ctx, dir, sales)
	if err != nil {
		s.logger.WithError(err).WarnContext(ctx, "inventory section unavailable", "dir", dir)
		dashboard.Inventory, dashboard.InventoryChart, dashboard.LowStockAlerts, dashboard.SkippedMapping = dto.EmptyInventory()
		return dashboard, nil
	}

	lowStock = result.LowStockCount()
	dashboard.KPIs.LowStockCount = lowStock
	dashboard.Inventory = inventoryRows(result)
	dashboard.InventoryChart = inventoryChart(result)
	dashboard.LowStockAlerts = lowStockAlerts(result, now)
	dashboard.SkippedMapping = skippedEntries(result)

	return dashboard, nil
}

// reconcile loads the recipe and shipment sources and balances them against sales
func (s *DashboardService) reconcile(ctx context.Context, dir string, sales *memory.SalesRepository) (*ReconciliationResult, error) {
	recipeTable, err := s.sources.LoadFile(ctx, filepath.Join(dir, s.cfg.RecipeFile), "recipe")
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipes.Normalize(ctx, recipeTable)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize recipes: %w", err)
	}

	shipmentTable, err := s.sources.LoadFile(ctx, filepath.Join(dir, s.cfg.ShipmentFile), "shipment")
	if err != nil {
		return nil, err
	}
	shipments, err := s.shipments.Normalize(ctx, shipmentTable)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize shipments: %w", err)
	}

	usage, err := NewUsageAggregator(s.cfg.WindowLength()).Aggregate(sales, recipes)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate usage: %w", err)
	}

	return s.reconciler.Reconcile(ctx, usage, shipments, recipes)
}

func (s *DashboardService) kpis(
	ctx context.Context,
	series []entities.RevenuePoint,
	records []*entities.SaleRecord,
	ranked []ItemSummary,
	categories []entities.CategorySale,
	hasCategory bool,
) dto.KPIs {
	order := s.cfg.MonthOrder()
	latest := order[len(order)-1]

	kpis := dto.KPIs{
		LatestMonth:        string(latest),
		LatestMonthRevenue: s.analytics.MonthRevenue(series, latest),
		TotalRevenue:       s.analytics.WindowTotal(series),
	}

	if best, worst, ok := s.analytics.BestAndWorstSelling(records); ok {
		kpis.BestSelling = dto.NamedValue{Name: string(best.ItemName), Value: best.Count}
		kpis.WorstSelling = dto.NamedValue{Name: string(worst.ItemName), Value: worst.Count}
	}

	kpis.TopCategory = dto.NamedValue{Name: UnavailableCategory, Value: decimal.Zero}
	if !hasCategory {
		s.logger.WarnContext(ctx, "warehouse data has no category column", "column", CategoryColumn)
	} else if top, ok := s.analytics.TopCategory(categories); ok {
		kpis.TopCategory = dto.NamedValue{Name: top.Category, Value: top.Amount}
	}

	if len(ranked) > 0 {
		kpis.TopItem = dto.NamedValue{Name: string(ranked[0].ItemName), Value: ranked[0].Amount}
	}
	return kpis
}

func revenueChart(series []entities.RevenuePoint, forecast *entities.RevenueForecast) dto.RevenueChart {
	n := len(series)
	chart := dto.RevenueChart{
		Labels:      make([]string, 0, n+1),
		Actual:      make([]float64, 0, n),
		Prediction:  make([]*float64, n+1),
		Optimistic:  make([]*float64, n+1),
		Pessimistic: make([]*float64, n+1),
	}
	for _, point := range series {
		chart.Labels = append(chart.Labels, string(point.Month))
		chart.Actual = append(chart.Actual, point.TotalRevenue.InexactFloat64())
	}
	chart.Labels = append(chart.Labels, forecast.NextLabel)

	last := chart.Actual[n-1]
	for _, projection := range []struct {
		series []*float64
		value  float64
	}{
		{chart.Prediction, forecast.Predicted},
		{chart.Optimistic, forecast.Optimistic},
		{chart.Pessimistic, forecast.Pessimistic},
	} {
		start, next := last, projection.value
		projection.series[n-1] = &start
		projection.series[n] = &next
	}
	return chart
}

func itemRows(ranked []ItemSummary) []dto.ItemRow {
	rows := make([]dto.ItemRow, len(ranked))
	for i, item := range ranked {
		rows[i] = dto.ItemRow{
			ItemName:   string(item.ItemName),
			Amount:     item.Amount.InexactFloat64(),
			Count:      item.Count.InexactFloat64(),
			MonthsData: item.MonthsData,
			AvgPrice:   item.AvgPrice.Round(2).InexactFloat64(),
		}
	}
	return rows
}

func donutChart(shares []Share) dto.DonutChart {
	chart := dto.DonutChart{
		Labels: make([]string, len(shares)),
		Data:   make([]float64, len(shares)),
	}
	for i, share := range shares {
		chart.Labels[i] = share.Label
		chart.Data[i] = share.Amount.InexactFloat64()
	}
	return chart
}

func inventoryRows(result *ReconciliationResult) []dto.InventoryRow {
	entries := result.Rounded()
	rows := make([]dto.InventoryRow, len(entries))
	for i, entry := range entries {
		rows[i] = dto.InventoryRow{
			Ingredient:      entry.Ingredient,
			Unit:            entry.Unit.String(),
			AvgMonthlyUsage: entry.AvgMonthlyUsage,
			MonthlyShipment: entry.MonthlyShipment,
			StockDelta:      entry.StockDelta,
			Status:          entry.Status.String(),
			Note:            entry.Note,
		}
	}
	return rows
}

func inventoryChart(result *ReconciliationResult) dto.InventoryChart {
	entries := result.ChartOrder()
	chart := dto.InventoryChart{
		Labels:       make([]string, len(entries)),
		Data:         make([]float64, len(entries)),
		Colors:       make([]string, len(entries)),
		BorderColors: make([]string, len(entries)),
		Units:        make([]string, len(entries)),
	}
	for i, entry := range entries {
		colors := ColorsFor(entry.Status)
		chart.Labels[i] = entry.Ingredient
		chart.Data[i] = entry.StockDelta
		chart.Colors[i] = colors.Fill
		chart.BorderColors[i] = colors.Border
		chart.Units[i] = entry.Unit.String()
	}
	return chart
}

func lowStockAlerts(result *ReconciliationResult, now time.Time) []dto.LowStockAlert {
	alerts := make([]dto.LowStockAlert, 0)
	for _, alert := range result.LowStockAlerts(now) {
		alerts = append(alerts, dto.LowStockAlert{
			Date:       alert.Date.Format(AlertDateLayout),
			Ingredient: alert.Ingredient,
			Message:    alert.Message,
			Icon:       alert.Icon,
			Color:      alert.Color,
		})
	}
	return alerts
}

func skippedEntries(result *ReconciliationResult) []dto.SkippedEntry {
	skipped := make([]dto.SkippedEntry, len(result.Misses))
	for i, miss := range result.Misses {
		skipped[i] = dto.SkippedEntry{
			Shipment: string(miss.Shipment),
			Recipe:   string(miss.Recipe),
			Missing:  miss.Side,
		}
	}
	return skipped
}
