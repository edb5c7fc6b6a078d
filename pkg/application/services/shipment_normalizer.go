package services

import (
	"context"
	"fmt"

	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/infrastructure/repositories/memory"
	"github.com/msydata/dashboard/pkg/infrastructure/tabular"
	"github.com/msydata/dashboard/pkg/logging"
)

// Column names of the shipment source
const (
	ShipmentIngredientColumn = "Ingredient"
	ShipmentFrequencyColumn  = "frequency"
	ShipmentQuantityColumn   = "Quantity per shipment"
	ShipmentCountColumn      = "Number of shipments"
	ShipmentUnitColumn       = "Unit of shipment"
)

// CadenceMultiplier returns shipments per month for a free-text frequency
func CadenceMultiplier(frequency string) float64 {
	return entities.ParseCadence(frequency).Multiplier()
}

// ShipmentNormalizer turns the raw shipment table into keyed shipment rows
type ShipmentNormalizer struct {
	cfg    config.Pipeline
	logger *logging.Logger
}

// NewShipmentNormalizer creates a shipment normalizer
func NewShipmentNormalizer(cfg config.Pipeline, logger *logging.Logger) *ShipmentNormalizer {
	return &ShipmentNormalizer{
		cfg:    cfg,
		logger: logger.WithComponent("shipment-normalizer"),
	}
}

// Normalize resolves cadence and unit conversion for every shipment row.
// Missing numeric cells count as zero.
func (n *ShipmentNormalizer) Normalize(ctx context.Context, table *tabular.Table) (*memory.ShipmentRepository, error) {
	if !table.HasColumn(ShipmentIngredientColumn) {
		return nil, fmt.Errorf("shipment table has no %q column", ShipmentIngredientColumn)
	}

	var shipments []*entities.Shipment
	seen := make(map[entities.ShipmentName]bool, table.Len())
	for row := 0; row < table.Len(); row++ {
		name := entities.ShipmentName(table.Value(row, ShipmentIngredientColumn))
		if name == "" {
			continue
		}
		if seen[name] {
			n.logger.WarnContext(ctx, "duplicate shipment row ignored", "ingredient", name, "row", row+2)
			continue
		}
		seen[name] = true

		unit := table.Value(row, ShipmentUnitColumn)
		shipment, err := entities.NewShipment(
			name,
			table.Value(row, ShipmentFrequencyColumn),
			tabular.FloatOrZero(table.Number(row, ShipmentQuantityColumn)),
			tabular.FloatOrZero(table.Number(row, ShipmentCountColumn)),
			unit,
			n.cfg.ConversionFactor(unit),
		)
		if err != nil {
			return nil, fmt.Errorf("shipment row %d: %w", row+2, err)
		}
		if shipment.Cadence == entities.CadenceUnknown {
			n.logger.DebugContext(ctx, "shipment has no recognized cadence", "ingredient", name, "frequency", shipment.Frequency)
		}
		shipments = append(shipments, shipment)
	}

	repo := memory.NewShipmentRepository(len(shipments))
	if err := repo.LoadShipments(shipments); err != nil {
		return nil, fmt.Errorf("failed to load shipments into repository: %w", err)
	}
	return repo, nil
}
