package memory

import (
	"fmt"

	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/domain/repositories"
)

// ShipmentRepository provides in-memory shipment storage keyed by ingredient
type ShipmentRepository struct {
	shipments    []entities.Shipment
	shipmentsMap map[entities.ShipmentName]int
}

// NewShipmentRepository creates a new in-memory shipment repository
func NewShipmentRepository(expected int) *ShipmentRepository {
	return &ShipmentRepository{
		shipments:    make([]entities.Shipment, 0, expected),
		shipmentsMap: make(map[entities.ShipmentName]int, expected),
	}
}

// Verify interface compliance
var _ repositories.ShipmentRepository = (*ShipmentRepository)(nil)

// LoadShipments loads shipment rows into the repository
func (r *ShipmentRepository) LoadShipments(shipments []*entities.Shipment) error {
	for _, shipment := range shipments {
		if _, exists := r.shipmentsMap[shipment.Name]; exists {
			return fmt.Errorf("duplicate shipment for ingredient: %s", shipment.Name)
		}
		r.shipmentsMap[shipment.Name] = len(r.shipments)
		r.shipments = append(r.shipments, *shipment)
	}
	return nil
}

// GetShipment returns the shipment row of an ingredient
func (r *ShipmentRepository) GetShipment(name entities.ShipmentName) (*entities.Shipment, error) {
	index, exists := r.shipmentsMap[name]
	if !exists {
		return nil, fmt.Errorf("shipment not found: %s", name)
	}
	return &r.shipments[index], nil
}

// GetAllShipments returns all shipment rows in load order
func (r *ShipmentRepository) GetAllShipments() ([]*entities.Shipment, error) {
	shipments := make([]*entities.Shipment, 0, len(r.shipments))
	for i := range r.shipments {
		shipments = append(shipments, &r.shipments[i])
	}
	return shipments, nil
}
