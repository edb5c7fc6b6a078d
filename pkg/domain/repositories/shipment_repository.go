package repositories

import "github.com/msydata/dashboard/pkg/domain/entities"

// ShipmentRepository provides access to normalized shipment rows
type ShipmentRepository interface {
	GetShipment(name entities.ShipmentName) (*entities.Shipment, error)
	GetAllShipments() ([]*entities.Shipment, error)
	LoadShipments(shipments []*entities.Shipment) error
}
