package entities

import (
	"fmt"
	"strings"
)

// ShipmentName is the shipment-side ingredient identifier
type ShipmentName string

// Cadence represents how often an ingredient is shipped
type Cadence int

const (
	CadenceUnknown Cadence = iota
	Weekly
	Biweekly
	Monthly
)

// String method for Cadence enum
func (c Cadence) String() string {
	switch c {
	case Weekly:
		return "weekly"
	case Biweekly:
		return "biweekly"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// ParseCadence classifies a free-text frequency with a case-insensitive
// substring match. "biweekly" is tested before "weekly" because it contains it.
func ParseCadence(frequency string) Cadence {
	f := strings.ToLower(frequency)
	switch {
	case strings.Contains(f, "biweekly"):
		return Biweekly
	case strings.Contains(f, "weekly"):
		return Weekly
	case strings.Contains(f, "monthly"):
		return Monthly
	default:
		return CadenceUnknown
	}
}

// Multiplier returns the number of shipments per month for the cadence
func (c Cadence) Multiplier() float64 {
	switch c {
	case Weekly:
		return 4
	case Biweekly:
		return 2
	case Monthly:
		return 1
	default:
		return 0
	}
}

// Shipment is one normalized shipment row
type Shipment struct {
	Name                ShipmentName
	Frequency           string
	Cadence             Cadence
	QuantityPerShipment float64
	ShipmentCount       float64
	Unit                string
	ConversionFactor    float64
}

// NewShipment creates a validated Shipment
func NewShipment(name ShipmentName, frequency string, quantityPerShipment, shipmentCount float64, unit string, conversionFactor float64) (*Shipment, error) {
	if string(name) == "" {
		return nil, fmt.Errorf("ingredient name cannot be empty")
	}
	if conversionFactor == 0 {
		conversionFactor = 1
	}

	return &Shipment{
		Name:                name,
		Frequency:           frequency,
		Cadence:             ParseCadence(frequency),
		QuantityPerShipment: quantityPerShipment,
		ShipmentCount:       shipmentCount,
		Unit:                unit,
		ConversionFactor:    conversionFactor,
	}, nil
}

// MonthlyDelivered returns the quantity delivered per month in canonical units
func (s *Shipment) MonthlyDelivered() float64 {
	return s.QuantityPerShipment * s.ShipmentCount * s.Cadence.Multiplier() * s.ConversionFactor
}
