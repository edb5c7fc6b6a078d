package repositories

import "github.com/msydata/dashboard/pkg/domain/entities"

// SalesRepository provides access to item-level sale records of the window
type SalesRepository interface {
	GetAllSales() ([]*entities.SaleRecord, error)
	LoadSales(records []*entities.SaleRecord) error
}
