package memory

import (
	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/domain/repositories"
)

// SalesRepository provides in-memory storage of item sale records
type SalesRepository struct {
	sales []entities.SaleRecord
}

// NewSalesRepository creates a new in-memory sales repository
func NewSalesRepository() *SalesRepository {
	return &SalesRepository{
		sales: []entities.SaleRecord{},
	}
}

// Verify interface compliance
var _ repositories.SalesRepository = (*SalesRepository)(nil)

// LoadSales appends sale records to the repository
func (r *SalesRepository) LoadSales(records []*entities.SaleRecord) error {
	for _, record := range records {
		r.sales = append(r.sales, *record)
	}
	return nil
}

// GetAllSales returns all sale records in load order
func (r *SalesRepository) GetAllSales() ([]*entities.SaleRecord, error) {
	sales := make([]*entities.SaleRecord, 0, len(r.sales))
	for i := range r.sales {
		sales = append(sales, &r.sales[i])
	}
	return sales, nil
}
