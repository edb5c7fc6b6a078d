package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/domain/entities"
	apperrors "github.com/msydata/dashboard/pkg/errors"
	"github.com/msydata/dashboard/pkg/infrastructure/tabular"
	"github.com/msydata/dashboard/pkg/logging"
	"github.com/msydata/dashboard/pkg/metrics"
)

// MonthTable is one month's sheet of a dataset
type MonthTable struct {
	Month entities.MonthLabel
	Table *tabular.Table
}

// requiredColumns lists the columns a dataset sheet must carry to count as loaded
var requiredColumns = map[entities.Dataset][]string{
	entities.DatasetRevenue: {tabular.AmountColumn},
	entities.DatasetItems:   {ItemNameColumn},
}

// SourceLoader reads the monthly sale matrices and the single-file sources
type SourceLoader struct {
	cfg     config.Pipeline
	loader  *tabular.Loader
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewSourceLoader creates a source loader over the configured month sources
func NewSourceLoader(cfg config.Pipeline, loader *tabular.Loader, logger *logging.Logger, m *metrics.Metrics) *SourceLoader {
	return &SourceLoader{
		cfg:     cfg,
		loader:  loader,
		logger:  logger.WithComponent("source-loader"),
		metrics: m,
	}
}

// LoadDataset reads one dataset from every month source under dir.
// A source that is missing or unreadable is logged and skipped; the call fails
// only when no month could be loaded.
func (s *SourceLoader) LoadDataset(ctx context.Context, dir string, dataset entities.Dataset) ([]MonthTable, error) {
	var tables []MonthTable

	for _, source := range s.cfg.Months {
		path := filepath.Join(dir, source.File)
		sheet := source.Sheets[dataset]

		table, err := s.loadSheet(path, sheet, requiredColumns[dataset])
		if err != nil {
			s.metrics.RecordSourceLoad(string(dataset), false)
			s.logger.WithError(err).WarnContext(ctx, "source skipped",
				"dataset", dataset,
				"month", source.Month,
				"path", path,
				"sheet", sheet,
			)
			continue
		}

		s.metrics.RecordSourceLoad(string(dataset), true)
		s.logger.InfoContext(ctx, "source loaded",
			"dataset", dataset,
			"month", source.Month,
			"path", path,
			"sheet", sheet,
			"rows", table.Len(),
		)
		tables = append(tables, MonthTable{Month: source.Month, Table: table})
	}

	if len(tables) == 0 {
		return nil, apperrors.ErrDatasetUnavailable(string(dataset), dir)
	}

	return tables, nil
}

// LoadFile reads a single-file source such as the recipe or shipment table
func (s *SourceLoader) LoadFile(ctx context.Context, path, dataset string) (*tabular.Table, error) {
	table, err := s.loadSheet(path, "", nil)
	if err != nil {
		s.metrics.RecordSourceLoad(dataset, false)
		return nil, err
	}

	s.metrics.RecordSourceLoad(dataset, true)
	s.logger.InfoContext(ctx, "source loaded", "dataset", dataset, "path", path, "rows", table.Len())
	return table, nil
}

func (s *SourceLoader) loadSheet(path, sheet string, required []string) (*tabular.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.ErrSourceUnavailable(path, sheet).Wrap(err)
	}

	table, err := s.loader.Load(path, sheet)
	if err != nil {
		return nil, apperrors.ErrSourceUnavailable(path, sheet).Wrap(err)
	}

	for _, column := range required {
		if !table.HasColumn(column) {
			return nil, apperrors.ErrSourceUnavailable(path, sheet).
				Wrap(fmt.Errorf("missing required column %q", column))
		}
	}

	return table, nil
}
