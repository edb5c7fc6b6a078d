package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Loader reads CSV and XLSX sources into tables
type Loader struct{}

// NewLoader creates a new tabular loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the source at path. The sheet selects a worksheet for workbook
// sources and is ignored for CSV.
func (l *Loader) Load(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return l.LoadWorkbookSheet(path, sheet)
	default:
		return l.LoadCSV(path)
	}
}

// LoadCSV reads a CSV file whose first record is the header
func (l *Loader) LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %s has no header row", path)
	}

	return NewTable(stripBOM(records[0]), records[1:])
}

// LoadWorkbookSheet reads one worksheet of an XLSX workbook whose first row is the header
func (l *Loader) LoadWorkbookSheet(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if index, err := f.GetSheetIndex(sheet); err != nil || index < 0 {
		return nil, fmt.Errorf("workbook %s has no sheet %q", path, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q of %s has no header row", sheet, path)
	}

	return NewTable(rows[0], rows[1:])
}

func stripBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}
