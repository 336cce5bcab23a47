// Package export renders the merged review view to CSV or XLSX files
// for offline review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rpattn/reviewstore/internal/review"
)

// Format selects the output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for formats outside csv and xlsx.
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

// columns is the exported column order, mirroring the dashboard table.
var columns = []string{
	"status",
	"SG",
	"client_id",
	"tag",
	"region",
	"region1",
	"region2",
	"pod",
	"CA",
	"RM",
	"review_cawb",
	"review_date",
	"layer_date",
	"test_date",
	"comment",
}

// Service writes merged view rows out to files.
type Service struct {
	logger *zap.Logger
}

// NewService creates an export service.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Export writes rows to path in the given format.
func (s *Service) Export(rows []review.MergedRow, format Format, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	var err error
	switch format {
	case FormatCSV:
		err = s.exportCSV(rows, path)
	case FormatXLSX:
		err = s.exportXLSX(rows, path)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return err
	}

	s.logger.Info("exported merged view",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)))
	return nil
}

// WriteCSV streams rows as CSV to w.
func (s *Service) WriteCSV(w io.Writer, rows []review.MergedRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(rowValues(row)); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

func (s *Service) exportCSV(rows []review.MergedRow, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer file.Close()

	if err := s.WriteCSV(file, rows); err != nil {
		return err
	}
	return file.Sync()
}

func (s *Service) exportXLSX(rows []review.MergedRow, path string) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	header := make([]interface{}, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address export row: %w", err)
		}
		values := rowValues(row)
		cells := make([]interface{}, len(values))
		for j, value := range values {
			cells[j] = value
		}
		if err := file.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save export file %s: %w", path, err)
	}
	return nil
}

func rowValues(row review.MergedRow) []string {
	return []string{
		row.StatusLabel,
		row.SG,
		row.ClientID,
		row.Tag,
		row.Region,
		row.Region1,
		row.Region2,
		row.Pod,
		row.CA,
		row.RM,
		row.ReviewCAWB,
		row.ReviewDate,
		row.LayerDate,
		row.TestDate,
		row.Comment,
	}
}
