// Package catalog loads the externally produced client catalog and
// collapses it to one row per client. The catalog file is replaced
// wholesale by an upstream process; this package only ever reads it.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rpattn/reviewstore/internal/codec"
	"github.com/rpattn/reviewstore/internal/domain"
)

// Columns is the catalog wire schema. Source files may carry extra
// passthrough columns; those are ignored. Missing columns are
// back-filled as empty strings.
var Columns = []string{
	"client_id",
	"tag",
	"region",
	"region1",
	"region2",
	"pod",
	"CA",
	"RM",
	"review_cawb",
	"SG",
	"layer",
}

// Loader reads catalog files and filters them to the allowed tag set.
type Loader struct {
	allowedTags map[string]struct{}
	logger      *zap.Logger
}

// NewLoader creates a catalog loader that keeps only rows whose trimmed
// tag is in allowedTags.
func NewLoader(allowedTags []string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	tags := make(map[string]struct{}, len(allowedTags))
	for _, tag := range allowedTags {
		tags[strings.TrimSpace(tag)] = struct{}{}
	}
	return &Loader{allowedTags: tags, logger: logger}
}

// Load reads the catalog at path. The file must exist; the store cannot
// operate on an absent catalog. Every value is kept as a string, row
// order is assigned by physical position before tag filtering, and rows
// with a tag outside the allow-set are dropped.
func (l *Loader) Load(path string) ([]domain.CatalogRecord, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCatalogMissing, path)
		}
		return nil, fmt.Errorf("failed to stat catalog file %s: %w", path, err)
	}

	var (
		rows []codec.Record
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = l.loadWorkbook(path)
	default:
		rows, err = codec.ReadFile(path, Columns)
	}
	if err != nil {
		return nil, err
	}

	records := make([]domain.CatalogRecord, 0, len(rows))
	dropped := 0
	for order, row := range rows {
		tag := strings.TrimSpace(row["tag"])
		if _, ok := l.allowedTags[tag]; !ok {
			dropped++
			continue
		}
		records = append(records, domain.CatalogRecord{
			ClientID:   row["client_id"],
			Tag:        tag,
			Region:     row["region"],
			Region1:    row["region1"],
			Region2:    row["region2"],
			Pod:        row["pod"],
			CA:         row["CA"],
			RM:         row["RM"],
			ReviewCAWB: row["review_cawb"],
			SG:         row["SG"],
			Layer:      row["layer"],
			RowOrder:   order,
		})
	}

	l.logger.Debug("loaded catalog",
		zap.String("path", path),
		zap.Int("rows", len(records)),
		zap.Int("dropped_by_tag", dropped))
	return records, nil
}

// loadWorkbook reads the first sheet of an Excel workbook as if it were
// a CSV: first row is the header, everything below is data.
func (l *Loader) loadWorkbook(path string) ([]codec.Record, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return []codec.Record{}, nil
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []codec.Record{}, nil
	}

	header := rows[0]
	records := make([]codec.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(codec.Record, len(Columns))
		for _, column := range Columns {
			record[column] = ""
		}
		for i, name := range header {
			if i >= len(row) {
				break
			}
			record[name] = row[i]
		}
		records = append(records, record)
	}
	return records, nil
}
