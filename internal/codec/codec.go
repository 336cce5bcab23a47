// Package codec reads and writes the flat tabular record files that
// back the review store. Column order is the wire format; readers
// back-fill columns absent from a file with empty strings instead of
// failing, so schema evolution never breaks an older file.
package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Record is one parsed row keyed by column name. Every value is a
// string; absent columns are present with an empty value.
type Record map[string]string

// ReadFile parses the file at path into records with the given column
// schema. A missing file is treated as an empty record set so stores can
// lazily create their files on first write.
func ReadFile(path string, columns []string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := Read(bytes.NewReader(data), columns)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// Read parses CSV content into records with the given column schema.
// The header row maps file columns to schema columns by name; file
// columns outside the schema are retained in the record as passthrough
// values (Encode drops them) and schema columns missing from the file
// are back-filled as empty.
func Read(r io.Reader, columns []string) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	data = bytes.TrimPrefix(data, byteOrderMark)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	if len(rows) == 0 {
		return []Record{}, nil
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(columns))
		for _, column := range columns {
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

// Encode serializes records to CSV bytes in schema column order,
// starting with a header row. Values for columns a record does not
// carry are written as empty strings.
func Encode(columns []string, records []Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(columns))
	for _, record := range records {
		for i, column := range columns {
			row[i] = record[column]
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush records: %w", err)
	}
	return buf.Bytes(), nil
}
