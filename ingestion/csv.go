package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Columns of a corpus export. Each field lists the header names accepted
// for it, preferred first.
var columns = map[string][]string{
	"ticker":      {"ticker"},
	"company":     {"company_name", "company"},
	"year":        {"year"},
	"field_code":  {"field_code", "code"},
	"field_name":  {"field_name"},
	"value":       {"value", "val"},
	"bucket":      {"esg_bucket", "bucket"},
	"incomplete":  {"incomplete"},
	"source_file": {"source_file"},
}

var requiredColumns = []string{"ticker", "company", "year", "field_code", "field_name", "value"}

// ReadCSVFile reads a corpus export from path.
func ReadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV reads a corpus export with a header row. Column order is free
// and unknown columns are ignored.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		year, err := normalizeYear(field("year"))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rows = append(rows, Row{
			Ticker:     strings.Trim(field("ticker"), `'"`),
			Company:    field("company"),
			Year:       year,
			FieldCode:  field("field_code"),
			FieldName:  field("field_name"),
			Value:      field("value"),
			Bucket:     field("bucket"),
			Incomplete: parseFlag(field("incomplete")),
			SourceFile: field("source_file"),
		})
	}
}

func columnIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	index := make(map[string]int, len(columns))
	for name, accepted := range columns {
		for _, h := range accepted {
			if i, ok := positions[h]; ok {
				index[name] = i
				break
			}
		}
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, columns[name][0])
		}
	}
	return index, nil
}

// normalizeYear accepts "2007" and spreadsheet forms such as "2007.0".
func normalizeYear(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", fmt.Errorf("year %q: %w", s, err)
	}
	return strconv.Itoa(int(f)), nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
