package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Metadata table extensions.
const (
	ExtCSV  = ".csv"
	ExtTSV  = ".tsv"
	ExtXLSX = ".xlsx"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// IsTable reports whether path names a metadata table by its extension.
func IsTable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtCSV, ExtTSV, ExtXLSX:
		return true
	default:
		return false
	}
}

// ParseTable decodes a metadata table. ext selects the encoding. The first
// non-blank row is the header; the first column holds entity names and its
// header becomes the identity category. Blank cells are missing values.
// Only the first sheet of a workbook is read.
func ParseTable(data []byte, ext string) (*Dataset, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(ext) {
	case ExtCSV:
		rows, err = readDelimited(data, ',')
	case ExtTSV:
		rows, err = readDelimited(data, '\t')
	case ExtXLSX:
		rows, err = readWorkbook(data)
	default:
		return nil, fmt.Errorf("%w: no table reader for %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		return nil, err
	}

	return fromRows(rows)
}

func readDelimited(data []byte, comma rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, byteOrderMark)))
	r.Comma = comma
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.LazyQuotes = comma == '\t'

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}

	return rows, nil
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	return rows, nil
}

func fromRows(rows [][]string) (*Dataset, error) {
	var (
		headers  []string
		entities []*Entity
	)

	for i, row := range rows {
		if blankRow(row) {
			continue
		}

		if headers == nil {
			var err error
			if headers, err = tableHeaders(row); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}

			continue
		}

		e := &Entity{Name: cell(row, 0)}

		for col := 1; col < len(headers); col++ {
			v := cell(row, col)
			if v == "" || headers[col] == "" {
				continue
			}

			if e.Attributes == nil {
				e.Attributes = make(map[string]Values, len(headers)-1)
			}

			e.Attributes[headers[col]] = Values{v}
		}

		entities = append(entities, e)
	}

	if headers == nil {
		return nil, errors.New("table has no header row")
	}

	if err := validateEntities(entities); err != nil {
		return nil, err
	}

	return &Dataset{
		IdentityCategory: headers[0],
		Entities:         entities,
		Counts:           ComputeCounts(entities),
	}, nil
}

func tableHeaders(row []string) ([]string, error) {
	headers := make([]string, len(row))
	seen := make(map[string]bool, len(row))

	for i := range row {
		h := cell(row, i)
		headers[i] = h

		if h == "" {
			continue
		}

		if seen[h] {
			return nil, fmt.Errorf("duplicate column %q", h)
		}

		seen[h] = true
	}

	if headers[0] == "" {
		return nil, errors.New("first column has no header")
	}

	return headers, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}

	return true
}
