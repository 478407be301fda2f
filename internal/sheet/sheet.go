// Package sheet reads item records from spreadsheets.
//
// The first non-empty row of the sheet is the header: each header cell names
// a field. The item name comes from the column headed "name" or "item"
// (case-insensitive), or from the first column when no such header exists.
// Every following non-empty row is one item; empty cells are skipped.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sentinel errors for spreadsheet reading.
var (
	ErrOpen          = errors.New("sheet: cannot open workbook")
	ErrSheetNotFound = errors.New("sheet: worksheet not found")
	ErrNoHeader      = errors.New("sheet: no header row")
)

// Cell is one named value of a row.
type Cell struct {
	Key   string
	Value string
}

// Record is one item row: its name and its remaining cells in column order.
type Record struct {
	Name  string
	Row   int // 1-based spreadsheet row number
	Cells []Cell
}

// nameHeaders are the header spellings that select the item name column.
var nameHeaders = map[string]bool{"name": true, "item": true, "item name": true}

// ReadFile reads records from the workbook at path. An empty sheet name
// selects the first worksheet.
func ReadFile(path, sheetName string) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()
	return read(f, sheetName)
}

// Read reads records from a workbook stream.
func Read(r io.Reader, sheetName string) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()
	return read(f, sheetName)
}

func read(f *excelize.File, sheetName string) ([]Record, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrSheetNotFound
		}
		sheetName = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet: reading %q: %w", sheetName, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoHeader, sheetName)
	}

	header := make([]string, len(rows[headerIdx]))
	nameCol := 0
	foundName := false
	for i, h := range rows[headerIdx] {
		header[i] = strings.TrimSpace(h)
		if !foundName && nameHeaders[strings.ToLower(header[i])] {
			nameCol = i
			foundName = true
		}
	}

	var out []Record
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		rec := Record{Row: i + 1}
		for col, value := range row {
			if col == nameCol {
				rec.Name = strings.TrimSpace(value)
				continue
			}
			if col >= len(header) || header[col] == "" || strings.TrimSpace(value) == "" {
				continue
			}
			rec.Cells = append(rec.Cells, Cell{Key: header[col], Value: value})
		}
		out = append(out, rec)
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
