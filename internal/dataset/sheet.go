package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadSheet loads one worksheet. The first row is the header; an empty
// sheet name selects the first sheet. Cell values are read raw so that
// percentages and large identifiers keep their stored value.
func ReadSheet(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &Table{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return &Table{Header: header, Rows: rows[1:]}, nil
}

// LoadSeries reads a KPI sheet, dropping rows in which every cell is blank
func LoadSeries(path, sheet string) (*Table, error) {
	t, err := ReadSheet(path, sheet)
	if err != nil {
		return nil, err
	}
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	t.Rows = kept
	return t, nil
}

// WriteSheet writes header and rows to a single-sheet workbook
func WriteSheet(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for c, h := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
