// Package dataset reads the flat files and spreadsheets the dashboard joins.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Table is a header row plus data rows, all cells as text
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of column, or -1.
// Header names are compared after trimming, ignoring case.
func (t *Table) Index(column string) int {
	want := strings.ToLower(strings.TrimSpace(column))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// Has reports whether column exists
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Cell returns the trimmed cell of row at idx, "" when out of range
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// readDelimited loads a delimited text file whose first line is the header
func readDelimited(path string, sep rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	t := &Table{Header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// ReadCSV loads a comma-separated file with a header row
func ReadCSV(path string) (*Table, error) {
	return readDelimited(path, ',')
}

// ReadTSV loads a tab-separated file with a header row
func ReadTSV(path string) (*Table, error) {
	return readDelimited(path, '\t')
}

// parseNumber parses a numeric cell; blank or malformed cells are not numbers
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// numberOrZero parses a numeric cell, counting anything else as 0
func numberOrZero(s string) float64 {
	f, _ := parseNumber(s)
	return f
}

// NormalizeID turns spreadsheet renderings of integer identifiers
// ("94771234567", "9.4771234567E+10", "413.0") into plain digits.
// Other values are returned trimmed.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || isDigits(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1e18 {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Round rounds to the given number of decimals
func Round(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(f*p) / p
}
