package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/repository"
	"github.com/jengzang/subscriber-insights-go/internal/stats"
	"github.com/jengzang/subscriber-insights-go/internal/tablefilter"
)

// lteSliceColumns are shown for site and cell lookups
var lteSliceColumns = []string{
	models.LTECellID, models.LTESectorID, models.LTESiteName, models.LTESiteID,
	models.LTESectorUtilization, models.LTECellUtilization,
	models.LTEDLThroughput, models.LTEULThroughput, models.LTERadioResourceDL,
}

// lteAllColumns are shown for the full report
var lteAllColumns = append(append([]string(nil), models.LTETextColumns...), models.LTENumericColumns...)

// LTESchema describes the filterable LTE table
var LTESchema = tablefilter.Schema{
	TextColumns:     models.LTETextColumns,
	NumericColumns:  models.LTENumericColumns,
	SortableColumns: lteAllColumns,
}

// LTEService serves the LTE utilization report
type LTEService struct {
	store  *repository.LTEStore
	logger logrus.FieldLogger
}

// NewLTEService creates a new LTE service
func NewLTEService(store *repository.LTEStore, logger logrus.FieldLogger) *LTEService {
	return &LTEService{store: store, logger: logger.WithField("service", "lte")}
}

// Columns returns the displayed columns of the full report that the file carries
func (s *LTEService) Columns() []string {
	return s.available(lteAllColumns)
}

// BySiteID returns the rows whose Site ID equals siteID
func (s *LTEService) BySiteID(siteID string) []models.LTERecord {
	var out []models.LTERecord
	for _, r := range s.store.All() {
		if r.Text(models.LTESiteID) == siteID {
			out = append(out, r)
		}
	}
	return s.project(out, lteSliceColumns)
}

// ByCellCode returns the rows whose Cell ID contains cellCode
func (s *LTEService) ByCellCode(cellCode string) []models.LTERecord {
	var out []models.LTERecord
	for _, r := range s.store.All() {
		if strings.Contains(r.Text(models.LTECellID), cellCode) {
			out = append(out, r)
		}
	}
	return s.project(out, lteSliceColumns)
}

// All runs the filter DSL and sort over the whole report.
// Filters on columns the report lacks are ignored.
func (s *LTEService) All(filters []tablefilter.Filter, sortBy, order string) []models.LTERecord {
	kept := make([]tablefilter.Filter, 0, len(filters))
	for _, f := range filters {
		base := strings.TrimSuffix(strings.TrimSuffix(f.Key, "_min"), "_max")
		if s.store.HasColumn(base) {
			kept = append(kept, f)
		}
	}
	if !s.store.HasColumn(sortBy) {
		sortBy = ""
	}

	rows := tablefilter.FilterAndSort(s.store.All(), LTESchema, kept, sortBy, order)
	s.logger.WithFields(logrus.Fields{"filters": len(kept), "rows": len(rows)}).Debug("LTE query")
	return s.project(rows, lteAllColumns)
}

// Summary aggregates the whole report
func (s *LTEService) Summary() models.LTESummary {
	rows := s.store.All()
	sites := make(map[string]struct{})
	sectors := make(map[string]struct{})
	for _, r := range rows {
		if v := r.Text(models.LTESiteID); v != "" {
			sites[v] = struct{}{}
		}
		if v := r.Text(models.LTESectorID); v != "" {
			sectors[v] = struct{}{}
		}
	}

	sum := models.LTESummary{
		TotalCells:   len(rows),
		TotalSites:   len(sites),
		TotalSectors: len(sectors),
	}
	if v := s.values(models.LTESectorUtilization); len(v) > 0 {
		sum.AvgSectorUtilization = ptr(stats.Mean(v))
		sum.MaxSectorUtilization = ptr(stats.Max(v))
	}
	if v := s.values(models.LTECellUtilization); len(v) > 0 {
		sum.AvgCellUtilization = ptr(stats.Mean(v))
		sum.MaxCellUtilization = ptr(stats.Max(v))
		sum.P95CellUtilization = ptr(stats.Percentile(v, 95))
	}
	if v := s.values(models.LTEDLThroughput); len(v) > 0 {
		sum.AvgDLThroughput = ptr(stats.Mean(v))
	}
	if v := s.values(models.LTEULThroughput); len(v) > 0 {
		sum.AvgULThroughput = ptr(stats.Mean(v))
	}
	return sum
}

// values returns the non-blank numbers of a column
func (s *LTEService) values(column string) []float64 {
	var out []float64
	for _, r := range s.store.All() {
		if v, ok := r.Number(column); ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *LTEService) available(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if s.store.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// project keeps the listed columns the report carries
func (s *LTEService) project(rows []models.LTERecord, columns []string) []models.LTERecord {
	cols := s.available(columns)
	out := make([]models.LTERecord, 0, len(rows))
	for _, r := range rows {
		p := make(models.LTERecord, len(cols))
		for _, c := range cols {
			p[c] = r[c]
		}
		out = append(out, p)
	}
	return out
}

func ptr(f float64) *float64 {
	return &f
}
