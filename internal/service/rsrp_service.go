package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/cache"
	"github.com/jengzang/subscriber-insights-go/internal/dataset"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/repository"
	"github.com/jengzang/subscriber-insights-go/internal/tablefilter"
)

// siteIDLength is the length of the site prefix of a cell code
const siteIDLength = 6

var rsrpTextColumns = []string{models.ColCellName, models.ColSiteID, models.ColSiteName}

// RSRPSchema describes the filterable RSRP table
var RSRPSchema = tablefilter.Schema{
	TextColumns:     rsrpTextColumns,
	NumericColumns:  models.RSRPRangeColumns,
	SortableColumns: append(append([]string(nil), rsrpTextColumns...), models.RSRPRangeColumns...),
}

// SiteIDOf returns the site prefix of a cell code
func SiteIDOf(cellCode string) string {
	cellCode = strings.TrimSpace(cellCode)
	if len(cellCode) > siteIDLength {
		return cellCode[:siteIDLength]
	}
	return cellCode
}

// RSRPService handles RSRP signal distribution lookups
type RSRPService struct {
	store  *repository.RSRPStore
	cache  *cache.TTL[string, []models.RSRPRecord]
	logger logrus.FieldLogger
}

// NewRSRPService creates a new RSRP service
func NewRSRPService(store *repository.RSRPStore, c *cache.TTL[string, []models.RSRPRecord], logger logrus.FieldLogger) *RSRPService {
	return &RSRPService{
		store:  store,
		cache:  c,
		logger: logger.WithField("service", "rsrp"),
	}
}

// BySite returns the rows of the site, ZTE first, with the per-site derived columns
func (s *RSRPService) BySite(siteID string) []models.RSRPRecord {
	siteID = SiteIDOf(siteID)
	rows, _ := s.cache.GetOrLoad(siteID, func() ([]models.RSRPRecord, error) {
		return AddDerivedColumns(s.store.BySite(siteID)), nil
	})
	return append([]models.RSRPRecord(nil), rows...)
}

// ByCellCode returns the rows of the site the cell belongs to
func (s *RSRPService) ByCellCode(cellCode string) []models.RSRPRecord {
	return s.BySite(SiteIDOf(cellCode))
}

// FilterAndSort runs the filter DSL and sort over rows
func (s *RSRPService) FilterAndSort(rows []models.RSRPRecord, filters []tablefilter.Filter, sortBy, order string) []models.RSRPRecord {
	return tablefilter.FilterAndSort(rows, RSRPSchema, filters, sortBy, order)
}

// Process filters rows with the posted form and reports the counts
func (s *RSRPService) Process(rows []models.RSRPRecord, form models.RSRPFilterForm) *models.RSRPFilterResult {
	filters := FiltersFromForm(form)
	order := form.SortOrder
	if order == "" {
		order = "asc"
	}

	filtered := s.FilterAndSort(rows, filters, form.SortBy, order)
	s.logger.WithFields(logrus.Fields{
		"total":    len(rows),
		"filtered": len(filtered),
		"sort_by":  form.SortBy,
	}).Debug("RSRP filter applied")

	applied := make(map[string]string, len(filters))
	for _, f := range filters {
		applied[f.Key] = f.Expr
	}
	return &models.RSRPFilterResult{
		Data:          filtered,
		TotalCount:    len(rows),
		FilteredCount: len(filtered),
		Filters:       applied,
		SortBy:        form.SortBy,
		SortOrder:     order,
	}
}

// FiltersFromForm maps the full filter form onto DSL filters:
// text filters, then per-bucket expressions, then per-bucket bounds
func FiltersFromForm(form models.RSRPFilterForm) []tablefilter.Filter {
	filters := []tablefilter.Filter{
		{Key: models.ColCellName, Expr: form.CellName},
		{Key: models.ColSiteID, Expr: form.SiteID},
		{Key: models.ColSiteName, Expr: form.SiteName},
	}
	direct := []string{form.Range1Direct, form.Range2Direct, form.Range3Direct, form.Range4Direct}
	for i, col := range models.RSRPRangeColumns {
		filters = append(filters, tablefilter.Filter{Key: col, Expr: direct[i]})
	}
	return append(filters, boundFilters(form)...)
}

// RangeFiltersFromForm maps the RSRP range page form: cell name, site ID and bounds
func RangeFiltersFromForm(form models.RSRPFilterForm) []tablefilter.Filter {
	filters := []tablefilter.Filter{
		{Key: models.ColCellName, Expr: form.CellName},
		{Key: models.ColSiteID, Expr: form.SiteID},
	}
	return append(filters, boundFilters(form)...)
}

func boundFilters(form models.RSRPFilterForm) []tablefilter.Filter {
	bounds := [][2]string{
		{form.Range1Min, form.Range1Max},
		{form.Range2Min, form.Range2Max},
		{form.Range3Min, form.Range3Max},
		{form.Range4Min, form.Range4Max},
	}
	filters := make([]tablefilter.Filter, 0, 2*len(bounds))
	for i, col := range models.RSRPRangeColumns {
		filters = append(filters,
			tablefilter.Filter{Key: col + "_min", Expr: bounds[i][0]},
			tablefilter.Filter{Key: col + "_max", Expr: bounds[i][1]},
		)
	}
	return filters
}

// AddDerivedColumns fills the good/poor averages and the quality label.
// Averages are taken over the rows sharing a site name.
func AddDerivedColumns(rows []models.RSRPRecord) []models.RSRPRecord {
	type bucketSums struct {
		sum [4]float64
		n   int
	}
	bySite := make(map[string]*bucketSums)
	for _, r := range rows {
		b, ok := bySite[r.SiteName]
		if !ok {
			b = &bucketSums{}
			bySite[r.SiteName] = b
		}
		b.sum[0] += r.Range1
		b.sum[1] += r.Range2
		b.sum[2] += r.Range3
		b.sum[3] += r.Range4
		b.n++
	}

	out := make([]models.RSRPRecord, len(rows))
	for i, r := range rows {
		b := bySite[r.SiteName]
		n := float64(b.n)
		// only the totals are rounded
		r.GoodSignalAvg = dataset.Round(b.sum[0]/n+b.sum[1]/n, 2)
		r.PoorSignalAvg = dataset.Round(b.sum[2]/n+b.sum[3]/n, 2)
		if r.GoodSignalAvg > r.PoorSignalAvg {
			r.SignalQuality = models.SignalGood
		} else {
			r.SignalQuality = models.SignalPoor
		}
		out[i] = r
	}
	return out
}
