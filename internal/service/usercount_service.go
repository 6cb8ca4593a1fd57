package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/dataset"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/repository"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var userCountHeader = []string{"DISTRICT", "SITE_ID", "User_Count"}

// UserCountService counts distinct subscribers per site
type UserCountService struct {
	usage     *repository.UsageStore
	vlr       *repository.VLRStore
	locations *repository.LocationRepository
	logger    logrus.FieldLogger
}

// NewUserCountService creates a new user count service
func NewUserCountService(usage *repository.UsageStore, vlr *repository.VLRStore, locations *repository.LocationRepository, logger logrus.FieldLogger) *UserCountService {
	return &UserCountService{
		usage:     usage,
		vlr:       vlr,
		locations: locations,
		logger:    logger.WithField("service", "user_count"),
	}
}

// Months returns the selectable month keys
func (s *UserCountService) Months() []string {
	months := s.usage.Months()
	out := make([]string, 0, len(months))
	for _, m := range months {
		out = append(out, m.Key)
	}
	return out
}

// Count joins usage and VLR rows on MSISDN and counts distinct subscribers
// per (district, site). An empty month means every month. A district equal
// to a reference site name is replaced by that site's district.
func (s *UserCountService) Count(ctx context.Context, q models.UserCountQuery) ([]models.UserCount, error) {
	district := strings.ToUpper(strings.TrimSpace(q.District))
	if district != "" {
		d, ok, err := s.locations.DistrictOfSite(ctx, district)
		if err != nil {
			return nil, err
		}
		if ok {
			district = strings.ToUpper(d)
		}
	}

	type siteKey struct{ district, site string }
	subscribers := make(map[siteKey]map[string]struct{})
	for _, u := range s.usage.All() {
		if q.Month != "" && u.Month != q.Month {
			continue
		}
		for _, v := range s.vlr.ForMSISDN(u.MSISDN) {
			if district != "" && strings.ToUpper(v.District) != district {
				continue
			}
			k := siteKey{district: v.District, site: SiteIDOf(v.CellCode)}
			set, ok := subscribers[k]
			if !ok {
				set = make(map[string]struct{})
				subscribers[k] = set
			}
			set[u.MSISDN] = struct{}{}
		}
	}

	counts := make([]models.UserCount, 0, len(subscribers))
	for k, set := range subscribers {
		counts = append(counts, models.UserCount{District: k.district, SiteID: k.site, UserCount: len(set)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].District != counts[j].District {
			return counts[i].District < counts[j].District
		}
		return counts[i].SiteID < counts[j].SiteID
	})
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].UserCount > counts[j].UserCount
	})

	s.logger.WithFields(logrus.Fields{
		"month":    q.Month,
		"district": q.District,
		"sites":    len(counts),
	}).Debug("User count computed")
	return counts, nil
}

// ExportFilename returns the download name for a report
func ExportFilename(q models.UserCountQuery) string {
	month, district := q.Month, q.District
	if month == "" {
		month = "All"
	}
	if district == "" {
		district = "All"
	}
	ext := FormatCSV
	if q.Format == FormatXLSX {
		ext = FormatXLSX
	}
	return fmt.Sprintf("user_count_%s_%s.%s", month, district, ext)
}

// Export writes counts as CSV or XLSX
func Export(w io.Writer, format string, counts []models.UserCount) error {
	if format == FormatXLSX {
		rows := make([][]any, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []any{c.District, c.SiteID, c.UserCount})
		}
		return dataset.WriteSheet(w, "User Count", userCountHeader, rows)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(userCountHeader); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{c.District, c.SiteID, strconv.Itoa(c.UserCount)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
