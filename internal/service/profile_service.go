package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/cache"
	"github.com/jengzang/subscriber-insights-go/internal/dataset"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/repository"
	"github.com/jengzang/subscriber-insights-go/internal/spatial"
)

// locationPattern matches "<mcc>-<lac hex>-<sac hex>"
var locationPattern = regexp.MustCompile(`^(\d+)-(\w+)-([a-fA-F0-9]+)`)

// simTypes maps the 8th IMSI digit to (SIM type, connection type)
var simTypes = map[byte][2]string{
	'1': {"ESIM", "PRE"},
	'2': {"USIM", "PRE"},
	'3': {"SIM", "PRE"},
	'7': {"ESIM", "POS"},
	'8': {"USIM", "POS"},
	'9': {"SIM", "POS"},
}

const approximateSuffix = " (Approximate)"

// ProfileService resolves an MSISDN into a consolidated subscriber profile
type ProfileService struct {
	subscribers *dataset.SubscriberFile
	locations   *repository.LocationRepository
	devices     *repository.DeviceRepository
	usage       *repository.UsageStore
	vlr         *repository.VLRStore
	rsrp        *RSRPService
	cache       *cache.TTL[string, *models.Profile]
	logger      logrus.FieldLogger
}

// ProfileDeps groups the data sources of a ProfileService
type ProfileDeps struct {
	Subscribers *dataset.SubscriberFile
	Locations   *repository.LocationRepository
	Devices     *repository.DeviceRepository
	Usage       *repository.UsageStore
	VLR         *repository.VLRStore
	RSRP        *RSRPService
	Cache       *cache.TTL[string, *models.Profile]
}

// NewProfileService creates a new profile service
func NewProfileService(deps ProfileDeps, logger logrus.FieldLogger) *ProfileService {
	return &ProfileService{
		subscribers: deps.Subscribers,
		locations:   deps.Locations,
		devices:     deps.Devices,
		usage:       deps.Usage,
		vlr:         deps.VLR,
		rsrp:        deps.RSRP,
		cache:       deps.Cache,
		logger:      logger.WithField("service", "profile"),
	}
}

// Lookup returns the profile of msisdn, from the cache when fresh
func (s *ProfileService) Lookup(ctx context.Context, msisdn string) (*models.Profile, error) {
	if msisdn == "" || !isDigits(msisdn) {
		return nil, ErrInvalidMSISDN
	}
	return s.cache.GetOrLoad(msisdn, func() (*models.Profile, error) {
		return s.build(ctx, msisdn)
	})
}

func (s *ProfileService) build(ctx context.Context, msisdn string) (*models.Profile, error) {
	rec, found, err := s.subscribers.Find(ctx, msisdn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	if !found {
		return nil, ErrMSISDNNotFound
	}

	p := &models.Profile{
		MSISDN:         msisdn,
		IMSI:           rec.IMSI,
		IMEI:           rec.IMEI,
		SIMType:        models.Unknown,
		ConnectionType: models.Unknown,
		LAC:            models.NotFound,
		SAC:            models.NotFound,
		SiteName:       models.NotFound,
		CellCode:       models.NotFound,
		Region:         models.NotFound,
		District:       models.NotFound,
	}
	if len(rec.IMSI) >= 8 {
		if t, ok := simTypes[rec.IMSI[7]]; ok {
			p.SIMType, p.ConnectionType = t[0], t[1]
		}
	}

	if err := s.resolveLocation(ctx, p, rec.Location); err != nil {
		return nil, err
	}
	if err := s.resolveDevice(ctx, p, rec.TAC); err != nil {
		return nil, err
	}
	p.MonthlyUsage = s.monthlyUsage(msisdn)

	cells, err := s.commonCells(ctx, p)
	if err != nil {
		return nil, err
	}
	p.CommonCells = cells

	p.RSRPData = []models.RSRPRecord{}
	if p.HasCellCode() {
		p.RSRPData = s.rsrp.ByCellCode(p.CellCode)
	}

	s.logger.WithFields(logrus.Fields{
		"msisdn":       msisdn,
		"cell_code":    p.CellCode,
		"common_cells": len(p.CommonCells),
	}).Info("Profile resolved")
	return p, nil
}

// resolveLocation fills the serving cell from the LAC/SAC of the location field.
// An exact (LAC, cell) match wins; otherwise the first cell of the LAC is used
// and the site is marked approximate.
func (s *ProfileService) resolveLocation(ctx context.Context, p *models.Profile, location string) error {
	m := locationPattern.FindStringSubmatch(location)
	if m == nil {
		return nil
	}
	lac, err := strconv.ParseInt(m[2], 16, 64)
	if err != nil {
		return ErrInvalidLocation
	}
	sac, err := strconv.ParseInt(m[3], 16, 64)
	if err != nil {
		return ErrInvalidLocation
	}
	p.LAC = strconv.FormatInt(lac, 10)
	p.SAC = strconv.FormatInt(sac, 10)

	cell, err := s.locations.FindExact(ctx, lac, sac)
	if err != nil {
		return err
	}
	approximate := false
	if cell == nil {
		if cell, err = s.locations.FirstByLAC(ctx, lac); err != nil {
			return err
		}
		approximate = true
	}
	if cell == nil {
		return nil
	}

	p.SiteName = cell.SiteName
	if approximate {
		p.SiteName += approximateSuffix
	}
	p.CellCode = cell.CellCode
	p.Lon = cell.Lon
	p.Lat = cell.Lat
	p.Region = cell.Region
	p.District = cell.District
	return nil
}

func (s *ProfileService) resolveDevice(ctx context.Context, p *models.Profile, tac string) error {
	d := models.UnknownDevice(tac)
	if tac != "" && isDigits(tac) {
		found, err := s.devices.FindByTAC(ctx, dataset.NormalizeTAC(tac))
		if err != nil {
			return err
		}
		if found != nil {
			d = *found
		}
	}

	p.TAC = tac
	p.Brand = d.Brand
	p.Model = d.Model
	p.OS = d.SoftwareOSName
	p.MarketingName = d.MarketingName
	p.YearReleased = d.YearReleased
	p.DeviceType = d.DeviceType
	p.VoLTE = d.VoLTE
	p.Technology = d.Technology
	p.PrimaryHardwareType = d.PrimaryHardwareType
	return nil
}

// monthlyUsage sums the usage rows per detected month.
// Volumes and SMS counts are truncated to integers, voice minutes rounded to 2 decimals.
func (s *ProfileService) monthlyUsage(msisdn string) models.MonthlyUsage {
	u := models.NewMonthlyUsage()
	rows := s.usage.ForMSISDN(msisdn)
	if len(rows) == 0 {
		return u
	}

	sums := make(map[string]*models.UsageRecord)
	for _, r := range rows {
		acc, ok := sums[r.Month]
		if !ok {
			acc = &models.UsageRecord{Month: r.Month}
			sums[r.Month] = acc
		}
		acc.Volume2GMB += r.Volume2GMB
		acc.Volume3GMB += r.Volume3GMB
		acc.Volume4GMB += r.Volume4GMB
		acc.Volume5GMB += r.Volume5GMB
		acc.IncomingVoice += r.IncomingVoice
		acc.OutgoingVoice += r.OutgoingVoice
		acc.IncomingSMS += r.IncomingSMS
		acc.OutgoingSMS += r.OutgoingSMS
	}

	for _, m := range s.usage.Months() {
		acc, ok := sums[m.Key]
		if !ok {
			acc = &models.UsageRecord{}
		}
		v2, v3, v4, v5 := int64(acc.Volume2GMB), int64(acc.Volume3GMB), int64(acc.Volume4GMB), int64(acc.Volume5GMB)
		u.Months = append(u.Months, m.Key)
		u.Volume2G = append(u.Volume2G, v2)
		u.Volume3G = append(u.Volume3G, v3)
		u.Volume4G = append(u.Volume4G, v4)
		u.Volume5G = append(u.Volume5G, v5)
		u.IncomingVoice = append(u.IncomingVoice, dataset.Round(acc.IncomingVoice, 2))
		u.OutgoingVoice = append(u.OutgoingVoice, dataset.Round(acc.OutgoingVoice, 2))
		u.IncomingSMS = append(u.IncomingSMS, int64(acc.IncomingSMS))
		u.OutgoingSMS = append(u.OutgoingSMS, int64(acc.OutgoingSMS))
		u.Total = append(u.Total, v2+v3+v4+v5)
	}
	return u
}

// commonCells lists the VLR cells of the subscriber with coordinates,
// site RSRP rows and the distance from the serving cell
func (s *ProfileService) commonCells(ctx context.Context, p *models.Profile) ([]models.CommonCell, error) {
	rows := s.vlr.ForMSISDN(p.MSISDN)
	cells := make([]models.CommonCell, 0, len(rows))
	for _, r := range rows {
		c := models.CommonCell{
			CellCode: r.CellCode,
			SiteName: r.SiteName,
			District: r.District,
			LAC:      r.LAC,
			Cell:     r.Cell,
			RSRPData: []models.RSRPRecord{},
		}
		if c.CellCode != models.Unknown && c.CellCode != "" {
			ref, err := s.locations.FindByCellCode(ctx, c.CellCode)
			if err != nil {
				return nil, err
			}
			if ref != nil {
				c.Lon, c.Lat = ref.Lon, ref.Lat
			}
			c.RSRPData = s.rsrp.BySite(SiteIDOf(c.CellCode))
		}
		if p.HasLocation() && c.Lat.Valid && c.Lon.Valid {
			d := dataset.Round(spatial.DistanceKm(
				spatial.Point{Lat: p.Lat.Value, Lon: p.Lon.Value},
				spatial.Point{Lat: c.Lat.Value, Lon: c.Lon.Value},
			), 2)
			c.DistanceKm = &d
		}
		cells = append(cells, c)
	}
	return cells, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
