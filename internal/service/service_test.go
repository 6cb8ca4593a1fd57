package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jengzang/subscriber-insights-go/internal/cache"
	"github.com/jengzang/subscriber-insights-go/internal/database"
	"github.com/jengzang/subscriber-insights-go/internal/dataset"
	"github.com/jengzang/subscriber-insights-go/internal/logging"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/repository"
	"github.com/jengzang/subscriber-insights-go/internal/tablefilter"
)

const subscriberLines = `413020812345678;94771234567;35332811223344;x;413-1f4-2a3c
413020881111111;94770000001;01234567000000;x;413-1f4-ffff
413020811111111;94770000002;x;x;413-zz-1
413020811111111;94770000003;35332811000000;x;
short;line
413020891111111;94771234567;86000000111111;x;413-258-9
`

type fixture struct {
	caches      *cache.Set
	subscribers *dataset.SubscriberFile
	locations   *repository.LocationRepository
	devices     *repository.DeviceRepository
	usage       *repository.UsageStore
	vlr         *repository.VLRStore
	rsrp        *RSRPService
	profiles    *ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := logging.Discard()

	db, err := database.Open(database.Config{
		Path:   filepath.Join(t.TempDir(), "ref.db"),
		Logger: logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	locations := repository.NewLocationRepository(db)
	require.NoError(t, locations.ReplaceAll(ctx, []models.CellLocation{
		{LAC: 500, CellID: 10812, SiteName: "Colombo Fort", CellCode: "COL001A", Lon: models.NewCoord(79.85), Lat: models.NewCoord(6.93), Region: "Western", District: "Colombo"},
		{LAC: 500, CellID: 10813, SiteName: "Colombo Fort", CellCode: "COL001C", Lon: models.NewCoord(79.851), Lat: models.NewCoord(6.931), Region: "Western", District: "Colombo"},
		{LAC: 600, CellID: 9, SiteName: "Kandy", CellCode: "COL002B", Lon: models.NewCoord(80.63), Lat: models.NewCoord(7.29), Region: "Central", District: "Kandy"},
	}))

	devices := repository.NewDeviceRepository(db)
	require.NoError(t, devices.ReplaceAll(ctx, []models.Device{
		{TAC: "35332811", Brand: "Apple", Model: "iPhone 12", MarketingName: "iPhone 12", YearReleased: "2020", VoLTE: "Yes"},
		{TAC: "86000000", Brand: "Samsung", Model: "Galaxy A12", YearReleased: "2021"},
	}))

	path := filepath.Join(t.TempDir(), "subscribers.txt")
	require.NoError(t, os.WriteFile(path, []byte(subscriberLines), 0o644))
	subscribers := dataset.NewSubscriberFile(path)

	usage := repository.NewUsageStore(
		[]models.UsageMonth{
			{Key: "January 2025", Year: 2025, Month: 1},
			{Key: "February 2025", Year: 2025, Month: 2},
		},
		[]models.UsageRecord{
			{MSISDN: "94771234567", Month: "January 2025", Volume2GMB: 10.7, Volume4GMB: 1000.9, IncomingVoice: 12.5, OutgoingVoice: 3},
			{MSISDN: "94771234567", Month: "January 2025", Volume4GMB: 0.5, IncomingSMS: 4},
			{MSISDN: "94770000001", Month: "January 2025", Volume3GMB: 20},
			{MSISDN: "94771234567", Month: "February 2025", Volume5GMB: 7},
		},
	)
	vlr := repository.NewVLRStore([]models.VLRRecord{
		{MSISDN: "94771234567", CellCode: "COL002B", SiteName: "Kandy", District: "Kandy", LAC: "600", Cell: "9"},
		{MSISDN: "94771234567", CellCode: models.Unknown, SiteName: models.Unknown, District: "Colombo", LAC: "500", Cell: "1"},
		{MSISDN: "94771234567", CellCode: "COL001A", SiteName: "Colombo Fort", District: "Colombo", LAC: "500", Cell: "10812"},
		{MSISDN: "94770000001", CellCode: "COL001C", SiteName: "Colombo Fort", District: "Colombo", LAC: "500", Cell: "10813"},
	})

	caches := cache.NewSet(cache.Options{Clock: clockwork.NewFakeClock()}, 16)
	rsrp := NewRSRPService(repository.NewRSRPStore(
		[]models.RSRPRecord{
			{SiteName: "Colombo Fort", CellName: "COL001A_L1", SiteID: "COL001", Range1: 80, Range2: 10, Range3: 5, Range4: 5, Source: "ZTE"},
			{SiteName: "Colombo Fort", CellName: "COL001B_L1", SiteID: "COL001", Range1: 60, Range2: 10, Range3: 20, Range4: 10, Source: "ZTE"},
		},
		[]models.RSRPRecord{
			{SiteName: "Kandy", CellName: "COL002B_L1", SiteID: "COL002", Range1: 20, Range2: 10, Range3: 40, Range4: 30, Source: "Huawei"},
		},
	), caches.Analytics, logger)

	profiles := NewProfileService(ProfileDeps{
		Subscribers: subscribers,
		Locations:   locations,
		Devices:     devices,
		Usage:       usage,
		VLR:         vlr,
		RSRP:        rsrp,
		Cache:       caches.Profiles,
	}, logger)

	return &fixture{
		caches:      caches,
		subscribers: subscribers,
		locations:   locations,
		devices:     devices,
		usage:       usage,
		vlr:         vlr,
		rsrp:        rsrp,
		profiles:    profiles,
	}
}

func TestProfileLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.profiles.Lookup(ctx, "94771234567")
	require.NoError(t, err)

	assert.Equal(t, "413020812345678", p.IMSI)
	assert.Equal(t, "ESIM", p.SIMType)
	assert.Equal(t, "PRE", p.ConnectionType)

	assert.Equal(t, "500", p.LAC)
	assert.Equal(t, "10812", p.SAC)
	assert.Equal(t, "Colombo Fort", p.SiteName)
	assert.Equal(t, "COL001A", p.CellCode)
	assert.Equal(t, "Colombo", p.District)
	assert.True(t, p.HasLocation())
	assert.Equal(t, 6.93, p.Lat.Value)

	assert.Equal(t, "35332811", p.TAC)
	assert.Equal(t, "Apple", p.Brand)
	assert.Equal(t, "2020", p.YearReleased)

	u := p.MonthlyUsage
	assert.Equal(t, []string{"January 2025", "February 2025"}, u.Months)
	assert.Equal(t, []int64{10, 0}, u.Volume2G)
	assert.Equal(t, []int64{1001, 0}, u.Volume4G)
	assert.Equal(t, []int64{0, 7}, u.Volume5G)
	assert.Equal(t, []int64{1011, 7}, u.Total)
	assert.Equal(t, []float64{12.5, 0}, u.IncomingVoice)
	assert.Equal(t, []int64{4, 0}, u.IncomingSMS)

	require.Len(t, p.CommonCells, 3)
	kandy := p.CommonCells[0]
	assert.Equal(t, "COL002B", kandy.CellCode)
	assert.Equal(t, 7.29, kandy.Lat.Value)
	require.NotNil(t, kandy.DistanceKm)
	assert.InDelta(t, 94, *kandy.DistanceKm, 3)
	require.Len(t, kandy.RSRPData, 1)
	assert.Equal(t, models.SignalPoor, kandy.RSRPData[0].SignalQuality)

	unknown := p.CommonCells[1]
	assert.False(t, unknown.Lat.Valid)
	assert.Nil(t, unknown.DistanceKm)
	assert.Empty(t, unknown.RSRPData)

	require.Len(t, p.RSRPData, 2)
	assert.Equal(t, 80.0, p.RSRPData[0].GoodSignalAvg)
	assert.Equal(t, 20.0, p.RSRPData[0].PoorSignalAvg)
	assert.Equal(t, models.SignalGood, p.RSRPData[0].SignalQuality)

	again, err := f.profiles.Lookup(ctx, "94771234567")
	require.NoError(t, err)
	assert.Same(t, p, again)
}

func TestProfileLookupApproximateLocation(t *testing.T) {
	f := newFixture(t)

	p, err := f.profiles.Lookup(context.Background(), "94770000001")
	require.NoError(t, err)
	assert.Equal(t, "USIM", p.SIMType)
	assert.Equal(t, "POS", p.ConnectionType)
	assert.Equal(t, "65535", p.SAC)
	assert.Equal(t, "Colombo Fort (Approximate)", p.SiteName)
	assert.Equal(t, "COL001A", p.CellCode)
	assert.Equal(t, models.NotFound, p.Brand)
	assert.Equal(t, []int64{0, 0}, p.MonthlyUsage.Volume4G)
	assert.Equal(t, []int64{20, 0}, p.MonthlyUsage.Volume3G)
}

func TestProfileLookupWithoutLocation(t *testing.T) {
	f := newFixture(t)

	p, err := f.profiles.Lookup(context.Background(), "94770000003")
	require.NoError(t, err)
	assert.Equal(t, models.NotFound, p.LAC)
	assert.Equal(t, models.NotFound, p.CellCode)
	assert.False(t, p.HasLocation())
	assert.Empty(t, p.RSRPData)
	assert.Empty(t, p.CommonCells)
	assert.True(t, p.MonthlyUsage.IsEmpty())
}

func TestProfileLookupErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.profiles.Lookup(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidMSISDN)

	_, err = f.profiles.Lookup(ctx, "+9477")
	assert.ErrorIs(t, err, ErrInvalidMSISDN)

	_, err = f.profiles.Lookup(ctx, "94700000000")
	assert.ErrorIs(t, err, ErrMSISDNNotFound)

	_, err = f.profiles.Lookup(ctx, "94770000002")
	assert.ErrorIs(t, err, ErrInvalidLocation)

	f.subscribers.Path = filepath.Join(t.TempDir(), "missing.txt")
	_, err = f.profiles.Lookup(ctx, "94779999999")
	assert.ErrorIs(t, err, ErrDatasetUnavailable)
}

func TestAddDerivedColumns(t *testing.T) {
	rows := AddDerivedColumns([]models.RSRPRecord{
		{SiteName: "A", Range1: 10, Range2: 10, Range3: 30, Range4: 50},
		{SiteName: "A", Range1: 30, Range2: 10, Range3: 10, Range4: 0},
		{SiteName: "B", Range1: 50, Range2: 0, Range3: 25, Range4: 25},
	})

	assert.Equal(t, 30.0, rows[0].GoodSignalAvg)
	assert.Equal(t, 45.0, rows[0].PoorSignalAvg)
	assert.Equal(t, models.SignalPoor, rows[0].SignalQuality)
	assert.Equal(t, rows[0].GoodSignalAvg, rows[1].GoodSignalAvg)

	// a tie is not good
	assert.Equal(t, 50.0, rows[2].GoodSignalAvg)
	assert.Equal(t, models.SignalPoor, rows[2].SignalQuality)
}

func TestAddDerivedColumnsRoundsTotalsOnly(t *testing.T) {
	rows := AddDerivedColumns([]models.RSRPRecord{
		{SiteName: "S", Range1: 10.01, Range2: 10.01, Range3: 10, Range4: 10.01},
		{SiteName: "S", Range1: 10, Range2: 10, Range3: 10, Range4: 10},
		{SiteName: "S", Range1: 10, Range2: 10, Range3: 10, Range4: 10},
	})

	assert.Equal(t, 20.01, rows[0].GoodSignalAvg)
	assert.Equal(t, 20.0, rows[0].PoorSignalAvg)
	assert.Equal(t, models.SignalGood, rows[0].SignalQuality)
}

func TestInsightsCountsLinesWithoutLocation(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "subs.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"413020812345678;9470;35332811000001;x;413-1f4-2a3c\n"+
			"413020812345679;9471;35332811000002\n"+
			"413020812345680;9472\n"), 0o644))

	s := NewInsightsService(dataset.NewSubscriberFile(path), f.devices, logging.Discard())
	in, err := s.Insights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, in.TotalUniqueDevices)
	assert.Equal(t, 2, in.TotalActiveSubscribers)
	assert.Equal(t, []string{"iPhone 12"}, in.Top5DeviceModels)
}

func TestSiteIDOf(t *testing.T) {
	assert.Equal(t, "COL001", SiteIDOf(" COL001A "))
	assert.Equal(t, "KAN", SiteIDOf("KAN"))
}

func TestRSRPProcess(t *testing.T) {
	f := newFixture(t)
	rows := f.rsrp.BySite("COL001")
	require.Len(t, rows, 2)

	res := f.rsrp.Process(rows, models.RSRPFilterForm{
		Range1Direct: ">=50",
		Range3Min:    "10",
		SortBy:       models.ColCellName,
	})
	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, 1, res.FilteredCount)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "COL001B_L1", res.Data[0].CellName)
	assert.Equal(t, "asc", res.SortOrder)
	assert.Equal(t, ">=50", res.Filters[models.ColRSRPRange1])
	assert.Equal(t, "10", res.Filters[models.ColRSRPRange3+"_min"])

	res = f.rsrp.Process(rows, models.RSRPFilterForm{SortBy: models.ColRSRPRange1, SortOrder: "desc"})
	require.Len(t, res.Data, 2)
	assert.Equal(t, 80.0, res.Data[0].Range1)

	// the cached rows are not affected by callers
	rows[0].SiteName = "changed"
	assert.Equal(t, "Colombo Fort", f.rsrp.BySite("COL001A")[0].SiteName)
}

func TestRangeFiltersFromForm(t *testing.T) {
	filters := RangeFiltersFromForm(models.RSRPFilterForm{CellName: "L1", SiteName: "ignored", Range1Max: "90"})
	require.Len(t, filters, 10)
	assert.Equal(t, tablefilter.Filter{Key: models.ColCellName, Expr: "L1"}, filters[0])
	assert.Equal(t, tablefilter.Filter{Key: models.ColRSRPRange1 + "_max", Expr: "90"}, filters[3])
}

func lteFixture() *LTEService {
	num := func(v float64) *float64 { return &v }
	columns := []string{
		models.LTECellID, models.LTESectorID, models.LTESiteName, models.LTESiteID, models.LTEDistrict,
		models.LTESectorUtilization, models.LTECellUtilization, models.LTEDLThroughput, models.LTEULThroughput, models.LTERadioResourceDL,
	}
	records := []models.LTERecord{
		{
			models.LTECellID: "COL001A1", models.LTESectorID: "COL001A", models.LTESiteName: "Fort", models.LTESiteID: "COL001", models.LTEDistrict: "Colombo",
			models.LTESectorUtilization: num(40), models.LTECellUtilization: num(50), models.LTEDLThroughput: num(10), models.LTEULThroughput: num(2), models.LTERadioResourceDL: num(30),
		},
		{
			models.LTECellID: "COL001B1", models.LTESectorID: "COL001B", models.LTESiteName: "Fort", models.LTESiteID: "COL001", models.LTEDistrict: "Colombo",
			models.LTESectorUtilization: num(60), models.LTECellUtilization: num(70), models.LTEDLThroughput: num(20), models.LTEULThroughput: num(4), models.LTERadioResourceDL: num(50),
		},
		{
			models.LTECellID: "KAN001A1", models.LTESectorID: "KAN001A", models.LTESiteName: "Kandy", models.LTESiteID: "KAN001", models.LTEDistrict: "Kandy",
			models.LTESectorUtilization: num(20), models.LTECellUtilization: (*float64)(nil), models.LTEDLThroughput: (*float64)(nil), models.LTEULThroughput: num(6), models.LTERadioResourceDL: num(10),
		},
	}
	return NewLTEService(repository.NewLTEStore(records, columns), logging.Discard())
}

func TestLTELookups(t *testing.T) {
	s := lteFixture()

	assert.NotContains(t, s.Columns(), models.LTERegion)
	assert.Len(t, s.Columns(), 10)

	site := s.BySiteID("COL001")
	require.Len(t, site, 2)
	assert.Len(t, site[0], len(lteSliceColumns))
	assert.NotContains(t, site[0], models.LTEDistrict)

	assert.Empty(t, s.BySiteID("COL00"))

	cells := s.ByCellCode("KAN")
	require.Len(t, cells, 1)
	assert.Equal(t, "Kandy", cells[0].Text(models.LTESiteName))
}

func TestLTEAll(t *testing.T) {
	s := lteFixture()

	rows := s.All([]tablefilter.Filter{
		{Key: models.LTECellUtilization + "_min", Expr: "60"},
		{Key: models.LTERegion, Expr: "Western"},
	}, "", "")
	require.Len(t, rows, 1)
	assert.Equal(t, "COL001B1", rows[0].Text(models.LTECellID))

	rows = s.All(nil, models.LTEULThroughput, "desc")
	require.Len(t, rows, 3)
	assert.Equal(t, "KAN001A1", rows[0].Text(models.LTECellID))

	rows = s.All(nil, models.LTECellUtilization, "asc")
	require.Len(t, rows, 3)
	assert.Equal(t, "COL001A1", rows[0].Text(models.LTECellID))
	assert.Equal(t, "KAN001A1", rows[2].Text(models.LTECellID), "blank utilization sorts last")

	rows = s.All([]tablefilter.Filter{{Key: models.LTESiteName, Expr: "=fort"}}, models.LTERegion, "asc")
	assert.Len(t, rows, 2)
}

func TestLTESummary(t *testing.T) {
	sum := lteFixture().Summary()

	assert.Equal(t, 3, sum.TotalCells)
	assert.Equal(t, 2, sum.TotalSites)
	assert.Equal(t, 3, sum.TotalSectors)
	require.NotNil(t, sum.AvgSectorUtilization)
	assert.Equal(t, 40.0, *sum.AvgSectorUtilization)
	assert.Equal(t, 60.0, *sum.MaxSectorUtilization)
	assert.Equal(t, 60.0, *sum.AvgCellUtilization)
	assert.Equal(t, 70.0, *sum.MaxCellUtilization)
	assert.InDelta(t, 69.0, *sum.P95CellUtilization, 1e-9)
	assert.Equal(t, 15.0, *sum.AvgDLThroughput)
	assert.Equal(t, 4.0, *sum.AvgULThroughput)
}

func TestUserCount(t *testing.T) {
	f := newFixture(t)
	s := NewUserCountService(f.usage, f.vlr, f.locations, logging.Discard())
	ctx := context.Background()

	assert.Equal(t, []string{"January 2025", "February 2025"}, s.Months())

	counts, err := s.Count(ctx, models.UserCountQuery{})
	require.NoError(t, err)
	assert.Equal(t, []models.UserCount{
		{District: "Colombo", SiteID: "COL001", UserCount: 2},
		{District: "Colombo", SiteID: "Unknow", UserCount: 1},
		{District: "Kandy", SiteID: "COL002", UserCount: 1},
	}, counts)

	counts, err = s.Count(ctx, models.UserCountQuery{Month: "February 2025", District: "kandy"})
	require.NoError(t, err)
	assert.Equal(t, []models.UserCount{{District: "Kandy", SiteID: "COL002", UserCount: 1}}, counts)

	// a site name resolves to its district
	counts, err = s.Count(ctx, models.UserCountQuery{District: "colombo fort"})
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "COL001", counts[0].SiteID)

	counts, err = s.Count(ctx, models.UserCountQuery{Month: "March 2025"})
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestExport(t *testing.T) {
	counts := []models.UserCount{
		{District: "Colombo", SiteID: "COL001", UserCount: 2},
		{District: "Kandy", SiteID: "COL002", UserCount: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, FormatCSV, counts))
	assert.Equal(t, "DISTRICT,SITE_ID,User_Count\nColombo,COL001,2\nKandy,COL002,1\n", buf.String())

	buf.Reset()
	require.NoError(t, Export(&buf, FormatXLSX, counts))
	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("User Count")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"DISTRICT", "SITE_ID", "User_Count"},
		{"Colombo", "COL001", "2"},
		{"Kandy", "COL002", "1"},
	}, rows)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "user_count_All_All.csv", ExportFilename(models.UserCountQuery{}))
	assert.Equal(t, "user_count_March 2025_Kandy.xlsx", ExportFilename(models.UserCountQuery{
		Month: "March 2025", District: "Kandy", Format: FormatXLSX,
	}))
	assert.Equal(t, "user_count_All_Kandy.csv", ExportFilename(models.UserCountQuery{District: "Kandy", Format: "pdf"}))
}

func TestInsights(t *testing.T) {
	f := newFixture(t)
	s := NewInsightsService(f.subscribers, f.devices, logging.Discard())

	in, err := s.Insights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, in.TotalUniqueDevices)
	assert.Equal(t, 4, in.TotalActiveSubscribers)
	assert.Equal(t, 1.25, in.AverageDevicesPerUser)
	assert.Equal(t, []string{"iPhone 12", "Galaxy A12"}, in.Top5DeviceModels)
}

type fakeSummarizer struct {
	text  string
	err   error
	calls int
}

func (f *fakeSummarizer) Summarize(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestOverview(t *testing.T) {
	f := newFixture(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	sum := &fakeSummarizer{text: "The subscriber is a heavy data user."}
	s := NewOverviewService(f.profiles, sum, f.caches.Summaries, clock, logging.Discard())
	ctx := context.Background()

	ov, err := s.Overview(ctx, "94771234567")
	require.NoError(t, err)
	assert.Equal(t, "94771234567", ov.MSISDN)
	assert.Equal(t, "2026-01-02T03:04:05Z", ov.GeneratedAt)
	assert.True(t, strings.HasPrefix(ov.Summary, ov.Details))
	assert.Contains(t, ov.Summary, "The subscriber is a heavy data user.")
	assert.Contains(t, ov.Details, "Apple iPhone 12")

	again, err := s.Overview(ctx, "94771234567")
	require.NoError(t, err)
	assert.Same(t, ov, again)
	assert.Equal(t, 1, sum.calls)

	_, err = s.Overview(ctx, "94700000000")
	assert.ErrorIs(t, err, ErrMSISDNNotFound)
}

func TestOverviewSummarizerFailure(t *testing.T) {
	f := newFixture(t)
	sum := &fakeSummarizer{err: errors.New("status 503")}
	s := NewOverviewService(f.profiles, sum, f.caches.Summaries, clockwork.NewFakeClock(), logging.Discard())
	ctx := context.Background()

	ov, err := s.Overview(ctx, "94771234567")
	require.NoError(t, err)
	assert.Equal(t, "[AI Summary Error] status 503", ov.Summary)

	_, err = s.Overview(ctx, "94771234567")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.calls)
}

func TestOverviewWithoutSummarizer(t *testing.T) {
	f := newFixture(t)
	s := NewOverviewService(f.profiles, nil, f.caches.Summaries, nil, logging.Discard())

	ov, err := s.Overview(context.Background(), "94770000003")
	require.NoError(t, err)
	assert.Equal(t, SummarizerUnavailable, ov.Summary)
	assert.NotEmpty(t, ov.GeneratedAt)
}

func TestMapRender(t *testing.T) {
	f := newFixture(t)
	s := NewMapService(f.profiles, f.caches.Maps, logging.Discard())
	ctx := context.Background()

	page, err := s.Render(ctx, "94771234567")
	require.NoError(t, err)
	assert.Contains(t, page, "L.map('map')")
	assert.Contains(t, page, "<strong>District:</strong> Colombo")
	assert.Contains(t, page, "map.fitBounds")
	assert.Equal(t, 1, f.caches.Maps.Len())

	page, err = s.Render(ctx, "94770000003")
	require.NoError(t, err)
	assert.Contains(t, page, "Location not available")
	assert.NotContains(t, page, "map.fitBounds")
	assert.Equal(t, 2, f.caches.Maps.Len())

	page, err = s.Render(ctx, "94700000000")
	require.NoError(t, err)
	assert.Contains(t, page, "MSISDN not found")
	assert.Equal(t, 2, f.caches.Maps.Len())
}
