package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/subscriber-insights-go/internal/cache"
	"github.com/jengzang/subscriber-insights-go/internal/database"
	"github.com/jengzang/subscriber-insights-go/internal/dataset"
	"github.com/jengzang/subscriber-insights-go/internal/handler"
	"github.com/jengzang/subscriber-insights-go/internal/logging"
	"github.com/jengzang/subscriber-insights-go/internal/middleware"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/repository"
	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := logging.Discard()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "ref.db"), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	locations := repository.NewLocationRepository(db)
	require.NoError(t, locations.ReplaceAll(ctx, []models.CellLocation{
		{LAC: 500, CellID: 10812, SiteName: "Colombo Fort", CellCode: "COL001A", Lon: models.NewCoord(79.85), Lat: models.NewCoord(6.93), Region: "Western", District: "Colombo"},
		{LAC: 600, CellID: 9, SiteName: "Kandy", CellCode: "COL002B", Lon: models.NewCoord(80.63), Lat: models.NewCoord(7.29), Region: "Central", District: "Kandy"},
	}))
	devices := repository.NewDeviceRepository(db)
	require.NoError(t, devices.ReplaceAll(ctx, []models.Device{
		{TAC: "35332811", Brand: "Apple", Model: "iPhone 12", YearReleased: "2020"},
	}))

	path := filepath.Join(t.TempDir(), "subscribers.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"413020812345678;94771234567;35332811223344;x;413-1f4-2a3c\n"+
			"413020811111111;94770000003;35332811000000;x;\n"), 0o644))
	subscribers := dataset.NewSubscriberFile(path)

	usage := repository.NewUsageStore(
		[]models.UsageMonth{{Key: "January 2025", Year: 2025, Month: 1}},
		[]models.UsageRecord{{MSISDN: "94771234567", Month: "January 2025", Volume4GMB: 2048, IncomingVoice: 30}},
	)
	vlr := repository.NewVLRStore([]models.VLRRecord{
		{MSISDN: "94771234567", CellCode: "COL002B", SiteName: "Kandy", District: "Kandy", LAC: "600", Cell: "9"},
	})
	num := func(v float64) *float64 { return &v }
	lte := repository.NewLTEStore([]models.LTERecord{
		{models.LTECellID: "COL001A1", models.LTESiteID: "COL001", models.LTECellUtilization: num(55)},
		{models.LTECellID: "COL002B1", models.LTESiteID: "COL002", models.LTECellUtilization: num(85)},
	}, []string{models.LTECellID, models.LTESiteID, models.LTECellUtilization})

	caches := cache.NewSet(cache.Options{}, 16)
	rsrp := service.NewRSRPService(repository.NewRSRPStore(
		[]models.RSRPRecord{
			{SiteName: "Colombo Fort", CellName: "COL001A_L1", SiteID: "COL001", Range1: 80, Range2: 10, Range3: 5, Range4: 5, Source: "ZTE"},
			{SiteName: "Colombo Fort", CellName: "COL001B_L1", SiteID: "COL001", Range1: 60, Range2: 10, Range3: 20, Range4: 10, Source: "ZTE"},
		},
		[]models.RSRPRecord{
			{SiteName: "Kandy", CellName: "COL002B_L1", SiteID: "COL002", Range1: 20, Range2: 10, Range3: 40, Range4: 30, Source: "Huawei"},
		},
	), caches.Analytics, logger)
	profiles := service.NewProfileService(service.ProfileDeps{
		Subscribers: subscribers,
		Locations:   locations,
		Devices:     devices,
		Usage:       usage,
		VLR:         vlr,
		RSRP:        rsrp,
		Cache:       caches.Profiles,
	}, logger)

	templates, err := web.Templates()
	require.NoError(t, err)
	sessions := middleware.NewSessions("test-secret", 10*time.Minute, nil)

	router := SetupRouter(Handlers{
		Auth:      handler.NewAuthHandler("admin", "s3cret", sessions, logger),
		Profile:   handler.NewProfileHandler(profiles),
		Map:       handler.NewMapHandler(service.NewMapService(profiles, caches.Maps, logger)),
		Overview:  handler.NewOverviewHandler(service.NewOverviewService(profiles, nil, caches.Summaries, nil, logger)),
		Chart:     handler.NewChartHandler(profiles, nil, nil),
		UserCount: handler.NewUserCountHandler(service.NewUserCountService(usage, vlr, locations, logger)),
		RSRP:      handler.NewRSRPHandler(profiles, rsrp),
		LTE:       handler.NewLTEHandler(service.NewLTEService(lte, logger)),
		Insights:  handler.NewInsightsHandler(service.NewInsightsService(subscribers, devices, logger)),
	}, Options{
		Templates: templates,
		Static:    web.Static(),
		Sessions:  sessions,
		Logger:    logger,
	})

	token, err := sessions.Issue("admin")
	require.NoError(t, err)
	return &testServer{router: router, token: token}
}

func (s *testServer) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: s.token})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/js/plots.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "renderFigures")

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/index", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/insights", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	login := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"username": {"admin"}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		return w
	}

	w = login("wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password")

	w = login("s3cret")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookie+"=")
	assert.Contains(t, w.Header().Get("Set-Cookie"), "HttpOnly")

	w = s.do(t, http.MethodGet, "/logout", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/profile/94771234567", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Colombo Fort", body["Sitename"])
	assert.Equal(t, "ESIM", body["SIM Type"])

	w = s.do(t, http.MethodGet, "/api/profile/94770000003", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.NotFound, decode(t, w)["Lat"])

	w = s.do(t, http.MethodGet, "/api/profile/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MSISDN must contain digits only", decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/profile/94700000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "MSISDN not found", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/search", url.Values{"msisdn": {" 94771234567 "}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "COL001A")
	assert.Contains(t, w.Body.String(), "commonRsrpFilterForm")

	w = s.do(t, http.MethodPost, "/search", url.Values{"msisdn": {"94700000000"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "MSISDN not found")

	w = s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome, admin")
}

func TestMapAndOverviewRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/map/94771234567", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `src="/map/94771234567/frame"`)

	w = s.do(t, http.MethodGet, "/map/94771234567/frame", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "L.map('map')")

	w = s.do(t, http.MethodGet, "/overview/94771234567?format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.SummarizerUnavailable, decode(t, w)["summary"])

	w = s.do(t, http.MethodGet, "/overview/94771234567", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AI overview 94771234567")

	w = s.do(t, http.MethodGet, "/overview/94700000000?format=json", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChartRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/usage-graph/?msisdn=94771234567&format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	usage := decode(t, w)["usage"].(map[string]any)
	assert.Len(t, usage["data"], 4)

	w = s.do(t, http.MethodGet, "/usage-graph/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data available")

	w = s.do(t, http.MethodGet, "/hlr-vlr-subbase-graph/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dataset not available")

	w = s.do(t, http.MethodGet, "/call-drop-rate-graph/?format=json", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["data"])
}

func TestUserCountRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/user_count", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "January 2025")

	w = s.do(t, http.MethodPost, "/user_count/search", url.Values{"month": {""}, "district": {"kandy"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "COL002")

	w = s.do(t, http.MethodPost, "/user_count/download", url.Values{"format": {"csv"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="user_count_All_All.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "DISTRICT,SITE_ID,User_Count\nKandy,COL002,1\n", w.Body.String())

	w = s.do(t, http.MethodPost, "/user_count/download", url.Values{"month": {"March 2025"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRSRPRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/rsrp_by_site_id/COL001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "COL001", body["site_id"])
	assert.Equal(t, 2.0, body["total_records"])

	w = s.do(t, http.MethodGet, "/rsrp_by_site_id/NOPE01", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/filter_rsrp_data", url.Values{
		"msisdn":             {"94771234567"},
		"rsrp_range1_direct": {">70"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, 2.0, body["total_count"])
	assert.Equal(t, 1.0, body["filtered_count"])

	w = s.do(t, http.MethodPost, "/filter_rsrp_data", url.Values{"msisdn": {"94770000003"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No cell code found for this MSISDN", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/filter_common_rsrp_data", url.Values{"cell_code": {"COL002B"}})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "COL002", body["site_id"])
	assert.Equal(t, "COL002B", body["cell_code"])

	w = s.do(t, http.MethodPost, "/filter_common_location_rsrp_data", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/rsrp_ranges_direct/COL001A?rsrp_range1_min=70", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Showing 1 of 2 RSRP records (filtered)")

	w = s.do(t, http.MethodGet, "/rsrp_ranges_direct/ZZZ999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLTEAndInsightsRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/lte-utilization-data?"+url.Values{
		models.LTECellUtilization: {">60"},
	}.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 1.0, body["total_records"])

	w = s.do(t, http.MethodGet, "/lte-utilization/site/COL001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["total_records"])

	w = s.do(t, http.MethodGet, "/lte-utilization/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, decode(t, w)["total_cells"])

	w = s.do(t, http.MethodGet, "/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, 2.0, body["total_active_subscribers"])
	assert.Equal(t, []any{"iPhone 12"}, body["top_5_device_models"])
}
