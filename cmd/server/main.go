package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/api"
	"github.com/jengzang/subscriber-insights-go/internal/cache"
	"github.com/jengzang/subscriber-insights-go/internal/charts"
	"github.com/jengzang/subscriber-insights-go/internal/config"
	"github.com/jengzang/subscriber-insights-go/internal/database"
	"github.com/jengzang/subscriber-insights-go/internal/dataset"
	"github.com/jengzang/subscriber-insights-go/internal/handler"
	"github.com/jengzang/subscriber-insights-go/internal/logging"
	"github.com/jengzang/subscriber-insights-go/internal/middleware"
	"github.com/jengzang/subscriber-insights-go/internal/repository"
	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/internal/summarizer"
	"github.com/jengzang/subscriber-insights-go/internal/web"
)

const shutdownTimeout = 10 * time.Second

// datasets holds the files loaded once at startup
type datasets struct {
	usage    *repository.UsageStore
	vlr      *repository.VLRStore
	rsrp     *repository.RSRPStore
	lte      *repository.LTEStore
	hlr      *dataset.Table
	callDrop *dataset.Table
}

func main() {
	// 加载配置
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Validate() {
		logger.Warn(w)
	}
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath, Logger: logger})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	locations := repository.NewLocationRepository(db)
	devices := repository.NewDeviceRepository(db)
	if err := importReference(ctx, cfg, locations, devices, logger); err != nil {
		logger.WithError(err).Fatal("Reference data is required")
	}

	data := loadDatasets(cfg, logger)
	subscribers := dataset.NewSubscriberFile(cfg.Path(cfg.SubscriberFile))

	caches := cache.NewSet(cache.Options{TTL: cfg.CacheTTL, SweepEvery: cfg.CacheSweepEvery}, cfg.MapCacheSize)

	rsrp := service.NewRSRPService(data.rsrp, caches.Analytics, logger)
	profiles := service.NewProfileService(service.ProfileDeps{
		Subscribers: subscribers,
		Locations:   locations,
		Devices:     devices,
		Usage:       data.usage,
		VLR:         data.vlr,
		RSRP:        rsrp,
		Cache:       caches.Profiles,
	}, logger)

	var sum summarizer.Summarizer
	if cfg.SummarizerURL != "" {
		sum = summarizer.NewHTTPClient(cfg.SummarizerURL, cfg.SummarizerToken, cfg.SummarizerTimeout, logger)
	} else {
		logger.Warn("SUMMARIZER_URL is not set, AI summaries are disabled")
	}

	templates, err := web.Templates()
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse templates")
	}

	sessions := middleware.NewSessions(cfg.SessionSecret, cfg.SessionLifetime, nil)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, nil)
	defer limiter.Stop()

	// 初始化路由
	router := api.SetupRouter(api.Handlers{
		Auth:      handler.NewAuthHandler(cfg.AdminUsername, cfg.AdminPassword, sessions, logger),
		Profile:   handler.NewProfileHandler(profiles),
		Map:       handler.NewMapHandler(service.NewMapService(profiles, caches.Maps, logger)),
		Overview:  handler.NewOverviewHandler(service.NewOverviewService(profiles, sum, caches.Summaries, nil, logger)),
		Chart:     handler.NewChartHandler(profiles, data.hlr, data.callDrop),
		UserCount: handler.NewUserCountHandler(service.NewUserCountService(data.usage, data.vlr, locations, logger)),
		RSRP:      handler.NewRSRPHandler(profiles, rsrp),
		LTE:       handler.NewLTEHandler(service.NewLTEService(data.lte, logger)),
		Insights:  handler.NewInsightsHandler(service.NewInsightsService(subscribers, devices, logger)),
	}, api.Options{
		Templates: templates,
		Static:    web.Static(),
		Sessions:  sessions,
		Limiter:   limiter,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.WithField("addr", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
}

// importReference reloads the cell and TAC tables from their CSV files.
// A missing cell reference is fatal only when the database holds no cells.
func importReference(ctx context.Context, cfg *config.Config, locations *repository.LocationRepository, devices *repository.DeviceRepository, logger logrus.FieldLogger) error {
	cells, err := dataset.ReadCellReference(cfg.Path(cfg.ReferenceFile))
	if err == nil {
		err = locations.ReplaceAll(ctx, cells)
	}
	if err != nil {
		n, countErr := locations.Count(ctx)
		if countErr != nil || n == 0 {
			return err
		}
		logger.WithError(err).WithField("cells", n).Warn("Cell reference not reloaded, using the stored table")
	}

	catalog, err := dataset.ReadTACCatalog(cfg.Path(cfg.TACFile))
	if err == nil {
		err = devices.ReplaceAll(ctx, catalog)
	}
	if err != nil {
		logger.WithError(err).Warn("TAC catalog not reloaded")
	}

	nCells, _ := locations.Count(ctx)
	nDevices, _ := devices.Count(ctx)
	dataset.RecordRows("cell_locations", nCells)
	dataset.RecordRows("tac_devices", nDevices)
	logger.WithFields(logrus.Fields{"cells": nCells, "devices": nDevices}).Info("Reference data loaded")
	return nil
}

// loadDatasets reads every flat file. A file that cannot be read becomes
// an empty dataset and a warning.
func loadDatasets(cfg *config.Config, logger logrus.FieldLogger) datasets {
	warn := func(name string, err error) {
		logger.WithError(err).WithField("dataset", name).Warn("Dataset not loaded")
	}

	months, err := dataset.DetectUsageFiles(cfg.DataDir)
	if err != nil {
		warn("usage", err)
	}
	usageRows, err := dataset.LoadUsage(months)
	if err != nil {
		warn("usage", err)
	}

	vlrRows, err := dataset.LoadVLR(cfg.Path(cfg.VLRFile))
	if err != nil {
		warn("vlr", err)
	}

	zte, err := dataset.LoadRSRP(cfg.Path(cfg.ZTERSRPFile), dataset.VendorZTE)
	if err != nil {
		warn("rsrp_zte", err)
	}
	huawei, err := dataset.LoadRSRP(cfg.Path(cfg.HuaweiRSRPFile), dataset.VendorHuawei)
	if err != nil {
		warn("rsrp_huawei", err)
	}

	lteRows, lteColumns, err := dataset.LoadLTE(cfg.Path(cfg.LTEFile))
	if err != nil {
		warn("lte", err)
	}

	hlr, err := dataset.LoadSeries(cfg.Path(cfg.HLRVLRFile), charts.HLRSheet)
	if err != nil {
		warn("hlr_subs", err)
		hlr = nil
	}
	callDrop, err := dataset.LoadSeries(cfg.Path(cfg.CallDropFile), charts.CallDropSheet)
	if err != nil {
		warn("call_drop", err)
		callDrop = nil
	}

	d := datasets{
		usage:    repository.NewUsageStore(months, usageRows),
		vlr:      repository.NewVLRStore(vlrRows),
		rsrp:     repository.NewRSRPStore(zte, huawei),
		lte:      repository.NewLTEStore(lteRows, lteColumns),
		hlr:      hlr,
		callDrop: callDrop,
	}

	dataset.RecordRows("usage", d.usage.Len())
	dataset.RecordRows("vlr", d.vlr.Len())
	dataset.RecordRows("rsrp", d.rsrp.Len())
	dataset.RecordRows("lte", d.lte.Len())
	logger.WithFields(logrus.Fields{
		"usage_months": len(months),
		"usage":        d.usage.Len(),
		"vlr":          d.vlr.Len(),
		"rsrp":         d.rsrp.Len(),
		"lte":          d.lte.Len(),
	}).Info("Datasets loaded")
	return d
}
