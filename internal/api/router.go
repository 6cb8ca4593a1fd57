package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/handler"
	"github.com/jengzang/subscriber-insights-go/internal/middleware"
)

// Handlers groups every HTTP handler of the dashboard
type Handlers struct {
	Auth      *handler.AuthHandler
	Profile   *handler.ProfileHandler
	Map       *handler.MapHandler
	Overview  *handler.OverviewHandler
	Chart     *handler.ChartHandler
	UserCount *handler.UserCountHandler
	RSRP      *handler.RSRPHandler
	LTE       *handler.LTEHandler
	Insights  *handler.InsightsHandler
}

// Options carries the router dependencies that are not handlers
type Options struct {
	Templates *template.Template
	Static    http.FileSystem
	Sessions  *middleware.Sessions
	Limiter   *middleware.RateLimiter
	Logger    logrus.FieldLogger
}

// SetupRouter 设置路由
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(opts.Limiter))

	if opts.Templates != nil {
		r.SetHTMLTemplate(opts.Templates)
	}
	if opts.Static != nil {
		r.StaticFS("/static", opts.Static)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Subscriber Insights is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/login", h.Auth.LoginPage)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)

	// HTML pages
	pages := r.Group("/", middleware.RequirePage(opts.Sessions))
	{
		pages.GET("/", h.Profile.Home)
		pages.GET("/index", h.Profile.Index)
		pages.POST("/search", h.Profile.Search)

		pages.GET("/map/:msisdn", h.Map.Page)
		pages.GET("/map/:msisdn/frame", h.Map.Frame)
		pages.GET("/overview/:msisdn", h.Overview.GetOverview)

		pages.GET("/usage-graph/", h.Chart.Usage)
		pages.GET("/hlr-vlr-subbase-graph/", h.Chart.HLRSubscribers)
		pages.GET("/call-drop-rate-graph/", h.Chart.CallDropRate)

		pages.GET("/user_count", h.UserCount.Page)
		pages.POST("/user_count/search", h.UserCount.Search)
		pages.POST("/user_count/download", h.UserCount.Download)

		pages.GET("/rsrp_ranges_direct/:cell_code", h.RSRP.RangesDirect)
		pages.POST("/rsrp_ranges_direct/:cell_code", h.RSRP.RangesDirect)
	}

	// JSON endpoints
	data := r.Group("/", middleware.RequireAPI(opts.Sessions))
	{
		data.GET("/api/profile/:msisdn", h.Profile.GetProfile)

		data.GET("/rsrp_by_site_id/:site_id", h.RSRP.BySiteID)
		data.POST("/filter_rsrp_data", h.RSRP.Filter)
		data.POST("/filter_common_location_rsrp_data", h.RSRP.FilterCommon)
		data.POST("/filter_common_rsrp_data", h.RSRP.FilterCommon)

		data.GET("/lte-utilization-data", h.LTE.All)
		data.GET("/lte-utilization/site/:site_id", h.LTE.BySite)
		data.GET("/lte-utilization/cell/:cell_code", h.LTE.ByCell)
		data.GET("/lte-utilization/summary", h.LTE.Summary)

		data.GET("/insights", h.Insights.GetInsights)
	}

	return r
}
