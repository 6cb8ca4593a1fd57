package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/charts"
	"github.com/jengzang/subscriber-insights-go/internal/dataset"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/pkg/response"
)

// Panel is one figure placed on a chart page
type Panel struct {
	ID     string        `json:"id"`
	Figure charts.Figure `json:"figure"`
}

type chartsPage struct {
	Title      string
	MSISDN     string
	Error      string
	ShowSearch bool
	Wide       bool
	Panels     []Panel
}

// ChartHandler serves the usage and KPI chart pages
type ChartHandler struct {
	profiles *service.ProfileService
	hlr      *dataset.Table
	callDrop *dataset.Table
}

// NewChartHandler creates a new chart handler. Missing KPI sheets may be nil.
func NewChartHandler(profiles *service.ProfileService, hlr, callDrop *dataset.Table) *ChartHandler {
	return &ChartHandler{profiles: profiles, hlr: hlr, callDrop: callDrop}
}

// Usage handles GET /usage-graph/?msisdn=
func (h *ChartHandler) Usage(c *gin.Context) {
	page := chartsPage{Title: "Usage graphs", MSISDN: strings.TrimSpace(c.Query("msisdn")), ShowSearch: true}
	status := http.StatusOK

	var usage *models.MonthlyUsage
	if page.MSISDN != "" {
		p, err := h.profiles.Lookup(c.Request.Context(), page.MSISDN)
		if err != nil {
			_ = c.Error(err)
			status = statusOf(err)
			page.Error = messageOf(err)
		} else {
			usage = &p.MonthlyUsage
		}
	}

	figs := charts.Usage(usage)
	if c.Query("format") == "json" {
		if page.Error != "" {
			response.Error(c, status, page.Error)
			return
		}
		response.Success(c, figs)
		return
	}

	page.Panels = []Panel{
		{ID: "usageChart", Figure: figs.Usage},
		{ID: "totalChart", Figure: figs.Total},
		{ID: "voiceChart", Figure: figs.Voice},
		{ID: "smsChart", Figure: figs.SMS},
	}
	c.HTML(status, "charts.html", page)
}

// HLRSubscribers handles GET /hlr-vlr-subbase-graph/
func (h *ChartHandler) HLRSubscribers(c *gin.Context) {
	h.kpi(c, "HLR/VLR subscriber base", "hlrChart", charts.HLRSubscribers(h.hlr))
}

// CallDropRate handles GET /call-drop-rate-graph/
func (h *ChartHandler) CallDropRate(c *gin.Context) {
	h.kpi(c, "3G call drop rate", "callDropChart", charts.CallDropRate(h.callDrop))
}

func (h *ChartHandler) kpi(c *gin.Context, title, id string, fig charts.Figure) {
	if c.Query("format") == "json" {
		response.Success(c, fig)
		return
	}
	page := chartsPage{Title: title, Wide: true, Panels: []Panel{{ID: id, Figure: fig}}}
	if len(fig.Data) == 0 {
		page.Error = "Dataset not available"
	}
	c.HTML(http.StatusOK, "charts.html", page)
}
