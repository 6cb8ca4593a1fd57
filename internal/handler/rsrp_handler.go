package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/pkg/response"
)

type rangeBound struct {
	Label    string
	Name     string
	Min, Max string
}

type rsrpRangesPage struct {
	CellCode      string
	SiteID        string
	Error         string
	Form          models.RSRPFilterForm
	Rows          []models.RSRPRecord
	TotalCount    int
	FilteredCount int
	SortColumns   []string
	Bounds        []rangeBound
}

// RSRPHandler serves the RSRP tables and filter endpoints
type RSRPHandler struct {
	profiles *service.ProfileService
	rsrp     *service.RSRPService
}

// NewRSRPHandler creates a new RSRP handler
func NewRSRPHandler(profiles *service.ProfileService, rsrp *service.RSRPService) *RSRPHandler {
	return &RSRPHandler{profiles: profiles, rsrp: rsrp}
}

// RangesDirect handles GET,POST /rsrp_ranges_direct/:cell_code
func (h *RSRPHandler) RangesDirect(c *gin.Context) {
	cellCode := strings.TrimSpace(c.Param("cell_code"))
	var form models.RSRPFilterForm
	_ = c.ShouldBind(&form)
	if form.SortOrder == "" {
		form.SortOrder = "asc"
	}

	rows := h.rsrp.ByCellCode(cellCode)
	filtered := h.rsrp.FilterAndSort(rows, service.RangeFiltersFromForm(form), form.SortBy, form.SortOrder)

	page := rsrpRangesPage{
		CellCode:      cellCode,
		SiteID:        service.SiteIDOf(cellCode),
		Form:          form,
		Rows:          filtered,
		TotalCount:    len(rows),
		FilteredCount: len(filtered),
		SortColumns:   service.RSRPSchema.SortableColumns,
		Bounds: []rangeBound{
			{Label: "Range 1", Name: "rsrp_range1", Min: form.Range1Min, Max: form.Range1Max},
			{Label: "Range 2", Name: "rsrp_range2", Min: form.Range2Min, Max: form.Range2Max},
			{Label: "Range 3", Name: "rsrp_range3", Min: form.Range3Min, Max: form.Range3Max},
			{Label: "Range 4", Name: "rsrp_range4", Min: form.Range4Min, Max: form.Range4Max},
		},
	}
	status := http.StatusOK
	if len(rows) == 0 {
		status = http.StatusNotFound
		page.Error = fmt.Sprintf("%s for cell code %s", service.ErrNoRSRPData, cellCode)
	}
	c.HTML(status, "rsrp_ranges.html", page)
}

// BySiteID handles GET /rsrp_by_site_id/:site_id
func (h *RSRPHandler) BySiteID(c *gin.Context) {
	siteID := strings.TrimSpace(c.Param("site_id"))
	rows := h.rsrp.BySite(siteID)
	if len(rows) == 0 {
		response.NotFound(c, fmt.Sprintf("%s for site ID %s", service.ErrNoRSRPData, siteID))
		return
	}
	response.Success(c, gin.H{
		"site_id":       siteID,
		"total_records": len(rows),
		"data":          rows,
	})
}

// Filter handles POST /filter_rsrp_data for the serving cell of an MSISDN
func (h *RSRPHandler) Filter(c *gin.Context) {
	var form models.RSRPFilterForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "Invalid form data")
		return
	}

	p, err := h.profiles.Lookup(c.Request.Context(), strings.TrimSpace(form.MSISDN))
	if err != nil {
		fail(c, err)
		return
	}
	if !p.HasCellCode() {
		fail(c, service.ErrNoCellCode)
		return
	}
	if len(p.RSRPData) == 0 {
		fail(c, service.ErrNoRSRPData)
		return
	}
	response.Success(c, h.rsrp.Process(p.RSRPData, form))
}

// FilterCommon handles POST /filter_common_location_rsrp_data for a common cell's site
func (h *RSRPHandler) FilterCommon(c *gin.Context) {
	var form models.RSRPFilterForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "Invalid form data")
		return
	}
	cellCode := strings.TrimSpace(form.CellCode)
	if cellCode == "" {
		response.BadRequest(c, "cell_code is required")
		return
	}

	rows := h.rsrp.ByCellCode(cellCode)
	if len(rows) == 0 {
		fail(c, service.ErrNoRSRPData)
		return
	}
	res := h.rsrp.Process(rows, form)
	res.CellCode = cellCode
	res.SiteID = service.SiteIDOf(cellCode)
	response.Success(c, res)
}
