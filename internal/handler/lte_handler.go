package handler

import (
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/internal/tablefilter"
	"github.com/jengzang/subscriber-insights-go/pkg/response"
)

// LTEHandler serves the LTE utilization report
type LTEHandler struct {
	lte *service.LTEService
}

// NewLTEHandler creates a new LTE handler
func NewLTEHandler(lte *service.LTEService) *LTEHandler {
	return &LTEHandler{lte: lte}
}

// All handles GET /lte-utilization-data. Every query parameter other than
// sort_by and sort_order is a filter keyed by column name.
func (h *LTEHandler) All(c *gin.Context) {
	query := c.Request.URL.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		if k != "sort_by" && k != "sort_order" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	filters := make([]tablefilter.Filter, 0, len(keys))
	for _, k := range keys {
		filters = append(filters, tablefilter.Filter{Key: k, Expr: query.Get(k)})
	}

	rows := h.lte.All(filters, c.Query("sort_by"), c.DefaultQuery("sort_order", "asc"))
	response.Success(c, gin.H{
		"data":          rows,
		"total_records": len(rows),
		"columns":       h.lte.Columns(),
	})
}

// BySite handles GET /lte-utilization/site/:site_id
func (h *LTEHandler) BySite(c *gin.Context) {
	siteID := c.Param("site_id")
	rows := h.lte.BySiteID(siteID)
	response.Success(c, gin.H{"site_id": siteID, "total_records": len(rows), "data": rows})
}

// ByCell handles GET /lte-utilization/cell/:cell_code
func (h *LTEHandler) ByCell(c *gin.Context) {
	cellCode := c.Param("cell_code")
	rows := h.lte.ByCellCode(cellCode)
	response.Success(c, gin.H{"cell_code": cellCode, "total_records": len(rows), "data": rows})
}

// Summary handles GET /lte-utilization/summary
func (h *LTEHandler) Summary(c *gin.Context) {
	response.Success(c, h.lte.Summary())
}
