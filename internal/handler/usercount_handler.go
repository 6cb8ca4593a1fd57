package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type userCountPage struct {
	Months   []string
	Query    models.UserCountQuery
	Counts   []models.UserCount
	Total    int
	Searched bool
	Error    string
}

// UserCountHandler serves the per-site user count report
type UserCountHandler struct {
	counts *service.UserCountService
}

// NewUserCountHandler creates a new user count handler
func NewUserCountHandler(counts *service.UserCountService) *UserCountHandler {
	return &UserCountHandler{counts: counts}
}

// Page handles GET /user_count
func (h *UserCountHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "user_count.html", userCountPage{Months: h.counts.Months()})
}

// Search handles POST /user_count/search
func (h *UserCountHandler) Search(c *gin.Context) {
	q := bindQuery(c)
	page := userCountPage{Months: h.counts.Months(), Query: q, Searched: true}

	counts, err := h.counts.Count(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		page.Error = messageOf(err)
		c.HTML(statusOf(err), "user_count.html", page)
		return
	}
	page.Counts = counts
	for _, uc := range counts {
		page.Total += uc.UserCount
	}
	c.HTML(http.StatusOK, "user_count.html", page)
}

// Download handles POST /user_count/download
func (h *UserCountHandler) Download(c *gin.Context) {
	q := bindQuery(c)
	counts, err := h.counts.Count(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	if len(counts) == 0 {
		c.String(http.StatusNoContent, "No data available to download")
		return
	}

	var buf bytes.Buffer
	if err := service.Export(&buf, q.Format, counts); err != nil {
		fail(c, err)
		return
	}
	contentType := "text/csv; charset=utf-8"
	if q.Format == service.FormatXLSX {
		contentType = xlsxContentType
	}
	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename(q)+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func bindQuery(c *gin.Context) models.UserCountQuery {
	var q models.UserCountQuery
	_ = c.ShouldBind(&q)
	q.Month = strings.TrimSpace(q.Month)
	q.District = strings.TrimSpace(q.District)
	q.Format = strings.ToLower(strings.TrimSpace(q.Format))
	return q
}
