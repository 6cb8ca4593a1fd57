package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/pkg/response"
)

type overviewPage struct {
	MSISDN   string
	Error    string
	Overview *models.Overview
}

// OverviewHandler serves the AI overview of a subscriber
type OverviewHandler struct {
	overviews *service.OverviewService
}

// NewOverviewHandler creates a new overview handler
func NewOverviewHandler(overviews *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{overviews: overviews}
}

// GetOverview handles GET /overview/:msisdn. ?format=json returns JSON.
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	msisdn := c.Param("msisdn")
	asJSON := c.Query("format") == "json"

	ov, err := h.overviews.Overview(c.Request.Context(), msisdn)
	if err != nil {
		if asJSON {
			fail(c, err)
			return
		}
		_ = c.Error(err)
		c.HTML(statusOf(err), "overview.html", overviewPage{MSISDN: msisdn, Error: messageOf(err)})
		return
	}

	if asJSON {
		response.Success(c, ov)
		return
	}
	c.HTML(http.StatusOK, "overview.html", overviewPage{MSISDN: msisdn, Overview: ov})
}
