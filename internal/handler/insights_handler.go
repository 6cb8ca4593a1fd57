package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/pkg/response"
)

// InsightsHandler serves device and subscriber insights
type InsightsHandler struct {
	insights *service.InsightsService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insights *service.InsightsService) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// GetInsights handles GET /insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	in, err := h.insights.Insights(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, in)
}
