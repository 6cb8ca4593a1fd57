package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/service"
)

// MapHandler serves the subscriber location map
type MapHandler struct {
	maps *service.MapService
}

// NewMapHandler creates a new map handler
func NewMapHandler(maps *service.MapService) *MapHandler {
	return &MapHandler{maps: maps}
}

// Page handles GET /map/:msisdn
func (h *MapHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "map_display.html", gin.H{"MSISDN": c.Param("msisdn")})
}

// Frame handles GET /map/:msisdn/frame
func (h *MapHandler) Frame(c *gin.Context) {
	page, err := h.maps.Render(c.Request.Context(), c.Param("msisdn"))
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Error rendering map")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
