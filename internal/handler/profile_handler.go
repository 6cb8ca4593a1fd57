package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/middleware"
	"github.com/jengzang/subscriber-insights-go/internal/models"
	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/pkg/response"
)

type homePage struct {
	User string
}

type searchPage struct {
	MSISDN      string
	Error       string
	Profile     *models.Profile
	SortColumns []string
}

// ProfileHandler handles subscriber search
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Home handles GET /
func (h *ProfileHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", homePage{User: middleware.CurrentUser(c)})
}

// Index handles GET /index
func (h *ProfileHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", searchPage{SortColumns: service.RSRPSchema.SortableColumns})
}

// Search handles POST /search
func (h *ProfileHandler) Search(c *gin.Context) {
	msisdn := strings.TrimSpace(c.PostForm("msisdn"))
	page := searchPage{MSISDN: msisdn, SortColumns: service.RSRPSchema.SortableColumns}

	p, err := h.profiles.Lookup(c.Request.Context(), msisdn)
	if err != nil {
		_ = c.Error(err)
		page.Error = messageOf(err)
		c.HTML(statusOf(err), "index.html", page)
		return
	}
	page.Profile = p
	c.HTML(http.StatusOK, "index.html", page)
}

// GetProfile handles GET /api/profile/:msisdn
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.profiles.Lookup(c.Request.Context(), c.Param("msisdn"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}
