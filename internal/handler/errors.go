package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/subscriber-insights-go/internal/service"
	"github.com/jengzang/subscriber-insights-go/pkg/response"
)

// statusOf maps a service error to an HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidMSISDN), errors.Is(err, service.ErrInvalidLocation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrMSISDNNotFound), errors.Is(err, service.ErrNoCellCode), errors.Is(err, service.ErrNoRSRPData):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDatasetUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageOf hides the detail of unexpected errors
func messageOf(err error) string {
	if statusOf(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// fail records err on the context and sends it as JSON
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	response.Error(c, statusOf(err), messageOf(err))
}
