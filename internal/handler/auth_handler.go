package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jengzang/subscriber-insights-go/internal/middleware"
)

type loginPage struct {
	Username string
	Error    string
}

// AuthHandler handles the dashboard login
type AuthHandler struct {
	username string
	password string
	sessions *middleware.Sessions
	logger   logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(username, password string, sessions *middleware.Sessions, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		username: username,
		password: password,
		sessions: sessions,
		logger:   logger.WithField("handler", "auth"),
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if _, err := h.sessions.User(c); err == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", loginPage{})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if !h.valid(username, password) {
		h.logger.WithFields(logrus.Fields{"username": username, "client_ip": c.ClientIP()}).Warn("Login failed")
		c.HTML(http.StatusUnauthorized, "login.html", loginPage{Username: username, Error: "Invalid username or password"})
		return
	}

	if err := h.sessions.Start(c, username); err != nil {
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "login.html", loginPage{Username: username, Error: "Could not start a session"})
		return
	}
	h.logger.WithField("username", username).Info("Login succeeded")
	c.Redirect(http.StatusFound, "/")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.End(c)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) valid(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.password)) == 1
	return userOK && passOK
}
