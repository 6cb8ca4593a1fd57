package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/jengzang/subscriber-insights-go/pkg/response"
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "session"

// userKey is the gin context key holding the signed-in user
const userKey = "user"

// ErrNoSession is returned when a request carries no valid session
var ErrNoSession = errors.New("no valid session")

// Sessions issues and verifies HS256 session tokens
type Sessions struct {
	secret   []byte
	lifetime time.Duration
	clock    clockwork.Clock
}

// NewSessions creates a session manager. A nil clock means the real clock.
func NewSessions(secret string, lifetime time.Duration, clock clockwork.Clock) *Sessions {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sessions{secret: []byte(secret), lifetime: lifetime, clock: clock}
}

// Lifetime returns how long a session stays valid
func (s *Sessions) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a token for username
func (s *Sessions) Issue(username string) (string, error) {
	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Verify returns the user of a valid token
func (s *Sessions) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrNoSession
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return claims.Subject, nil
}

// Start sets the session cookie for username
func (s *Sessions) Start(c *gin.Context, username string) error {
	token, err := s.Issue(username)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(s.lifetime.Seconds()), "/", "", false, true)
	return nil
}

// End clears the session cookie
func (s *Sessions) End(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}

// User returns the user of the request's session
func (s *Sessions) User(c *gin.Context) (string, error) {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", ErrNoSession
	}
	return s.Verify(token)
}

// RequirePage redirects requests without a session to the login page
func RequirePage(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.User(c)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAPI rejects requests without a session with 401
func RequireAPI(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.User(c)
		if err != nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by the auth middleware
func CurrentUser(c *gin.Context) string {
	return c.GetString(userKey)
}
