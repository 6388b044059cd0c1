package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/service/auth"
)

// SessionCookie carries the signed session token.
const SessionCookie = "salesbook_session"

const contextUsername = "username"

// Authenticator checks credentials and session tokens.
type Authenticator interface {
	Login(username, password string) (string, time.Time, error)
	ValidateToken(token string) (*auth.Claims, error)
}

// AuthHandler serves login/logout and guards the API routes.
type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(authenticator Authenticator, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: authenticator, logger: logger, now: time.Now}
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login checks the credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, expires, err := h.auth.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	maxAge := int(expires.Sub(h.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"username":   req.Username,
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RequireSession rejects requests without a valid session cookie or bearer token.
func (h *AuthHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}

		claims, err := h.auth.ValidateToken(token)
		if err != nil {
			h.logger.Debug("session rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			return
		}

		c.Set(contextUsername, claims.Username)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
