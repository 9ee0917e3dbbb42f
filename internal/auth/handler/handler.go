package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libbyyosef/team-availability/internal/auth/session"
	"github.com/libbyyosef/team-availability/internal/logger"
	"github.com/libbyyosef/team-availability/internal/responses"
)

// LoginLimiter gates repeated login attempts per email and client IP.
// Implemented by auth.LoginLimiter; nil disables throttling.
type LoginLimiter interface {
	Allow(ctx context.Context, email, ip string) bool
	Reset(ctx context.Context, email, ip string)
}

type Handler struct {
	sessions *session.Manager
	limiter  LoginLimiter
}

func NewHandler(sessions *session.Manager, limiter LoginLimiter) *Handler {
	return &Handler{
		sessions: sessions,
		limiter:  limiter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", h.Me)
}

// Me resolves the session cookie into the public identity of the caller.
func (h *Handler) Me(c *gin.Context) {
	token := ""
	if cookie, err := c.Request.Cookie(h.sessions.CookieName()); err == nil {
		token = cookie.Value
	}

	identity, err := h.sessions.Resolve(c.Request.Context(), token)
	if errors.Is(err, session.ErrUnauthenticated) {
		responses.Error(c, http.StatusUnauthorized, "not_authenticated")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}

	c.JSON(http.StatusOK, identity.Public())
}

// Logout is stateless: it only instructs the client to drop the cookie.
// A previously issued token stays valid until its max-age runs out.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c.Writer)

	logger.Info("logout", map[string]any{
		"ip": c.ClientIP(),
	})

	c.Status(http.StatusNoContent)
}
