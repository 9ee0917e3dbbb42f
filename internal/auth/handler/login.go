package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libbyyosef/team-availability/internal/auth/session"
	"github.com/libbyyosef/team-availability/internal/logger"
	"github.com/libbyyosef/team-availability/internal/responses"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return
	}

	// Throttled attempts get the same body as a bad password.
	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), req.Email, c.ClientIP()) {
		logger.Warn("login throttled", map[string]any{
			"ip": c.ClientIP(),
		})
		responses.Error(c, http.StatusUnauthorized, "invalid_credentials")
		return
	}

	identity, token, err := h.sessions.Login(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if errors.Is(err, session.ErrInvalidCredentials) {
		responses.Error(c, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if err != nil {
		logger.Error("login failed", map[string]any{
			"error": err.Error(),
		})
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}

	if h.limiter != nil {
		h.limiter.Reset(c.Request.Context(), req.Email, c.ClientIP())
	}
	h.sessions.IssueCookie(c.Writer, token)

	logger.Info("login", map[string]any{
		"user_id": identity.ID,
		"ip":      c.ClientIP(),
	})

	c.JSON(http.StatusOK, identity.Public())
}
