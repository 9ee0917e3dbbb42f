package status

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/libbyyosef/team-availability/internal/auth"
	"github.com/libbyyosef/team-availability/internal/logger"
	"github.com/libbyyosef/team-availability/internal/responses"
	"github.com/libbyyosef/team-availability/internal/user"
)

type Handler struct {
	statuses *Store
}

func NewHandler(statuses *Store) *Handler {
	return &Handler{statuses: statuses}
}

// RegisterRoutes mounts the status API behind authentication. Mutations
// are additionally self-only: a user can change nobody's status but
// their own.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	protected := r.Group("/user_statuses")
	protected.Use(requireAuth)
	protected.POST("/upsert_user_status", h.UpsertUserStatus)
	protected.GET("/get_user_status", h.GetUserStatus)
	protected.GET("/list_user_statuses_by_status", h.ListByStatus)
	protected.PUT("/update_user_status", h.UpdateUserStatus)
}

type upsertStatusRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpsertUserStatus(c *gin.Context) {
	var req upsertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return
	}

	st, err := Parse(req.Status)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid_status")
		return
	}

	identity, ok := user.IdentityFromContext(c.Request.Context())
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "not_authenticated")
		return
	}
	if err := auth.RequireSelf(req.UserID, identity.ID); err != nil {
		responses.Error(c, http.StatusForbidden, "forbidden")
		return
	}

	rec, err := h.statuses.Upsert(c.Request.Context(), req.UserID, st)
	if err != nil {
		logger.Error("upsert status failed", map[string]any{
			"error": err.Error(),
		})
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) GetUserStatus(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	rec, err := h.statuses.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if rec == nil {
		responses.Error(c, http.StatusNotFound, "status_not_found")
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListByStatus(c *gin.Context) {
	st, err := Parse(c.Query("status"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid_status")
		return
	}

	limit := 200
	if raw := c.Query("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 || n > 1000 {
			responses.Error(c, http.StatusBadRequest, "invalid_request")
			return
		}
		limit = n
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			responses.Error(c, http.StatusBadRequest, "invalid_request")
			return
		}
		offset = n
	}

	items, err := h.statuses.ListByStatus(c.Request.Context(), st, limit, offset)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if items == nil {
		items = []Record{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateUserStatus(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	identity, ok := user.IdentityFromContext(c.Request.Context())
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "not_authenticated")
		return
	}
	if err := auth.RequireSelf(id, identity.ID); err != nil {
		responses.Error(c, http.StatusForbidden, "forbidden")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return
	}

	st, err := Parse(req.Status)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid_status")
		return
	}

	rec, err := h.statuses.Update(c.Request.Context(), id, st)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if rec == nil {
		responses.Error(c, http.StatusNotFound, "status_not_found")
		return
	}

	c.JSON(http.StatusOK, rec)
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || id <= 0 {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return 0, false
	}
	return id, true
}
