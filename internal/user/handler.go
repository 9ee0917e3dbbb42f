package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/libbyyosef/team-availability/internal/auth"
	"github.com/libbyyosef/team-availability/internal/auth/credentials"
	"github.com/libbyyosef/team-availability/internal/logger"
	"github.com/libbyyosef/team-availability/internal/responses"
)

type Handler struct {
	users *Store
}

func NewHandler(users *Store) *Handler {
	return &Handler{users: users}
}

// RegisterRoutes mounts the user API. requireAuth gates every route that
// exposes other users' data; self-only routes additionally go through
// auth.RequireSelf.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.POST("/users/create_user", h.CreateUser)
	r.GET("/users/get_user", h.GetUser)

	protected := r.Group("/users")
	protected.Use(requireAuth)
	protected.GET("/list_users", h.ListUsers)
	protected.GET("/get_user_by_email", h.GetUserByEmail)
	protected.GET("/list_users_with_statuses", h.ListUsersWithStatuses)
	protected.GET("/me/status", h.MyStatus)
	protected.GET("/get_user_status", h.GetUserStatus)
	protected.PUT("/update_user", h.UpdateUser)
}

type createUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return
	}

	hash, err := credentials.HashPassword(req.Password)
	if errors.Is(err, credentials.ErrPasswordEmpty) || errors.Is(err, credentials.ErrPasswordTooLong) {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return
	}
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}

	u, err := h.users.Create(c.Request.Context(), req.Email, hash, req.FirstName, req.LastName)
	if errors.Is(err, ErrEmailExists) {
		responses.Error(c, http.StatusConflict, "email_exists")
		return
	}
	if err != nil {
		logger.Error("create user failed", map[string]any{
			"error": err.Error(),
		})
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}

	c.JSON(http.StatusCreated, u.Public())
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	u, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if u == nil {
		responses.Error(c, http.StatusNotFound, "user_not_found")
		return
	}

	c.JSON(http.StatusOK, u.Public())
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit, offset, ok := pageParams(c, 100, 500)
	if !ok {
		return
	}

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}

	out := make([]Public, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *Handler) GetUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return
	}

	u, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if u == nil {
		responses.Error(c, http.StatusNotFound, "user_not_found")
		return
	}

	c.JSON(http.StatusOK, u.Public())
}

func (h *Handler) ListUsersWithStatuses(c *gin.Context) {
	items, err := h.users.ListWithStatuses(c.Request.Context())
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": items})
}

func (h *Handler) MyStatus(c *gin.Context) {
	identity, ok := IdentityFromContext(c.Request.Context())
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "not_authenticated")
		return
	}

	ns, err := h.users.NameStatusByID(c.Request.Context(), identity.ID)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if ns == nil {
		responses.Error(c, http.StatusNotFound, "user_not_found")
		return
	}

	c.JSON(http.StatusOK, ns)
}

func (h *Handler) GetUserStatus(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	identity, ok := IdentityFromContext(c.Request.Context())
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "not_authenticated")
		return
	}
	if err := auth.RequireSelf(id, identity.ID); err != nil {
		responses.Error(c, http.StatusForbidden, "forbidden")
		return
	}

	ns, err := h.users.NameStatusByID(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if ns == nil {
		responses.Error(c, http.StatusNotFound, "user_not_found")
		return
	}

	c.JSON(http.StatusOK, ns)
}

type updateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}

	identity, ok := IdentityFromContext(c.Request.Context())
	if !ok {
		responses.Error(c, http.StatusUnauthorized, "not_authenticated")
		return
	}
	if err := auth.RequireSelf(id, identity.ID); err != nil {
		responses.Error(c, http.StatusForbidden, "forbidden")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return
	}

	u, err := h.users.UpdateNames(c.Request.Context(), id, req.FirstName, req.LastName)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if u == nil {
		responses.Error(c, http.StatusNotFound, "user_not_found")
		return
	}

	c.JSON(http.StatusOK, u.Public())
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || id <= 0 {
		responses.Error(c, http.StatusBadRequest, "invalid_request")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int, ok bool) {
	limit = defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			responses.Error(c, http.StatusBadRequest, "invalid_request")
			return 0, 0, false
		}
		limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			responses.Error(c, http.StatusBadRequest, "invalid_request")
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
