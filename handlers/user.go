package handlers

import (
	"net/http"

	"parkwise/middleware"
	"parkwise/models"
	"parkwise/services/user"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

// GetMeHandler handles GET /api/users/me and creates the profile on first sign-in.
func (h *UserHandler) GetMeHandler(c *gin.Context) {
	u, err := h.UserService.EnsureProfile(c.Request.Context(), middleware.CurrentUID(c), middleware.CurrentEmail(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) UpdateMeHandler(c *gin.Context) {
	var input models.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	uid := middleware.CurrentUID(c)
	if _, err := h.UserService.EnsureProfile(ctx, uid, middleware.CurrentEmail(c)); err != nil {
		respondError(c, err)
		return
	}
	u, err := h.UserService.UpdateProfile(ctx, uid, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type fcmTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *UserHandler) SetFCMTokenHandler(c *gin.Context) {
	var req fcmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	uid := middleware.CurrentUID(c)
	if _, err := h.UserService.EnsureProfile(ctx, uid, middleware.CurrentEmail(c)); err != nil {
		respondError(c, err)
		return
	}
	if err := h.UserService.SetFCMToken(ctx, uid, req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated"})
}

// GetAllUsersHandler handles GET /api/admin/users.
func (h *UserHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := h.UserService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type roleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin driver"`
}

// SetRoleHandler handles PUT /api/admin/users/:id/role.
func (h *UserHandler) SetRoleHandler(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.UserService.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
