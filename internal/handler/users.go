package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studiokit/backend/internal/model"
	"github.com/studiokit/backend/internal/service"
)

const maxAvatarBytes = 5 << 20

type UsersHandler struct {
	svc *service.UsersService
}

func NewUsersHandler(svc *service.UsersService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {object} model.UserListResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/users [get]
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeAuthError(c, err)
		return
	}

	out := make([]model.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	c.JSON(http.StatusOK, model.UserListResponse{Users: out})
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.CreateUserRequest true "New user"
// @Success 201 {object} model.PublicUser
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/users [post]
func (h *UsersHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user.Public())
}

// Get godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *UsersHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Update godoc
// @Summary Update a user
// @Description Partial update; a password here is an admin reset.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body model.UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{id} [patch]
func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// Delete godoc
// @Summary Delete a user
// @Description Soft delete by default; pass hard=true to remove the row.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param hard query bool false "Hard delete"
// @Success 200 {object} model.StatusResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{id} [delete]
func (h *UsersHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c)
	if !ok {
		return
	}

	hard := c.Query("hard") == "true"
	if err := h.svc.Delete(c.Request.Context(), id, hard); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "deleted"})
}

// ChangePassword godoc
// @Summary Change own password
// @Description Requires the current password to verify first.
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/me/password [patch]
func (h *UsersHandler) ChangePassword(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "password_changed"})
}

// SetAvatar godoc
// @Summary Upload own profile image
// @Tags users
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} model.AvatarResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/users/me/avatar [post]
func (h *UsersHandler) SetAvatar(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader.Size > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file"})
		return
	}
	defer f.Close()

	user, err := h.svc.SetAvatar(c.Request.Context(), identity.ID, fileHeader.Filename, f)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.AvatarResponse{ProfileImage: *user.ProfileImage})
}

func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
