package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studiokit/backend/internal/metrics"
	"github.com/studiokit/backend/internal/model"
	"github.com/studiokit/backend/internal/service"
)

type AuthHandler struct {
	svc     *service.AuthService
	cookies CookieBinder
	rec     metrics.Recorder
}

func NewAuthHandler(svc *service.AuthService, cookies CookieBinder, rec metrics.Recorder) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies, rec: rec}
}

// Login godoc
// @Summary Login with email and password
// @Description Verifies credentials, issues the access/refresh token pair in cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Email and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	identity, err := h.svc.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.rec.RecordLoginFailure()
		writeAuthError(c, err)
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), identity)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	user, err := h.svc.ResolveIdentity(c.Request.Context(), identity.ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.rec.RecordLoginSuccess()
	h.cookies.Set(c, pair)
	c.JSON(http.StatusOK, model.LoginResponse{
		Message: "Login successful",
		User:    user.Public(),
	})
}

// Logout godoc
// @Summary Logout
// @Description Clears the stored refresh hash and both cookies. An already issued access token stays valid until its own expiry.
// @Tags auth
// @Produce json
// @Success 200 {object} model.LogoutResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.Logout(c.Request.Context(), identity.ID); err != nil {
		writeAuthError(c, err)
		return
	}

	h.cookies.Clear(c)
	c.JSON(http.StatusOK, model.LogoutResponse{Status: "logged_out"})
}

// Refresh godoc
// @Summary Rotate the token pair
// @Description Uses the Refresh cookie; a successful refresh invalidates the presented token.
// @Tags auth
// @Produce json
// @Success 200 {object} model.StatusResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), identity.ID, GetRawToken(c))
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			h.rec.RecordRefreshDenied()
		}
		writeAuthError(c, err)
		return
	}

	h.cookies.Set(c, pair)
	c.JSON(http.StatusOK, model.StatusResponse{Status: "refreshed"})
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.svc.ResolveIdentity(c.Request.Context(), identity.ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.Public())
}

// writeAuthError maps service errors to HTTP codes. AccessDenied is
// deliberately indistinguishable from any other authentication failure on
// the wire.
func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
