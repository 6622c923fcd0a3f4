package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studiokit/backend/internal/model"
	"github.com/studiokit/backend/internal/service"
)

const maxAssetBytes = 10 << 20

type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// List godoc
// @Summary Get app settings
// @Description Public: the marketing site reads branding without auth.
// @Tags settings
// @Produce json
// @Success 200 {object} model.SettingsResponse
// @Router /api/v1/settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.SettingsResponse{Settings: settings})
}

// Update godoc
// @Summary Update app settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body model.UpdateSettingsRequest true "Key-value pairs to upsert"
// @Success 200 {object} model.StatusResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), req.Settings); err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Status: "updated"})
}

// SaveAsset godoc
// @Summary Upload a branding asset
// @Description Stores the file and records its reference under the given settings key.
// @Tags settings
// @Accept mpfd
// @Produce json
// @Param key formData string true "Settings key"
// @Param file formData file true "Asset file"
// @Success 200 {object} model.SettingAssetResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /api/v1/settings/assets [post]
func (h *SettingsHandler) SaveAsset(c *gin.Context) {
	key := c.PostForm("key")
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader.Size > maxAssetBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file"})
		return
	}
	defer f.Close()

	ref, err := h.svc.SaveAsset(c.Request.Context(), key, fileHeader.Filename, f)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SettingAssetResponse{Key: key, Value: ref})
}
