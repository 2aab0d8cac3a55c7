package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"enough/internal/auth"
	"enough/internal/models"
	"enough/internal/services"
)

// PresetHandler handles quick-add template endpoints
type PresetHandler struct {
	presetService *services.PresetService
}

// NewPresetHandler creates a new PresetHandler
func NewPresetHandler(presetService *services.PresetService) *PresetHandler {
	return &PresetHandler{presetService: presetService}
}

type presetRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Category string          `json:"category"`
	Icon     string          `json:"icon"`
	Tags     []string        `json:"tags"`
}

// CreatePreset stores a quick-add template.
// POST /api/presets
func (h *PresetHandler) CreatePreset(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preset, err := h.presetService.CreatePreset(userID, services.PresetInput{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Icon:     req.Icon,
		Tags:     req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"preset": preset})
}

// ListPresets returns the user's templates in display order.
// GET /api/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	presets, err := h.presetService.ListPresets(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// UpdatePreset replaces a template's fields.
// PUT /api/presets/:id
func (h *PresetHandler) UpdatePreset(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	presetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset id"})
		return
	}

	var req presetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preset, err := h.presetService.UpdatePreset(userID, uint(presetID), services.PresetInput{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Icon:     req.Icon,
		Tags:     req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preset": preset})
}

// DeletePreset removes a template. Entries created from it are untouched.
// DELETE /api/presets/:id
func (h *PresetHandler) DeletePreset(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	presetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset id"})
		return
	}

	if err := h.presetService.DeletePreset(userID, uint(presetID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetWhyTags returns the static reason taxonomy.
// GET /api/tags
func (h *PresetHandler) GetWhyTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": models.WhyTags})
}
