package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enough/internal/auth"
	"enough/internal/services"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	userService     *services.UserService
	referralService *services.ReferralService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, referralService *services.ReferralService) *UserHandler {
	return &UserHandler{userService: userService, referralService: referralService}
}

// GetProfile returns the authenticated user's profile.
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// UpdateProfile applies profile changes; password changes require the
// current password.
// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Name            *string `json:"name"`
		Currency        *string `json:"currency"`
		Language        *string `json:"language"`
		CurrentPassword string  `json:"currentPassword"`
		NewPassword     string  `json:"newPassword"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.ProfileUpdate{
		Name:            req.Name,
		Currency:        req.Currency,
		Language:        req.Language,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

// GetReferralStats returns the user's code and referred users.
// GET /api/user/referrals
func (h *UserHandler) GetReferralStats(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.referralService.GetStats(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
