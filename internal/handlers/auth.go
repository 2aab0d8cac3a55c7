package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enough/internal/auth"
	"enough/internal/models"
	"enough/internal/ranks"
	"enough/internal/services"
)

// AuthHandler handles registration and login endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// userResponse is the profile shape every auth endpoint returns.
func userResponse(user *models.User) gin.H {
	rank := ranks.ForPoints(user.Points)
	return gin.H{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"points":         user.Points,
		"currency":       user.Currency,
		"language":       user.Language,
		"referral_code":  user.ReferralCode,
		"current_streak": user.CurrentStreak,
		"rank":           rank.Name(user.Language),
		"rank_icon":      rank.Icon,
		"points_to_next": ranks.PointsToNext(user.Points),
	}
}

// Register creates a new account.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email        string `json:"email" binding:"required"`
		Password     string `json:"password" binding:"required"`
		Name         string `json:"name" binding:"required"`
		ReferralCode string `json:"referralCode"`
		Currency     string `json:"currency"`
		Language     string `json:"language"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		ReferralCode: req.ReferralCode,
		Currency:     req.Currency,
		Language:     req.Language,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userResponse(user),
		"token": token,
	})
}

// Login verifies credentials and issues a token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userResponse(user),
		"token": token,
	})
}

// GetMe returns the authenticated user's profile.
// GET /api/auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
