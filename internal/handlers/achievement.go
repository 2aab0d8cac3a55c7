package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"enough/internal/auth"
	"enough/internal/services"
)

// AchievementHandler handles achievement endpoints
type AchievementHandler struct {
	db                 *gorm.DB
	achievementService *services.AchievementService
	userService        *services.UserService
}

// NewAchievementHandler creates a new AchievementHandler
func NewAchievementHandler(db *gorm.DB, achievementService *services.AchievementService, userService *services.UserService) *AchievementHandler {
	return &AchievementHandler{db: db, achievementService: achievementService, userService: userService}
}

// ListUnlocked returns the user's unlocked achievements, newest first.
// GET /api/achievements
func (h *AchievementHandler) ListUnlocked(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlocked, err := h.achievementService.ListUnlocked(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": unlocked})
}

// Check re-evaluates every rule and returns any new unlocks. Safe to call
// repeatedly; already-unlocked achievements are skipped.
// POST /api/achievements/check
func (h *AchievementHandler) Check(c *gin.Context) {
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

	newlyUnlocked, err := h.achievementService.CheckAndUnlock(h.db, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"newlyUnlocked": newlyUnlocked})
}
