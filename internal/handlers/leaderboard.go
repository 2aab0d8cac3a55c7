package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enough/internal/auth"
	"enough/internal/services"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Get returns the ranked window for a period plus the caller's position.
// GET /api/leaderboard?period=weekly
func (h *LeaderboardHandler) Get(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	period := c.DefaultQuery("period", services.LeaderboardAllTime)
	board, err := h.leaderboardService.Get(period, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}
