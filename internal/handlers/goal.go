package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"enough/internal/auth"
	"enough/internal/services"
)

// GoalHandler handles savings goal endpoints
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoal stores a goal; the target is converted to USD server-side.
// POST /api/goals
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Name         string          `json:"name" binding:"required"`
		TargetAmount decimal.Decimal `json:"targetAmount" binding:"required"`
		Currency     string          `json:"currency"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := h.goalService.CreateGoal(userID, req.Name, req.TargetAmount, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// ListGoals returns goals plus the live savings total; each goal carries its
// clamped progress ratio.
// GET /api/goals
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, err := h.goalService.ListGoals(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	type goalWithProgress struct {
		ID        uint            `json:"id"`
		Name      string          `json:"name"`
		USDTarget decimal.Decimal `json:"usd_target"`
		Currency  string          `json:"currency"`
		Progress  decimal.Decimal `json:"progress"`
	}

	goals := make([]goalWithProgress, 0, len(list.Goals))
	for _, g := range list.Goals {
		goals = append(goals, goalWithProgress{
			ID:        g.ID,
			Name:      g.Name,
			USDTarget: g.USDTarget,
			Currency:  g.Currency,
			Progress:  services.Progress(list.TotalSavings, g.USDTarget),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"goals":        goals,
		"totalSavings": list.TotalSavings,
	})
}

// CheckGoalsExist reports whether the user has any goals yet.
// GET /api/goals/exists
func (h *GoalHandler) CheckGoalsExist(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	exists, err := h.goalService.HasGoals(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// DeleteGoal removes a goal.
// DELETE /api/goals/:id
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goalID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	if err := h.goalService.DeleteGoal(userID, uint(goalID)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
