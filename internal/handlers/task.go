package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"enough/internal/auth"
	"enough/internal/services"
)

// TaskHandler handles daily task endpoints
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListToday returns (and lazily creates) the user's tasks for their local
// day.
// GET /api/tasks?tz=-180
func (h *TaskHandler) ListToday(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tasks, err := h.taskService.ListToday(userID, tzOffset(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Complete claims a finished task's reward. Re-claiming returns 409.
// POST /api/tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	points, err := h.taskService.Complete(userID, uint(taskID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pointsEarned": points})
}
