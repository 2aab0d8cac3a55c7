package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"enough/internal/aggregation"
	"enough/internal/auth"
	"enough/internal/currency"
	"enough/internal/services"
)

// EntryHandler handles refusal entry endpoints
type EntryHandler struct {
	entryService *services.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// tzOffset reads the client's UTC offset in minutes from the query string;
// zero (UTC) when absent or malformed.
func tzOffset(c *gin.Context) int {
	offset, err := strconv.Atoi(c.Query("tz"))
	if err != nil {
		return 0
	}
	return offset
}

// CreateEntry records a refusal and returns the points and any achievements
// it earned.
// POST /api/entries
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Name         string          `json:"name" binding:"required"`
		PricePerUnit decimal.Decimal `json:"pricePerUnit" binding:"required"`
		Quantity     decimal.Decimal `json:"quantity"`
		Category     string          `json:"category"`
		Note         string          `json:"note"`
		Tags         []string        `json:"tags"`
		TzOffset     int             `json:"tzOffset"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.entryService.CreateEntry(userID, services.CreateEntryInput{
		Name:            req.Name,
		PricePerUnit:    req.PricePerUnit,
		Quantity:        req.Quantity,
		Category:        req.Category,
		Note:            req.Note,
		Tags:            req.Tags,
		TzOffsetMinutes: req.TzOffset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":           result.Entry,
		"pointsEarned":    result.PointsEarned,
		"newAchievements": result.NewAchievements,
	})
}

// ListEntries returns entries and the USD total for a period.
// GET /api/entries?period=today&tz=-180
func (h *EntryHandler) ListEntries(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	periodParam := c.Query("period")
	if !aggregation.Valid(periodParam) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown period"})
		return
	}

	list, err := h.entryService.ListEntries(userID, aggregation.ParsePeriod(periodParam), tzOffset(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// TopTags ranks the user's why-tag usage.
// GET /api/entries/top-tags?limit=5
func (h *EntryHandler) TopTags(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1-50"})
		return
	}

	tags, err := h.entryService.TopTags(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"topTags": tags})
}

// GetCurrencies lists the supported currencies with their symbols.
// GET /api/currencies
func (h *EntryHandler) GetCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": currency.Currencies})
}
