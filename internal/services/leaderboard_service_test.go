package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/models"
)

func setPoints(t *testing.T, db *gorm.DB, userID uint, points int64) {
	t.Helper()
	if err := db.Model(&models.User{}).Where("id = ?", userID).
		Update("points", decimal.NewFromInt(points)).Error; err != nil {
		t.Fatalf("failed to set points: %v", err)
	}
}

func addPointEvent(t *testing.T, db *gorm.DB, userID uint, amount int64, ref string, at time.Time) {
	t.Helper()
	event := models.PointEvent{
		UserID:      userID,
		Amount:      decimal.NewFromInt(amount),
		Source:      models.PointSourceEntry,
		ReferenceID: ref,
		CreatedAt:   at,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("failed to create point event: %v", err)
	}
}

func TestLeaderboardAllTimeOrder(t *testing.T) {
	db := setupTestDB(t)
	service := NewLeaderboardService(db, nopLog())

	first := createTestUser(t, db, "lb1@example.com", "LB1CODE1", "USD")
	second := createTestUser(t, db, "lb2@example.com", "LB2CODE1", "USD")
	third := createTestUser(t, db, "lb3@example.com", "LB3CODE1", "USD")
	setPoints(t, db, first.ID, 100)
	setPoints(t, db, second.ID, 300)
	setPoints(t, db, third.ID, 100)

	board, err := service.Get(LeaderboardAllTime, third.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(board.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(board.Entries))
	}

	if board.Entries[0].UserID != second.ID {
		t.Errorf("top entry = user %d, want %d", board.Entries[0].UserID, second.ID)
	}
	// Tied users keep account-creation order.
	if board.Entries[1].UserID != first.ID || board.Entries[2].UserID != third.ID {
		t.Errorf("tie order = [%d, %d], want [%d, %d]",
			board.Entries[1].UserID, board.Entries[2].UserID, first.ID, third.ID)
	}
	for i, entry := range board.Entries {
		if entry.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, entry.Rank, i+1)
		}
	}
	if board.UserRank != 3 {
		t.Errorf("viewer rank = %d, want 3", board.UserRank)
	}
}

func TestLeaderboardWeeklyWindow(t *testing.T) {
	db := setupTestDB(t)
	service := NewLeaderboardService(db, nopLog())

	veteran := createTestUser(t, db, "vet@example.com", "VETCODE1", "USD")
	rookie := createTestUser(t, db, "rok@example.com", "ROKCODE1", "USD")
	setPoints(t, db, veteran.ID, 1000)
	setPoints(t, db, rookie.ID, 40)

	now := time.Now()
	// The veteran's points are old; the rookie earned everything this week.
	addPointEvent(t, db, veteran.ID, 1000, "old", now.AddDate(0, 0, -20))
	addPointEvent(t, db, veteran.ID, 5, "recent-vet", now.Add(-time.Hour))
	addPointEvent(t, db, rookie.ID, 40, "recent-rok", now.Add(-2*time.Hour))

	board, err := service.Get(LeaderboardWeekly, rookie.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if board.Entries[0].UserID != rookie.ID {
		t.Errorf("weekly top = user %d, want rookie %d", board.Entries[0].UserID, rookie.ID)
	}
	if !board.Entries[0].Points.Equal(decimal.NewFromInt(40)) {
		t.Errorf("rookie weekly points = %s, want 40", board.Entries[0].Points)
	}
	if !board.Entries[1].Points.Equal(decimal.NewFromInt(5)) {
		t.Errorf("veteran weekly points = %s, want 5", board.Entries[1].Points)
	}
	// Display rank still reflects lifetime points.
	if board.Entries[1].RankName != "Legend" {
		t.Errorf("veteran rank = %s, want Legend", board.Entries[1].RankName)
	}
	if board.UserRank != 1 {
		t.Errorf("viewer rank = %d, want 1", board.UserRank)
	}
}

func TestLeaderboardUserWithoutEvents(t *testing.T) {
	db := setupTestDB(t)
	service := NewLeaderboardService(db, nopLog())

	idle := createTestUser(t, db, "idle@example.com", "IDLCODE1", "USD")
	setPoints(t, db, idle.ID, 500)

	board, err := service.Get(LeaderboardDaily, idle.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(board.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(board.Entries))
	}
	if !board.Entries[0].Points.IsZero() {
		t.Errorf("daily points = %s, want 0 with no events", board.Entries[0].Points)
	}
}

func TestLeaderboardUnknownPeriod(t *testing.T) {
	db := setupTestDB(t)
	service := NewLeaderboardService(db, nopLog())

	if _, err := service.Get("quarterly", 1); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("got %v, want validation error", err)
	}
}
