package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"enough/internal/apperrors"
	"enough/internal/models"
)

func TestListTodayGeneratesOnce(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db, testEngine(), nopLog())
	user := createTestUser(t, db, "tasks@example.com", "TSKCODE1", "USD")

	tasks, err := service.ListToday(user.ID, 0)
	if err != nil {
		t.Fatalf("ListToday failed: %v", err)
	}
	if len(tasks) != len(dailyTaskTemplates) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(dailyTaskTemplates))
	}

	// A second call must return the same rows, not duplicates.
	again, err := service.ListToday(user.ID, 0)
	if err != nil {
		t.Fatalf("second ListToday failed: %v", err)
	}
	if len(again) != len(tasks) {
		t.Errorf("second call returned %d tasks, want %d", len(again), len(tasks))
	}
	for i := range tasks {
		if again[i].ID != tasks[i].ID {
			t.Errorf("task %d id changed between calls: %d vs %d", i, tasks[i].ID, again[i].ID)
		}
	}
}

func TestListTodayIsPerLocalDay(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db, testEngine(), nopLog())
	user := createTestUser(t, db, "tz@example.com", "TZCODE11", "USD")

	if _, err := service.ListToday(user.ID, 0); err != nil {
		t.Fatalf("ListToday failed: %v", err)
	}

	// A viewer whose local day differs from UTC gets a fresh set.
	offset := -720
	if localDay(time.Now(), offset) == localDay(time.Now(), 0) {
		offset = 720
	}
	if _, err := service.ListToday(user.ID, offset); err != nil {
		t.Fatalf("ListToday with offset failed: %v", err)
	}

	var total int64
	db.Model(&models.DailyTask{}).Where("user_id = ?", user.ID).Count(&total)
	if want := int64(2 * len(dailyTaskTemplates)); total != want {
		t.Errorf("task rows = %d, want %d", total, want)
	}
}

func TestCompleteRejectsUnfinished(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db, testEngine(), nopLog())
	user := createTestUser(t, db, "prog@example.com", "PRGCODE1", "USD")

	task := models.DailyTask{
		UserID: user.ID, Code: "custom_five", Day: localDay(time.Now(), 0),
		TitleEN: "Do five things", TitleRU: "Сделайте пять дел",
		Progress: 3, MaxProgress: 5, Points: decimal.NewFromInt(10),
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if _, err := service.Complete(user.ID, task.ID); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("got %v, want validation error for 3/5 progress", err)
	}

	var reloaded models.DailyTask
	db.First(&reloaded, task.ID)
	if reloaded.IsCompleted {
		t.Error("task marked completed despite rejection")
	}
}

func TestCompleteAwardsExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db, testEngine(), nopLog())
	user := createTestUser(t, db, "claim@example.com", "CLMCODE1", "USD")

	task := models.DailyTask{
		UserID: user.ID, Code: "log_three", Day: localDay(time.Now(), 0),
		TitleEN: "Log 3 refusals", TitleRU: "Запишите 3 отказа",
		Progress: 3, MaxProgress: 3, Points: decimal.NewFromInt(15),
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	earned, err := service.Complete(user.ID, task.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !earned.Equal(decimal.NewFromInt(15)) {
		t.Errorf("earned = %s, want 15", earned)
	}

	if _, err := service.Complete(user.ID, task.ID); !apperrors.IsConflict(err) {
		t.Errorf("got %v, want conflict on second claim", err)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if !reloaded.Points.Equal(decimal.NewFromInt(15)) {
		t.Errorf("user points = %s, want 15", reloaded.Points)
	}
}

func TestCompleteOtherUsersTask(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db, testEngine(), nopLog())
	owner := createTestUser(t, db, "owner@example.com", "OWNCODE1", "USD")
	other := createTestUser(t, db, "other@example.com", "OTHCODE1", "USD")

	task := models.DailyTask{
		UserID: owner.ID, Code: "log_three", Day: localDay(time.Now(), 0),
		TitleEN: "Log 3 refusals", TitleRU: "Запишите 3 отказа",
		Progress: 3, MaxProgress: 3, Points: decimal.NewFromInt(15),
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	if _, err := service.Complete(other.ID, task.ID); !apperrors.IsNotFound(err) {
		t.Errorf("got %v, want not-found for another user's task", err)
	}
}

func TestOnEntryCreatedAdvancesCounters(t *testing.T) {
	db := setupTestDB(t)
	service := NewTaskService(db, testEngine(), nopLog())
	user := createTestUser(t, db, "adv@example.com", "ADVCODE1", "USD")

	if _, err := service.ListToday(user.ID, 0); err != nil {
		t.Fatalf("ListToday failed: %v", err)
	}

	entry := models.Entry{
		UserID: user.ID, Name: "Tagged save", PricePerUnit: decimal.NewFromInt(7),
		Quantity: decimal.NewFromInt(1), Category: models.CategoryOther,
		Currency: "USD", USDAmount: decimal.NewFromFloat(7.5),
		Tags:      []string{"save_money"},
		CreatedAt: time.Now(),
	}
	if err := service.OnEntryCreated(db, &entry, 0); err != nil {
		t.Fatalf("OnEntryCreated failed: %v", err)
	}

	progress := map[string]int{}
	var tasks []models.DailyTask
	db.Where("user_id = ?", user.ID).Find(&tasks)
	for _, task := range tasks {
		progress[task.Code] = task.Progress
	}

	if progress["log_three"] != 1 {
		t.Errorf("log_three progress = %d, want 1", progress["log_three"])
	}
	// Only whole dollars count toward the save target.
	if progress["save_ten"] != 7 {
		t.Errorf("save_ten progress = %d, want 7", progress["save_ten"])
	}
	if progress["use_why_tag"] != 1 {
		t.Errorf("use_why_tag progress = %d, want 1", progress["use_why_tag"])
	}

	// A big entry caps save_ten at max instead of overshooting.
	big := models.Entry{
		UserID: user.ID, Name: "Big save", PricePerUnit: decimal.NewFromInt(40),
		Quantity: decimal.NewFromInt(1), Category: models.CategoryOther,
		Currency: "USD", USDAmount: decimal.NewFromInt(40),
		CreatedAt: time.Now(),
	}
	if err := service.OnEntryCreated(db, &big, 0); err != nil {
		t.Fatalf("second OnEntryCreated failed: %v", err)
	}
	var saveTen models.DailyTask
	db.Where("user_id = ? AND code = ?", user.ID, "save_ten").First(&saveTen)
	if saveTen.Progress != saveTen.MaxProgress {
		t.Errorf("save_ten progress = %d, want capped at %d", saveTen.Progress, saveTen.MaxProgress)
	}
}
