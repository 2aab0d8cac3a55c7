package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/currency"
	"enough/internal/models"
)

func newEntryService(db *gorm.DB) *EntryService {
	engine := testEngine()
	tasks := NewTaskService(db, engine, nopLog())
	referrals := NewReferralService(db, engine, nopLog())
	achievements := NewAchievementService(db, nopLog())
	return NewEntryService(db, engine, tasks, referrals, achievements, nopLog())
}

func TestCreateEntrySnapshotsUSDAmount(t *testing.T) {
	db := setupTestDB(t)
	service := newEntryService(db)
	user := createTestUser(t, db, "eur@example.com", "EURCODE1", "EUR")

	result, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "Takeaway coffee",
		PricePerUnit: decimal.NewFromFloat(12.50),
		Quantity:     decimal.NewFromInt(2),
		Category:     models.CategoryDrinks,
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	want := currency.ToUSD(decimal.NewFromInt(25), "EUR")
	if !result.Entry.USDAmount.Equal(want) {
		t.Errorf("usd_amount = %s, want %s", result.Entry.USDAmount, want)
	}
	if result.Entry.Currency != "EUR" {
		t.Errorf("currency snapshot = %s, want EUR", result.Entry.Currency)
	}

	// Re-fetch returns the stored snapshot, not a recomputation.
	var reloaded models.Entry
	if err := db.First(&reloaded, result.Entry.ID).Error; err != nil {
		t.Fatalf("failed to reload entry: %v", err)
	}
	if !reloaded.USDAmount.Equal(want) {
		t.Errorf("reloaded usd_amount = %s, want %s", reloaded.USDAmount, want)
	}
}

func TestCreateEntryAwardsPointsOnce(t *testing.T) {
	db := setupTestDB(t)
	service := newEntryService(db)
	user := createTestUser(t, db, "pts@example.com", "PTSCODE1", "USD")

	result, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "Lunch out",
		PricePerUnit: decimal.NewFromInt(15),
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	if !result.PointsEarned.Equal(decimal.NewFromInt(15)) {
		t.Errorf("pointsEarned = %s, want 15", result.PointsEarned)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if !reloaded.Points.Equal(decimal.NewFromInt(15)) {
		t.Errorf("user points = %s, want 15", reloaded.Points)
	}

	var events int64
	db.Model(&models.PointEvent{}).Where("user_id = ? AND source = ?", user.ID, models.PointSourceEntry).Count(&events)
	if events != 1 {
		t.Errorf("entry point events = %d, want 1", events)
	}
}

func TestCreateEntryDefaultsAndValidation(t *testing.T) {
	db := setupTestDB(t)
	service := newEntryService(db)
	user := createTestUser(t, db, "val@example.com", "VALCODE1", "USD")

	result, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "Gum",
		PricePerUnit: decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if !result.Entry.Quantity.Equal(decimal.NewFromInt(1)) {
		t.Errorf("quantity default = %s, want 1", result.Entry.Quantity)
	}
	if result.Entry.Category != models.CategoryOther {
		t.Errorf("category default = %s, want other", result.Entry.Category)
	}

	bad := []CreateEntryInput{
		{Name: "", PricePerUnit: decimal.NewFromInt(1)},
		{Name: "x", PricePerUnit: decimal.Zero},
		{Name: "x", PricePerUnit: decimal.NewFromInt(1), Quantity: decimal.NewFromInt(-1)},
		{Name: "x", PricePerUnit: decimal.NewFromInt(1), Category: "gadgets"},
		{Name: "x", PricePerUnit: decimal.NewFromInt(1), Tags: []string{"bogus_tag"}},
	}
	for i, in := range bad {
		if _, err := service.CreateEntry(user.ID, in); !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("case %d: got %v, want validation error", i, err)
		}
	}
}

func TestCreateEntryUnlocksFirstStep(t *testing.T) {
	db := setupTestDB(t)
	service := newEntryService(db)
	if err := NewAchievementService(db, nopLog()).Seed(); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	user := createTestUser(t, db, "ach@example.com", "ACHCODE1", "USD")

	result, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "Impulse buy",
		PricePerUnit: decimal.NewFromInt(60),
	})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	// $60 in one entry unlocks first_step and big_fish, in rule order.
	if len(result.NewAchievements) != 2 {
		t.Fatalf("unlocked %d achievements, want 2", len(result.NewAchievements))
	}
	if result.NewAchievements[0].Code != "first_step" || result.NewAchievements[1].Code != "big_fish" {
		t.Errorf("unlock order = [%s, %s], want [first_step, big_fish]",
			result.NewAchievements[0].Code, result.NewAchievements[1].Code)
	}

	// A second entry must not re-unlock anything.
	result2, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "Snack",
		PricePerUnit: decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("second CreateEntry failed: %v", err)
	}
	for _, a := range result2.NewAchievements {
		if a.Code == "first_step" || a.Code == "big_fish" {
			t.Errorf("achievement %s unlocked twice", a.Code)
		}
	}

	var unlocks int64
	db.Model(&models.UserAchievement{}).Where("user_id = ?", user.ID).Count(&unlocks)
	if unlocks != 2 {
		t.Errorf("user_achievements rows = %d, want 2", unlocks)
	}
}

func TestCreateEntryReferralFirstEntryBonus(t *testing.T) {
	db := setupTestDB(t)
	service := newEntryService(db)

	referrer := createTestUser(t, db, "r@example.com", "RCODE111", "USD")
	referred := createTestUser(t, db, "n@example.com", "NCODE111", "USD")
	referral := models.Referral{ReferrerID: referrer.ID, ReferredID: referred.ID}
	if err := db.Create(&referral).Error; err != nil {
		t.Fatalf("failed to create referral: %v", err)
	}

	if _, err := service.CreateEntry(referred.ID, CreateEntryInput{
		Name:         "First refusal",
		PricePerUnit: decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	var reloadedRef models.User
	db.First(&reloadedRef, referrer.ID)
	if !reloadedRef.Points.Equal(decimal.NewFromInt(30)) {
		t.Errorf("referrer points = %s, want 30", reloadedRef.Points)
	}

	// The second entry must not re-award the first-entry bonus.
	if _, err := service.CreateEntry(referred.ID, CreateEntryInput{
		Name:         "Second refusal",
		PricePerUnit: decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("second CreateEntry failed: %v", err)
	}

	db.First(&reloadedRef, referrer.ID)
	if !reloadedRef.Points.Equal(decimal.NewFromInt(30)) {
		t.Errorf("referrer points after second entry = %s, want 30", reloadedRef.Points)
	}
}

func TestCreateEntryStreak(t *testing.T) {
	db := setupTestDB(t)
	service := newEntryService(db)
	user := createTestUser(t, db, "streak@example.com", "STRCODE1", "USD")

	if _, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "Day one",
		PricePerUnit: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", reloaded.CurrentStreak)
	}

	// Same-day entry keeps the streak.
	if _, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "Same day",
		PricePerUnit: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 1 {
		t.Errorf("same-day streak = %d, want 1", reloaded.CurrentStreak)
	}

	// An entry yesterday extends; a gap resets.
	yesterday := time.Now().AddDate(0, 0, -1)
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_entry_date", yesterday)
	if _, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "Next day",
		PricePerUnit: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 2 {
		t.Errorf("extended streak = %d, want 2", reloaded.CurrentStreak)
	}

	lastWeek := time.Now().AddDate(0, 0, -6)
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_entry_date", lastWeek)
	if _, err := service.CreateEntry(user.ID, CreateEntryInput{
		Name:         "After a gap",
		PricePerUnit: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 1 {
		t.Errorf("streak after gap = %d, want 1", reloaded.CurrentStreak)
	}
}

func TestListEntriesPeriodTotals(t *testing.T) {
	db := setupTestDB(t)
	service := newEntryService(db)
	user := createTestUser(t, db, "list@example.com", "LSTCODE1", "USD")

	now := time.Now()
	old := models.Entry{
		UserID: user.ID, Name: "Old", PricePerUnit: decimal.NewFromInt(100),
		Quantity: decimal.NewFromInt(1), Category: models.CategoryOther,
		Currency: "USD", USDAmount: decimal.NewFromInt(100),
		CreatedAt: now.AddDate(0, 0, -45),
	}
	recent := models.Entry{
		UserID: user.ID, Name: "Recent", PricePerUnit: decimal.NewFromInt(10),
		Quantity: decimal.NewFromInt(1), Category: models.CategoryOther,
		Currency: "USD", USDAmount: decimal.NewFromInt(10),
		CreatedAt: now.Add(-time.Hour),
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	week, err := service.ListEntries(user.ID, "week", 0)
	if err != nil {
		t.Fatalf("ListEntries week failed: %v", err)
	}
	if !week.TotalUSD.Equal(decimal.NewFromInt(10)) {
		t.Errorf("week total = %s, want 10", week.TotalUSD)
	}
	if len(week.Entries) != 1 {
		t.Errorf("week entries = %d, want 1", len(week.Entries))
	}

	all, err := service.ListEntries(user.ID, "alltime", 0)
	if err != nil {
		t.Fatalf("ListEntries alltime failed: %v", err)
	}
	if !all.TotalUSD.Equal(decimal.NewFromInt(110)) {
		t.Errorf("alltime total = %s, want 110", all.TotalUSD)
	}
}

func TestTopTagsAcrossEntriesAndPresets(t *testing.T) {
	db := setupTestDB(t)
	service := newEntryService(db)
	user := createTestUser(t, db, "tags@example.com", "TAGCODE1", "USD")

	entry := models.Entry{
		UserID: user.ID, Name: "Tagged", PricePerUnit: decimal.NewFromInt(1),
		Quantity: decimal.NewFromInt(1), Category: models.CategoryOther,
		Currency: "USD", USDAmount: decimal.NewFromInt(1),
		Tags:      []string{"save_money", "health"},
		CreatedAt: time.Now(),
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	preset := models.Preset{
		UserID: user.ID, Name: "Coffee", Price: decimal.NewFromInt(4),
		Category: models.CategoryDrinks, Tags: []string{"save_money"},
	}
	if err := db.Create(&preset).Error; err != nil {
		t.Fatalf("failed to create preset: %v", err)
	}

	tags, err := service.TopTags(user.ID, 5)
	if err != nil {
		t.Fatalf("TopTags failed: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}
	if tags[0].TagID != "save_money" || tags[0].Count != 2 {
		t.Errorf("top tag = %+v, want save_money count 2", tags[0])
	}
}
