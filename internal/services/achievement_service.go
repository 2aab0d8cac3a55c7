package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/gamification"
	"enough/internal/models"
)

// AchievementService evaluates unlock rules and records unlocks.
type AchievementService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(db *gorm.DB, log *zap.SugaredLogger) *AchievementService {
	return &AchievementService{db: db, log: log}
}

// Seed inserts the achievement catalog, skipping codes that already exist.
func (s *AchievementService) Seed() error {
	for _, a := range gamification.AchievementSeed {
		var existing models.Achievement
		err := s.db.Where("code = ?", a.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record := a
			if err := s.db.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to seed achievement %s: %w", a.Code, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check achievement %s: %w", a.Code, err)
		}
	}
	return nil
}

// ListUnlocked returns the user's unlocks, newest first, with display data.
func (s *AchievementService) ListUnlocked(userID uint) ([]models.UserAchievement, error) {
	var unlocked []models.UserAchievement
	if err := s.db.Where("user_id = ?", userID).
		Preload("Achievement").Order("unlocked_at DESC").Find(&unlocked).Error; err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	return unlocked, nil
}

// CheckAndUnlock evaluates every rule against the user's history and records
// the new unlocks, returning them in rule order. Re-running it is a no-op for
// already-unlocked codes: no duplicate rows, no re-awards.
func (s *AchievementService) CheckAndUnlock(tx *gorm.DB, user *models.User) ([]models.Achievement, error) {
	ctx, err := s.buildContext(tx, user)
	if err != nil {
		return nil, err
	}

	codes := gamification.EvaluateAchievements(ctx)
	if len(codes) == 0 {
		return nil, nil
	}

	var unlockedIDs []uint
	if err := tx.Model(&models.UserAchievement{}).Where("user_id = ?", user.ID).
		Pluck("achievement_id", &unlockedIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load unlocked achievements: %w", err)
	}
	already := make(map[uint]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		already[id] = true
	}

	var newlyUnlocked []models.Achievement
	for _, code := range codes {
		var achievement models.Achievement
		err := tx.Where("code = ?", code).First(&achievement).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Rule without a seeded catalog row; nothing to display.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load achievement %s: %w", code, err)
		}
		if already[achievement.ID] {
			continue
		}

		record := models.UserAchievement{UserID: user.ID, AchievementID: achievement.ID}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, fmt.Errorf("failed to unlock achievement %s: %w", code, err)
		}
		newlyUnlocked = append(newlyUnlocked, achievement)
	}

	if len(newlyUnlocked) > 0 {
		s.log.Infow("achievements unlocked", "user_id", user.ID, "count", len(newlyUnlocked))
	}
	return newlyUnlocked, nil
}

// buildContext aggregates the user's history once so every predicate stays a
// pure function over the same snapshot.
func (s *AchievementService) buildContext(tx *gorm.DB, user *models.User) (gamification.AchievementContext, error) {
	var ctx gamification.AchievementContext

	if err := tx.Model(&models.Entry{}).Where("user_id = ?", user.ID).
		Count(&ctx.EntryCount).Error; err != nil {
		return ctx, fmt.Errorf("failed to count entries: %w", err)
	}

	var entries []models.Entry
	if err := tx.Where("user_id = ?", user.ID).Find(&entries).Error; err != nil {
		return ctx, fmt.Errorf("failed to load entries: %w", err)
	}

	total := decimal.Zero
	maxEntry := decimal.Zero
	tags := map[string]bool{}
	for _, e := range entries {
		total = total.Add(e.USDAmount)
		if e.USDAmount.GreaterThan(maxEntry) {
			maxEntry = e.USDAmount
		}
		for _, tag := range e.Tags {
			tags[tag] = true
		}
	}
	ctx.TotalSavedUSD = total
	ctx.MaxEntryUSD = maxEntry
	ctx.DistinctTagsUsed = len(tags)
	ctx.CurrentStreakDays = user.CurrentStreak

	if err := tx.Model(&models.Referral{}).Where("referrer_id = ?", user.ID).
		Count(&ctx.ReferralCount).Error; err != nil {
		return ctx, fmt.Errorf("failed to count referrals: %w", err)
	}

	return ctx, nil
}
