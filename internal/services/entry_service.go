package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/aggregation"
	"enough/internal/apperrors"
	"enough/internal/currency"
	"enough/internal/gamification"
	"enough/internal/models"
)

// EntryService creates and lists refusal entries. Creation is the system's
// hot path: one transaction covers the entry row, the point award, the
// streak update, daily-task progress, referral bonuses and achievement
// evaluation, so a failed request leaves no partial state behind.
type EntryService struct {
	db           *gorm.DB
	engine       *gamification.Engine
	tasks        *TaskService
	referrals    *ReferralService
	achievements *AchievementService
	log          *zap.SugaredLogger
}

// NewEntryService creates a new EntryService
func NewEntryService(db *gorm.DB, engine *gamification.Engine, tasks *TaskService,
	referrals *ReferralService, achievements *AchievementService, log *zap.SugaredLogger) *EntryService {
	return &EntryService{
		db:           db,
		engine:       engine,
		tasks:        tasks,
		referrals:    referrals,
		achievements: achievements,
		log:          log,
	}
}

// CreateEntryInput is the validated creation payload.
type CreateEntryInput struct {
	Name            string
	PricePerUnit    decimal.Decimal
	Quantity        decimal.Decimal
	Category        string
	Note            string
	Tags            []string
	TzOffsetMinutes int
}

// CreateEntryResult carries everything the client surfaces after a save.
type CreateEntryResult struct {
	Entry           models.Entry         `json:"entry"`
	PointsEarned    decimal.Decimal      `json:"pointsEarned"`
	NewAchievements []models.Achievement `json:"newAchievements"`
}

// CreateEntry records a refusal. The USD amount is converted with the rate
// in effect now and stored on the row; later rate changes never touch it.
func (s *EntryService) CreateEntry(userID uint, in CreateEntryInput) (*CreateEntryResult, error) {
	if err := validateEntry(&in); err != nil {
		return nil, err
	}

	var result CreateEntryResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user not found")
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		amount := in.PricePerUnit.Mul(in.Quantity)
		entry := models.Entry{
			UserID:       userID,
			Name:         in.Name,
			PricePerUnit: in.PricePerUnit,
			Quantity:     in.Quantity,
			Category:     in.Category,
			Currency:     user.Currency,
			USDAmount:    currency.ToUSD(amount, user.Currency),
			Note:         in.Note,
			Tags:         in.Tags,
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}

		points := s.engine.EntryPoints(entry.USDAmount)
		if err := s.engine.Award(tx, userID, points,
			models.PointSourceEntry, fmt.Sprintf("%d", entry.ID)); err != nil {
			return err
		}

		streak := nextStreak(user.LastEntryDate, entry.CreatedAt, user.CurrentStreak, in.TzOffsetMinutes)
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"current_streak":  streak,
			"last_entry_date": entry.CreatedAt,
		}).Error; err != nil {
			return fmt.Errorf("failed to update streak: %w", err)
		}
		user.CurrentStreak = streak

		if err := s.tasks.OnEntryCreated(tx, &entry, in.TzOffsetMinutes); err != nil {
			return err
		}

		if err := s.referrals.OnEntryCreated(tx, &user); err != nil {
			return err
		}

		newAchievements, err := s.achievements.CheckAndUnlock(tx, &user)
		if err != nil {
			return err
		}

		result = CreateEntryResult{
			Entry:           entry,
			PointsEarned:    points,
			NewAchievements: newAchievements,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("entry created",
		"user_id", userID,
		"entry_id", result.Entry.ID,
		"usd_amount", result.Entry.USDAmount.String(),
		"points", result.PointsEarned.String())
	return &result, nil
}

// EntryList is a window of entries with their USD total.
type EntryList struct {
	Entries  []models.Entry  `json:"entries"`
	TotalUSD decimal.Decimal `json:"totalUSD"`
}

// ListEntries returns the user's entries for a period, newest first, with
// the summed USD total over the same window.
func (s *EntryService) ListEntries(userID uint, period aggregation.Period, tzOffsetMinutes int) (*EntryList, error) {
	var entries []models.Entry
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, apperrors.Unavailable("failed to load entries", err)
	}

	now := time.Now()
	filtered := aggregation.Filter(entries, period, now, tzOffsetMinutes)
	return &EntryList{
		Entries:  filtered,
		TotalUSD: aggregation.SumUSD(entries, period, now, tzOffsetMinutes),
	}, nil
}

// TopTags ranks why-tag usage across the user's entries and presets,
// truncated to limit. Oldest records first so the tie-break is stable.
func (s *EntryService) TopTags(userID uint, limit int) ([]aggregation.TagCount, error) {
	var entries []models.Entry
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.Unavailable("failed to load entries", err)
	}

	var presets []models.Preset
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").Find(&presets).Error; err != nil {
		return nil, apperrors.Unavailable("failed to load presets", err)
	}

	tagLists := make([][]string, 0, len(entries)+len(presets))
	for _, e := range entries {
		tagLists = append(tagLists, e.Tags)
	}
	for _, p := range presets {
		tagLists = append(tagLists, p.Tags)
	}

	return aggregation.TopTags(tagLists, limit), nil
}

func validateEntry(in *CreateEntryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 200 {
		return apperrors.Validation("name must be 1-200 characters")
	}
	if in.PricePerUnit.LessThanOrEqual(decimal.Zero) {
		return apperrors.Validation("pricePerUnit must be positive")
	}
	if in.Quantity.IsZero() {
		in.Quantity = decimal.NewFromInt(1)
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return apperrors.Validation("quantity must be positive")
	}
	if in.Category == "" {
		in.Category = models.CategoryOther
	}
	if !models.ValidCategory(in.Category) {
		return apperrors.Validation("unknown category %q", in.Category)
	}
	for _, tag := range in.Tags {
		if !models.ValidWhyTag(tag) {
			return apperrors.Validation("unknown tag %q", tag)
		}
	}
	return nil
}

// nextStreak extends the streak when the previous entry fell on the viewer's
// previous calendar day, keeps it for a same-day entry, and resets otherwise.
func nextStreak(last *time.Time, now time.Time, current int, tzOffsetMinutes int) int {
	if last == nil {
		return 1
	}
	loc := time.FixedZone("client", -tzOffsetMinutes*60)
	lastDay := last.In(loc).Format("2006-01-02")
	today := now.In(loc).Format("2006-01-02")
	yesterday := now.In(loc).AddDate(0, 0, -1).Format("2006-01-02")

	switch lastDay {
	case today:
		if current < 1 {
			return 1
		}
		return current
	case yesterday:
		return current + 1
	default:
		return 1
	}
}
