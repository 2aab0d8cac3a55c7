package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/gamification"
	"enough/internal/models"
)

// ReferralService awards the post-signup referral bonuses. The signup pair is
// handled at registration; this service owns the first-entry and sustained-
// activity bonuses, each of which fires at most once per relationship.
type ReferralService struct {
	db     *gorm.DB
	engine *gamification.Engine
	log    *zap.SugaredLogger
}

// NewReferralService creates a new ReferralService
func NewReferralService(db *gorm.DB, engine *gamification.Engine, log *zap.SugaredLogger) *ReferralService {
	return &ReferralService{db: db, engine: engine, log: log}
}

// OnEntryCreated runs inside the entry-creation transaction for the referred
// user. The referral row's bonus timestamps are the check-then-set guards;
// the points ledger is the backstop if two requests race past them.
func (s *ReferralService) OnEntryCreated(tx *gorm.DB, user *models.User) error {
	var referral models.Referral
	err := tx.Where("referred_id = ?", user.ID).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load referral: %w", err)
	}

	ref := fmt.Sprintf("%d", referral.ID)

	if referral.FirstEntryBonusAt == nil {
		if err := s.engine.Award(tx, referral.ReferrerID, s.engine.FirstEntryBonus(),
			models.PointSourceReferralFirstEntry, ref); err != nil {
			return err
		}
		now := time.Now()
		if err := tx.Model(&referral).Update("first_entry_bonus_at", now).Error; err != nil {
			return fmt.Errorf("failed to mark first-entry bonus: %w", err)
		}
	}

	if referral.ActivityBonusAt == nil && user.CurrentStreak >= s.engine.ActivityStreakDays() {
		bonus := s.engine.ActivityBonus()
		if err := s.engine.Award(tx, referral.ReferrerID, bonus,
			models.PointSourceReferralActivity, ref+":referrer"); err != nil {
			return err
		}
		if err := s.engine.Award(tx, referral.ReferredID, bonus,
			models.PointSourceReferralActivity, ref+":referred"); err != nil {
			return err
		}
		now := time.Now()
		if err := tx.Model(&referral).Update("activity_bonus_at", now).Error; err != nil {
			return fmt.Errorf("failed to mark activity bonus: %w", err)
		}
		s.log.Infow("referral activity bonus awarded", "referral_id", referral.ID)
	}

	return nil
}

// ReferralStats summarizes a user's referral standing.
type ReferralStats struct {
	ReferralCode   string            `json:"referral_code"`
	TotalReferrals int64             `json:"total_referrals"`
	Referrals      []models.Referral `json:"referrals"`
}

// GetStats returns the user's code and referred users.
func (s *ReferralService) GetStats(userID uint) (*ReferralStats, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var referrals []models.Referral
	if err := s.db.Where("referrer_id = ?", userID).
		Preload("Referred").Order("created_at ASC").Find(&referrals).Error; err != nil {
		return nil, fmt.Errorf("failed to load referrals: %w", err)
	}

	return &ReferralStats{
		ReferralCode:   user.ReferralCode,
		TotalReferrals: int64(len(referrals)),
		Referrals:      referrals,
	}, nil
}

// CountReferrals returns how many users this user referred.
func (s *ReferralService) CountReferrals(tx *gorm.DB, userID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Referral{}).Where("referrer_id = ?", userID).Count(&n).Error
	return n, err
}
