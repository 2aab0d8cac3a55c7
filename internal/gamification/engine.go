package gamification

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/config"
	"enough/internal/models"
)

// Engine turns user actions into point awards. Every award is recorded in
// the point_events ledger and mirrored into users.points in the same
// transaction; the ledger's unique (user, source, reference) index is what
// makes a retried request a conflict instead of a second award.
type Engine struct {
	cfg config.PointsConfig
	log *zap.SugaredLogger
}

// NewEngine creates an engine with the given award policy.
func NewEngine(cfg config.PointsConfig, log *zap.SugaredLogger) *Engine {
	return &Engine{cfg: cfg, log: log}
}

// EntryPoints computes the award for a created entry: linear in the USD
// amount saved, rounded to a tenth of a point.
func (e *Engine) EntryPoints(usdAmount decimal.Decimal) decimal.Decimal {
	return usdAmount.Mul(e.cfg.PerUSDSaved).Round(1)
}

// SignupBonuses returns the (new user, referrer) award pair for a signup
// through a referral code.
func (e *Engine) SignupBonuses() (decimal.Decimal, decimal.Decimal) {
	return e.cfg.ReferralSignupNew, e.cfg.ReferralSignupRef
}

// FirstEntryBonus is the referrer's award when a referred user logs their
// first refusal.
func (e *Engine) FirstEntryBonus() decimal.Decimal {
	return e.cfg.ReferralFirstEntry
}

// ActivityBonus is the award to both parties once the referred user sustains
// a streak of ActivityStreakDays.
func (e *Engine) ActivityBonus() decimal.Decimal {
	return e.cfg.ReferralActivity
}

// ActivityStreakDays is the streak length that triggers the activity bonus.
func (e *Engine) ActivityStreakDays() int {
	return e.cfg.ReferralActivityDays
}

// Award appends a ledger event and increments the user's point total inside
// the caller's transaction. A duplicate (user, source, reference) is reported
// as a conflict so the caller can tell "already processed" from a failure.
func (e *Engine) Award(tx *gorm.DB, userID uint, amount decimal.Decimal, source, referenceID string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	event := models.PointEvent{
		UserID:      userID,
		Amount:      amount,
		Source:      source,
		ReferenceID: referenceID,
	}

	if err := tx.Create(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("points for %s %s already awarded", source, referenceID)
		}
		return fmt.Errorf("failed to record point event: %w", err)
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to update user points: %w", err)
	}

	e.log.Infow("points awarded", "user_id", userID, "amount", amount.String(), "source", source, "reference", referenceID)
	return nil
}
