package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/currency"
	"enough/internal/models"
)

// GoalService manages savings goals. Goal names are unique per user at
// write time; the old client-side read-time dedup papered over duplicates
// the store happily created.
type GoalService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewGoalService creates a new GoalService
func NewGoalService(db *gorm.DB, log *zap.SugaredLogger) *GoalService {
	return &GoalService{db: db, log: log}
}

// CreateGoal stores a goal with its target converted to USD at creation.
// The target amount arrives in the given currency; display always reconverts
// from the fixed USD target.
func (s *GoalService) CreateGoal(userID uint, name string, targetAmount decimal.Decimal, currencyCode string) (*models.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, apperrors.Validation("name must be 1-200 characters")
	}
	if targetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.Validation("targetAmount must be positive")
	}
	if currencyCode == "" {
		currencyCode = "USD"
	}
	if !currency.IsSupported(currencyCode) {
		return nil, apperrors.Validation("unsupported currency %q", currencyCode)
	}

	goal := models.Goal{
		UserID:         userID,
		Name:           name,
		NormalizedName: strings.ToLower(name),
		USDTarget:      currency.ToUSD(targetAmount, currencyCode),
		Currency:       currencyCode,
	}

	if err := s.db.Create(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("goal %q already exists", name)
		}
		return nil, apperrors.Unavailable("failed to create goal", err)
	}

	s.log.Infow("goal created", "user_id", userID, "goal_id", goal.ID, "usd_target", goal.USDTarget.String())
	return &goal, nil
}

// GoalList pairs the user's goals with their live all-time savings total.
type GoalList struct {
	Goals        []models.Goal   `json:"goals"`
	TotalSavings decimal.Decimal `json:"totalSavings"`
}

// ListGoals returns goals in creation order plus the current savings total.
// Progress against each target is derived by the caller from the two
// numbers; it is never stored.
func (s *GoalService) ListGoals(userID uint) (*GoalList, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").Find(&goals).Error; err != nil {
		return nil, apperrors.Unavailable("failed to load goals", err)
	}

	total, err := s.totalSavedUSD(userID)
	if err != nil {
		return nil, err
	}

	return &GoalList{Goals: goals, TotalSavings: total}, nil
}

// HasGoals reports whether the user created any goals yet; the client uses
// this to decide whether to install the default goal set.
func (s *GoalService) HasGoals(userID uint) (bool, error) {
	var n int64
	if err := s.db.Model(&models.Goal{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return false, apperrors.Unavailable("failed to count goals", err)
	}
	return n > 0, nil
}

// DeleteGoal removes a goal owned by the user.
func (s *GoalService) DeleteGoal(userID, goalID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{})
	if res.Error != nil {
		return apperrors.Unavailable("failed to delete goal", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("goal not found")
	}
	return nil
}

// Progress clamps the completion ratio to [0, 1]. Passing the target keeps
// the bar full but never locks the goal.
func Progress(totalUSD, targetUSD decimal.Decimal) decimal.Decimal {
	if targetUSD.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	ratio := totalUSD.DivRound(targetUSD, 4)
	one := decimal.NewFromInt(1)
	if ratio.GreaterThan(one) {
		return one
	}
	if ratio.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return ratio
}

func (s *GoalService) totalSavedUSD(userID uint) (decimal.Decimal, error) {
	var entries []models.Entry
	if err := s.db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return decimal.Zero, apperrors.Unavailable("failed to load entries", err)
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.USDAmount)
	}
	return total, nil
}
