package services

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/models"
)

// PresetService manages quick-add templates. Presets never reference
// entries: deleting one leaves every entry created from it untouched.
type PresetService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewPresetService creates a new PresetService
func NewPresetService(db *gorm.DB, log *zap.SugaredLogger) *PresetService {
	return &PresetService{db: db, log: log}
}

// PresetInput is the create/update payload.
type PresetInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Icon     string
	Tags     []string
}

// CreatePreset stores a template for the user.
func (s *PresetService) CreatePreset(userID uint, in PresetInput) (*models.Preset, error) {
	if err := validatePreset(&in); err != nil {
		return nil, err
	}

	var position int64
	if err := s.db.Model(&models.Preset{}).Where("user_id = ?", userID).Count(&position).Error; err != nil {
		return nil, apperrors.Unavailable("failed to count presets", err)
	}

	preset := models.Preset{
		UserID:   userID,
		Name:     in.Name,
		Price:    in.Price,
		Category: in.Category,
		Icon:     in.Icon,
		Tags:     in.Tags,
		Position: int(position),
	}
	if err := s.db.Create(&preset).Error; err != nil {
		return nil, apperrors.Unavailable("failed to create preset", err)
	}
	return &preset, nil
}

// ListPresets returns the user's templates in display order.
func (s *PresetService) ListPresets(userID uint) ([]models.Preset, error) {
	var presets []models.Preset
	if err := s.db.Where("user_id = ?", userID).
		Order("position ASC, id ASC").Find(&presets).Error; err != nil {
		return nil, apperrors.Unavailable("failed to load presets", err)
	}
	return presets, nil
}

// UpdatePreset replaces a template's fields.
func (s *PresetService) UpdatePreset(userID, presetID uint, in PresetInput) (*models.Preset, error) {
	if err := validatePreset(&in); err != nil {
		return nil, err
	}

	var preset models.Preset
	if err := s.db.Where("id = ? AND user_id = ?", presetID, userID).First(&preset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("preset not found")
		}
		return nil, apperrors.Unavailable("failed to load preset", err)
	}

	preset.Name = in.Name
	preset.Price = in.Price
	preset.Category = in.Category
	preset.Icon = in.Icon
	preset.Tags = in.Tags
	if err := s.db.Save(&preset).Error; err != nil {
		return nil, apperrors.Unavailable("failed to update preset", err)
	}
	return &preset, nil
}

// DeletePreset removes a template owned by the user.
func (s *PresetService) DeletePreset(userID, presetID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", presetID, userID).Delete(&models.Preset{})
	if res.Error != nil {
		return apperrors.Unavailable("failed to delete preset", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("preset not found")
	}
	return nil
}

func validatePreset(in *PresetInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 200 {
		return apperrors.Validation("name must be 1-200 characters")
	}
	if in.Price.LessThanOrEqual(decimal.Zero) {
		return apperrors.Validation("price must be positive")
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
