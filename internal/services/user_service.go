package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/auth"
	"enough/internal/currency"
	"enough/internal/models"
)

// UserService handles profile reads and updates.
type UserService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewUserService creates a new UserService
func NewUserService(db *gorm.DB, log *zap.SugaredLogger) *UserService {
	return &UserService{db: db, log: log}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Unavailable("failed to load user", err)
	}
	return &user, nil
}

// ProfileUpdate carries the mutable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Name            *string
	Currency        *string
	Language        *string
	CurrentPassword string
	NewPassword     string
}

// UpdateProfile applies profile changes. Changing the password requires the
// current password to verify; preference changes do not.
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" || len(name) > 100 {
			return nil, apperrors.Validation("name must be 1-100 characters")
		}
		changes["name"] = name
	}

	if update.Currency != nil {
		if !currency.IsSupported(*update.Currency) {
			return nil, apperrors.Validation("unsupported currency %q", *update.Currency)
		}
		changes["currency"] = *update.Currency
	}

	if update.Language != nil {
		if *update.Language != "en" && *update.Language != "ru" {
			return nil, apperrors.Validation("language must be en or ru")
		}
		changes["language"] = *update.Language
	}

	if update.NewPassword != "" {
		if !auth.CheckPassword(user.PasswordHash, update.CurrentPassword) {
			return nil, apperrors.Authorization("current password is incorrect")
		}
		if len(update.NewPassword) < 8 {
			return nil, apperrors.Validation("password must be at least 8 characters")
		}
		hash, err := auth.HashPassword(update.NewPassword)
		if err != nil {
			return nil, apperrors.Internal("failed to hash password", err)
		}
		changes["password_hash"] = hash
	}

	if len(changes) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(changes).Error; err != nil {
		return nil, apperrors.Unavailable("failed to update profile", err)
	}

	s.log.Infow("profile updated", "user_id", userID)
	return s.GetUserByID(userID)
}
