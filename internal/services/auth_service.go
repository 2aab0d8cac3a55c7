package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/auth"
	"enough/internal/currency"
	"enough/internal/gamification"
	"enough/internal/models"
)

// AuthService handles registration and login.
type AuthService struct {
	db     *gorm.DB
	engine *gamification.Engine
	log    *zap.SugaredLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(db *gorm.DB, engine *gamification.Engine, log *zap.SugaredLogger) *AuthService {
	return &AuthService{db: db, engine: engine, log: log}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	ReferralCode string
	Currency     string
	Language     string
}

// Register creates a user and, when a valid referral code is supplied, the
// referral relationship plus both signup bonuses. Bonuses are keyed to the
// referral row in the points ledger, so replaying the registration can never
// double-award them.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validateRegister(&in); err != nil {
		return nil, err
	}

	// Resolve referrer before the transaction; an unknown code is ignored
	// rather than failing the signup.
	var referrer *models.User
	if in.ReferralCode != "" {
		var u models.User
		err := s.db.Where("referral_code = ?", in.ReferralCode).First(&u).Error
		if err == nil {
			referrer = &u
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unavailable("failed to look up referral code", err)
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	code, err := generateReferralCode()
	if err != nil {
		return nil, apperrors.Internal("failed to generate referral code", err)
	}

	user := models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Currency:     in.Currency,
		Language:     in.Language,
		ReferralCode: code,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("user already exists")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if referrer == nil {
			return nil
		}

		now := time.Now()
		referral := models.Referral{
			ReferrerID:    referrer.ID,
			ReferredID:    user.ID,
			SignupBonusAt: &now,
		}
		if err := tx.Create(&referral).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("referral already processed")
			}
			return fmt.Errorf("failed to create referral: %w", err)
		}

		ref := fmt.Sprintf("%d", referral.ID)
		newBonus, refBonus := s.engine.SignupBonuses()
		if err := s.engine.Award(tx, user.ID, newBonus, models.PointSourceReferralSignup, ref+":new"); err != nil {
			return err
		}
		return s.engine.Award(tx, referrer.ID, refBonus, models.PointSourceReferralSignup, ref+":referrer")
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("user registered", "user_id", user.ID, "referred", referrer != nil)
	return &user, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.Authorization("invalid email or password")
		}
		return nil, "", apperrors.Unavailable("failed to load user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperrors.Authorization("invalid email or password")
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", apperrors.Internal("failed to issue token", err)
	}

	return &user, token, nil
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Unavailable("failed to load user", err)
	}
	return &user, nil
}

func (s *AuthService) validateRegister(in *RegisterInput) error {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return apperrors.Validation("a valid email is required")
	}
	if len(in.Password) < 8 {
		return apperrors.Validation("password must be at least 8 characters")
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 100 {
		return apperrors.Validation("name must be 1-100 characters")
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	if !currency.IsSupported(in.Currency) {
		return apperrors.Validation("unsupported currency %q", in.Currency)
	}
	if in.Language == "" {
		in.Language = "en"
	}
	if in.Language != "en" && in.Language != "ru" {
		return apperrors.Validation("language must be en or ru")
	}
	return nil
}

// generateReferralCode generates a random 8-character uppercase code.
func generateReferralCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b), nil
}
