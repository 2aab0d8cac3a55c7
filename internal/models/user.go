package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account. Points only ever grow through the
// gamification ledger; Currency and Language are display preferences.
type User struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Email        string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	PasswordHash string          `gorm:"size:255;not null" json:"-"`
	Points       decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"points"`
	Currency     string          `gorm:"size:6;default:USD" json:"currency"`
	Language     string          `gorm:"size:2;default:en" json:"language"`
	ReferralCode string          `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	ReferredBy   *uint           `gorm:"index" json:"referred_by,omitempty"`
	Referrer     *User           `gorm:"foreignKey:ReferredBy" json:"-"`

	// Streak bookkeeping, advanced when entries are created.
	CurrentStreak int        `gorm:"default:0" json:"current_streak"`
	LastEntryDate *time.Time `json:"last_entry_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
