package models

import "time"

// Referral is the relationship created when a new user signs up with another
// user's code. The three bonus timestamps are nil until the corresponding
// bonus is awarded and are set exactly once; a non-nil timestamp means the
// bonus is spent and any retry is a conflict.
type Referral struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	ReferrerID uint  `gorm:"not null;index" json:"referrer_id"`
	Referrer   *User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredID uint  `gorm:"uniqueIndex;not null" json:"referred_id"`
	Referred   *User `gorm:"foreignKey:ReferredID" json:"referred,omitempty"`

	SignupBonusAt     *time.Time `json:"signup_bonus_at,omitempty"`
	FirstEntryBonusAt *time.Time `json:"first_entry_bonus_at,omitempty"`
	ActivityBonusAt   *time.Time `json:"activity_bonus_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Referral) TableName() string {
	return "referrals"
}
