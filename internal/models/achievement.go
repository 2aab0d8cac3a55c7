package models

import "time"

// Achievement is a named unlockable milestone with bilingual display text.
type Achievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"uniqueIndex;size:40;not null" json:"code"`
	NameEN        string    `gorm:"size:100;not null" json:"name_en"`
	NameRU        string    `gorm:"size:100;not null" json:"name_ru"`
	DescriptionEN string    `gorm:"size:255" json:"description_en"`
	DescriptionRU string    `gorm:"size:255" json:"description_ru"`
	Icon          string    `gorm:"size:16" json:"icon"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records an unlock. Created once, immutable, never deleted;
// the unique index makes re-unlocking a no-op at the store layer.
type UserAchievement struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        uint         `gorm:"not null;index:idx_user_achievement,unique" json:"user_id"`
	User          *User        `gorm:"foreignKey:UserID" json:"-"`
	AchievementID uint         `gorm:"not null;index:idx_user_achievement,unique" json:"achievement_id"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	UnlockedAt    time.Time    `gorm:"autoCreateTime" json:"unlocked_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
