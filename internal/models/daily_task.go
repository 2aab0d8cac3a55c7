package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyTask is an ephemeral per-day objective. A row exists per (user, code,
// local day); IsCompleted transitions false→true exactly once and is
// terminal — the unique index plus the completed-flag check make re-claiming
// a conflict, not a second award.
type DailyTask struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index:idx_task_user_code_day,unique" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"-"`
	Code        string          `gorm:"size:40;not null;index:idx_task_user_code_day,unique" json:"code"`
	Day         string          `gorm:"size:10;not null;index:idx_task_user_code_day,unique" json:"day"`
	TitleEN     string          `gorm:"size:150;not null" json:"title_en"`
	TitleRU     string          `gorm:"size:150;not null" json:"title_ru"`
	Progress    int             `gorm:"default:0" json:"progress"`
	MaxProgress int             `gorm:"not null" json:"max_progress"`
	Points      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"points"`
	IsCompleted bool            `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (DailyTask) TableName() string {
	return "daily_tasks"
}

// Title returns the task title for a language code, defaulting to English.
func (t DailyTask) Title(language string) string {
	if language == "ru" {
		return t.TitleRU
	}
	return t.TitleEN
}
