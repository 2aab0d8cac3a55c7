package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. USDTarget is fixed in USD at creation regardless
// of the display currency; progress is always recomputed live from the user's
// current all-time total and never stored.
type Goal struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"not null;index:idx_goals_user_name,unique" json:"user_id"`
	User           *User           `gorm:"foreignKey:UserID" json:"-"`
	Name           string          `gorm:"size:200;not null" json:"name"`
	NormalizedName string          `gorm:"size:200;not null;index:idx_goals_user_name,unique" json:"-"`
	USDTarget      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"usd_target"`
	Currency       string          `gorm:"size:6;not null;default:USD" json:"currency"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (Goal) TableName() string {
	return "goals"
}
