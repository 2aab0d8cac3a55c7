package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Preset is a quick-add template for a common refusal. Presets have a
// lifecycle independent from entries: editing or deleting one does not touch
// entries created from it.
type Preset struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	User      *User           `gorm:"foreignKey:UserID" json:"-"`
	Name      string          `gorm:"size:200;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Category  string          `gorm:"size:20;not null;default:other" json:"category"`
	Icon      string          `gorm:"size:16" json:"icon"`
	Tags      []string        `gorm:"serializer:json" json:"tags"`
	Position  int             `gorm:"default:0" json:"position"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Preset) TableName() string {
	return "presets"
}
