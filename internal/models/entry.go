package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry categories. Stored as plain strings; validated at the boundary.
const (
	CategoryHabits        = "habits"
	CategoryFood          = "food"
	CategoryDrinks        = "drinks"
	CategoryEntertainment = "entertainment"
	CategoryShopping      = "shopping"
	CategoryOther         = "other"
)

// EntryCategories lists every valid category.
var EntryCategories = []string{
	CategoryHabits,
	CategoryFood,
	CategoryDrinks,
	CategoryEntertainment,
	CategoryShopping,
	CategoryOther,
}

// ValidCategory reports whether the category is one of the known values.
func ValidCategory(category string) bool {
	for _, c := range EntryCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Entry is one refusal event. Currency and USDAmount are snapshots taken at
// creation time: USDAmount is converted once with the rate in effect then and
// never recomputed, so historical totals survive rate table changes.
type Entry struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"-"`
	Name         string          `gorm:"size:200;not null" json:"name"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price_per_unit"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"quantity"`
	Category     string          `gorm:"size:20;not null;default:other" json:"category"`
	Currency     string          `gorm:"size:6;not null" json:"currency"`
	USDAmount    decimal.Decimal `gorm:"type:decimal(18,8);not null" json:"usd_amount"`
	Note         string          `gorm:"size:500" json:"note,omitempty"`
	Tags         []string        `gorm:"serializer:json" json:"tags"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
}

func (Entry) TableName() string {
	return "entries"
}
