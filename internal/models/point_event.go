package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Point event sources.
const (
	PointSourceEntry              = "entry"
	PointSourceTask               = "task"
	PointSourceReferralSignup     = "referral_signup"
	PointSourceReferralFirstEntry = "referral_first_entry"
	PointSourceReferralActivity   = "referral_activity"
)

// PointEvent is the append-only award ledger. The unique index on
// (user_id, source, reference_id) is what enforces exactly-once awarding:
// a retried request hits the constraint instead of minting points again.
// Windowed leaderboards sum this ledger rather than users.points.
type PointEvent struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index:idx_point_event_dedup,unique;index:idx_point_event_window" json:"user_id"`
	User        *User           `gorm:"foreignKey:UserID" json:"-"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Source      string          `gorm:"size:30;not null;index:idx_point_event_dedup,unique" json:"source"`
	ReferenceID string          `gorm:"size:40;not null;index:idx_point_event_dedup,unique" json:"reference_id"`
	CreatedAt   time.Time       `gorm:"index:idx_point_event_window" json:"created_at"`
}

func (PointEvent) TableName() string {
	return "point_events"
}
