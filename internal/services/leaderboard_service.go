package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"enough/internal/apperrors"
	"enough/internal/models"
	"enough/internal/ranks"
)

// Leaderboard periods. Windowed periods sum the point ledger over a trailing
// window; alltime ranks by the users' running totals.
const (
	LeaderboardDaily   = "daily"
	LeaderboardWeekly  = "weekly"
	LeaderboardMonthly = "monthly"
	LeaderboardAllTime = "alltime"
)

// RankedEntry is one leaderboard row.
type RankedEntry struct {
	Rank     int             `json:"rank"`
	UserID   uint            `json:"user_id"`
	Name     string          `json:"name"`
	Points   decimal.Decimal `json:"points"`
	RankName string          `json:"rank_name"`
	Icon     string          `json:"icon"`
}

// Leaderboard is the ranked window plus the caller's own position.
type Leaderboard struct {
	Period   string        `json:"period"`
	Entries  []RankedEntry `json:"leaderboard"`
	UserRank int           `json:"userRank"`
}

// LeaderboardService derives rankings from the point ledger. Nothing here is
// a durable source of truth; every call recomputes from scratch.
type LeaderboardService struct {
	db    *gorm.DB
	log   *zap.SugaredLogger
	limit int
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(db *gorm.DB, log *zap.SugaredLogger) *LeaderboardService {
	return &LeaderboardService{db: db, log: log, limit: 100}
}

// ValidLeaderboardPeriod reports whether s names a known period.
func ValidLeaderboardPeriod(s string) bool {
	switch s {
	case LeaderboardDaily, LeaderboardWeekly, LeaderboardMonthly, LeaderboardAllTime:
		return true
	}
	return false
}

func windowStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case LeaderboardDaily:
		return now.AddDate(0, 0, -1), true
	case LeaderboardWeekly:
		return now.AddDate(0, 0, -7), true
	case LeaderboardMonthly:
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// Get ranks users by points for the period, descending, ties broken by
// account creation order (stable sort over users loaded oldest-first).
func (s *LeaderboardService) Get(period string, viewerID uint) (*Leaderboard, error) {
	if !ValidLeaderboardPeriod(period) {
		return nil, apperrors.Validation("unknown period %q", period)
	}

	var users []models.User
	if err := s.db.Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, apperrors.Unavailable("failed to load users", err)
	}

	totals := map[uint]decimal.Decimal{}
	if start, windowed := windowStart(period, time.Now()); windowed {
		type row struct {
			UserID uint
			Total  decimal.Decimal
		}
		var rows []row
		if err := s.db.Model(&models.PointEvent{}).
			Select("user_id, COALESCE(SUM(amount), 0) AS total").
			Where("created_at >= ?", start).
			Group("user_id").Scan(&rows).Error; err != nil {
			return nil, apperrors.Unavailable("failed to sum point events", err)
		}
		for _, r := range rows {
			totals[r.UserID] = r.Total
		}
	} else {
		for _, u := range users {
			totals[u.ID] = u.Points
		}
	}

	entries := make([]RankedEntry, 0, len(users))
	for _, u := range users {
		total, ok := totals[u.ID]
		if !ok {
			total = decimal.Zero
		}
		rank := ranks.ForPoints(u.Points)
		entries = append(entries, RankedEntry{
			UserID:   u.ID,
			Name:     u.Name,
			Points:   total,
			RankName: rank.Name(u.Language),
			Icon:     rank.Icon,
		})
	}

	// SliceStable preserves the creation-order tie-break.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points.GreaterThan(entries[j].Points)
	})

	userRank := 0
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].UserID == viewerID {
			userRank = i + 1
		}
	}

	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	return &Leaderboard{Period: period, Entries: entries, UserRank: userRank}, nil
}
