package aggregation

import (
	"time"

	"github.com/shopspring/decimal"

	"enough/internal/models"
)

// Period selects the window entries are summed over.
type Period string

const (
	PeriodToday   Period = "today"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodAllTime Period = "alltime"
)

// ParsePeriod maps a query value to a period, defaulting to all-time, which
// matches a request with no period filter at all.
func ParsePeriod(s string) Period {
	switch s {
	case "today":
		return PeriodToday
	case "week":
		return PeriodWeek
	case "month":
		return PeriodMonth
	default:
		return PeriodAllTime
	}
}

// Valid reports whether s names a known period (empty means all-time).
func Valid(s string) bool {
	switch s {
	case "", "today", "week", "month", "alltime":
		return true
	}
	return false
}

// clientLocation builds a fixed-zone location from the client's UTC offset in
// minutes, using the JS Date.getTimezoneOffset convention: positive values
// are minutes *behind* UTC. "Today" must be the viewer's calendar date, not
// the server's — an entry logged just before local midnight belongs to the
// viewer's yesterday even when the server is already past midnight UTC.
func clientLocation(tzOffsetMinutes int) *time.Location {
	return time.FixedZone("client", -tzOffsetMinutes*60)
}

// InPeriod reports whether an entry timestamp falls inside the window ending
// at now. Week is trailing 7 days and month trailing 30; the same policy is
// used by every caller so dashboard and wallet totals always agree.
func InPeriod(at time.Time, period Period, now time.Time, tzOffsetMinutes int) bool {
	switch period {
	case PeriodToday:
		loc := clientLocation(tzOffsetMinutes)
		y1, m1, d1 := at.In(loc).Date()
		y2, m2, d2 := now.In(loc).Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case PeriodWeek:
		return !at.Before(now.AddDate(0, 0, -7))
	case PeriodMonth:
		return !at.Before(now.AddDate(0, 0, -30))
	default:
		return true
	}
}

// Filter returns the entries inside the window, preserving order.
func Filter(entries []models.Entry, period Period, now time.Time, tzOffsetMinutes int) []models.Entry {
	if period == PeriodAllTime {
		return entries
	}
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if InPeriod(e.CreatedAt, period, now, tzOffsetMinutes) {
			out = append(out, e)
		}
	}
	return out
}

// SumUSD totals the stored usd_amount snapshots over the filtered window.
func SumUSD(entries []models.Entry, period Period, now time.Time, tzOffsetMinutes int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if InPeriod(e.CreatedAt, period, now, tzOffsetMinutes) {
			total = total.Add(e.USDAmount)
		}
	}
	return total
}

// TagCount is one why-tag with its occurrence count.
type TagCount struct {
	TagID string `json:"tag_id"`
	Count int    `json:"count"`
}

// TopTags counts tag occurrences across the given tag lists and returns the
// most frequent, ties broken by first occurrence, truncated to limit. The
// limit is a parameter because call sites want different sizes.
func TopTags(tagLists [][]string, limit int) []TagCount {
	counts := map[string]int{}
	order := []string{}
	for _, tags := range tagLists {
		for _, tag := range tags {
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{TagID: tag, Count: counts[tag]})
	}
	// Insertion sort keeps the first-seen order among equal counts.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
