package ranks

import "github.com/shopspring/decimal"

// Rank is a named tier reached by accumulating points.
type Rank struct {
	MinPoints int64  `json:"min_points"`
	NameEN    string `json:"name_en"`
	NameRU    string `json:"name_ru"`
	Icon      string `json:"icon"`
}

// Name returns the rank name for a language code, defaulting to English.
func (r Rank) Name(language string) string {
	if language == "ru" {
		return r.NameRU
	}
	return r.NameEN
}

// Ranks is ordered ascending by MinPoints. The first tier starts at 0 so a
// lookup is defined for every non-negative point total.
var Ranks = []Rank{
	{0, "Beginner", "Новичок", "🌱"},
	{50, "Saver", "Бережливый", "🪙"},
	{150, "Smart Saver", "Умный накопитель", "💰"},
	{400, "Money Master", "Мастер денег", "🏆"},
	{1000, "Legend", "Легенда", "👑"},
}

// ForPoints returns the highest tier whose threshold the points satisfy.
func ForPoints(points decimal.Decimal) Rank {
	current := Ranks[0]
	for _, r := range Ranks {
		if points.GreaterThanOrEqual(decimal.NewFromInt(r.MinPoints)) {
			current = r
		}
	}
	return current
}

// Next returns the first tier above the given points, or false when the top
// tier is already reached.
func Next(points decimal.Decimal) (Rank, bool) {
	for _, r := range Ranks {
		if decimal.NewFromInt(r.MinPoints).GreaterThan(points) {
			return r, true
		}
	}
	return Rank{}, false
}

// PointsToNext returns how many points remain until the next tier, zero at
// the top tier.
func PointsToNext(points decimal.Decimal) decimal.Decimal {
	next, ok := Next(points)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromInt(next.MinPoints).Sub(points)
}
