package gamification

import (
	"github.com/shopspring/decimal"

	"enough/internal/models"
)

// AchievementContext is the aggregate history an achievement predicate sees.
// Building it once per evaluation keeps every predicate pure and cheap.
type AchievementContext struct {
	EntryCount        int64
	TotalSavedUSD     decimal.Decimal
	MaxEntryUSD       decimal.Decimal
	DistinctTagsUsed  int
	CurrentStreakDays int
	ReferralCount     int64
}

// AchievementRule pairs an achievement code with its unlock predicate.
type AchievementRule struct {
	Code     string
	Unlocked func(ctx AchievementContext) bool
}

// AchievementRules is evaluated in slice order, which fixes the notification
// order for multi-unlock actions. Never reorder released rules.
var AchievementRules = []AchievementRule{
	{"first_step", func(ctx AchievementContext) bool {
		return ctx.EntryCount >= 1
	}},
	{"ten_refusals", func(ctx AchievementContext) bool {
		return ctx.EntryCount >= 10
	}},
	{"fifty_refusals", func(ctx AchievementContext) bool {
		return ctx.EntryCount >= 50
	}},
	{"hundred_saved", func(ctx AchievementContext) bool {
		return ctx.TotalSavedUSD.GreaterThanOrEqual(decimal.NewFromInt(100))
	}},
	{"five_hundred_saved", func(ctx AchievementContext) bool {
		return ctx.TotalSavedUSD.GreaterThanOrEqual(decimal.NewFromInt(500))
	}},
	{"big_fish", func(ctx AchievementContext) bool {
		return ctx.MaxEntryUSD.GreaterThanOrEqual(decimal.NewFromInt(50))
	}},
	{"week_streak", func(ctx AchievementContext) bool {
		return ctx.CurrentStreakDays >= 7
	}},
	{"tag_collector", func(ctx AchievementContext) bool {
		return ctx.DistinctTagsUsed >= 5
	}},
	{"recruiter", func(ctx AchievementContext) bool {
		return ctx.ReferralCount >= 1
	}},
}

// EvaluateAchievements returns the codes whose predicates hold, in rule
// order. Idempotency lives at the store layer: the caller skips codes the
// user already unlocked.
func EvaluateAchievements(ctx AchievementContext) []string {
	var codes []string
	for _, rule := range AchievementRules {
		if rule.Unlocked(ctx) {
			codes = append(codes, rule.Code)
		}
	}
	return codes
}

// AchievementSeed is the display catalog matching AchievementRules. Seeded
// into the achievements table at startup; inserts are idempotent on code.
var AchievementSeed = []models.Achievement{
	{Code: "first_step", NameEN: "First Step", NameRU: "Первый шаг", DescriptionEN: "Log your first refusal", DescriptionRU: "Запишите первый отказ", Icon: "👣"},
	{Code: "ten_refusals", NameEN: "Getting Serious", NameRU: "Всерьёз", DescriptionEN: "Log 10 refusals", DescriptionRU: "Запишите 10 отказов", Icon: "🔟"},
	{Code: "fifty_refusals", NameEN: "Iron Will", NameRU: "Железная воля", DescriptionEN: "Log 50 refusals", DescriptionRU: "Запишите 50 отказов", Icon: "🛡️"},
	{Code: "hundred_saved", NameEN: "Hundredaire", NameRU: "Сотня", DescriptionEN: "Save $100 in total", DescriptionRU: "Сэкономьте $100", Icon: "💵"},
	{Code: "five_hundred_saved", NameEN: "Halfway to a Grand", NameRU: "Полпути к тысяче", DescriptionEN: "Save $500 in total", DescriptionRU: "Сэкономьте $500", Icon: "💰"},
	{Code: "big_fish", NameEN: "Big Fish", NameRU: "Крупная рыба", DescriptionEN: "Refuse a single purchase worth $50+", DescriptionRU: "Откажитесь от покупки на $50+", Icon: "🐟"},
	{Code: "week_streak", NameEN: "One Week Strong", NameRU: "Неделя силы", DescriptionEN: "Log refusals 7 days in a row", DescriptionRU: "Отказы 7 дней подряд", Icon: "🔥"},
	{Code: "tag_collector", NameEN: "Know Your Why", NameRU: "Знай своё зачем", DescriptionEN: "Use 5 different why-tags", DescriptionRU: "Используйте 5 разных причин", Icon: "🏷️"},
	{Code: "recruiter", NameEN: "Recruiter", NameRU: "Рекрутер", DescriptionEN: "Invite a friend", DescriptionRU: "Пригласите друга", Icon: "🤝"},
}
