package models

// WhyTag is a reusable reason-for-refusal label attachable to presets and
// entries. The taxonomy is static application data, not user records.
type WhyTag struct {
	ID     string `json:"id"`
	NameEN string `json:"name_en"`
	NameRU string `json:"name_ru"`
	Icon   string `json:"icon"`
}

// WhyTags is the fixed taxonomy, in display order.
var WhyTags = []WhyTag{
	{"save_money", "Saving money", "Экономлю деньги", "💰"},
	{"health", "For my health", "Ради здоровья", "🫀"},
	{"habit_break", "Breaking a habit", "Бросаю привычку", "⛓️"},
	{"dont_need", "Don't really need it", "Мне это не нужно", "🤷"},
	{"environment", "For the planet", "Ради планеты", "🌍"},
	{"minimalism", "Less is more", "Меньше — лучше", "🧘"},
	{"goal_focus", "Saving for a goal", "Коплю на цель", "🎯"},
	{"impulse", "It was an impulse", "Это был импульс", "⚡"},
	{"too_expensive", "Too expensive", "Слишком дорого", "💸"},
	{"waiting", "Can wait", "Может подождать", "⏳"},
}

// WhyTagName returns the localized tag name, or the raw id for unknown tags
// so a stale client-side tag never breaks rendering.
func WhyTagName(id, language string) string {
	for _, t := range WhyTags {
		if t.ID == id {
			if language == "ru" {
				return t.NameRU
			}
			return t.NameEN
		}
	}
	return id
}

// ValidWhyTag reports whether the id exists in the taxonomy.
func ValidWhyTag(id string) bool {
	for _, t := range WhyTags {
		if t.ID == id {
			return true
		}
	}
	return false
}
