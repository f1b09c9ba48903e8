package domain

// Point - географическая точка (остановка)
type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Language selects which half of a bilingual field is displayed.
type Language string

const (
	LanguageTC Language = "tc"
	LanguageEN Language = "en"
)

// ParseLanguage maps a query value to a Language, defaulting to traditional Chinese.
func ParseLanguage(s string) Language {
	switch s {
	case "en", "EN", "en-US", "en-GB":
		return LanguageEN
	default:
		return LanguageTC
	}
}

func pick(lang Language, tc, en string) string {
	if lang == LanguageEN {
		return en
	}
	return tc
}
