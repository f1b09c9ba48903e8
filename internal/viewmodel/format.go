// Package viewmodel projects gateway and favorites state into display lists.
package viewmodel

import (
	"fmt"

	"github.com/bus-eta-service/internal/domain"
)

// FormatMinutes renders minutes remaining; unknown renders as "no data".
func FormatMinutes(minutes int, lang domain.Language) string {
	switch {
	case minutes < 0:
		return text(lang, "沒有資料", "No data")
	case minutes == 0:
		return text(lang, "即將到站", "Arriving")
	case lang == domain.LanguageEN:
		return fmt.Sprintf("%d min", minutes)
	default:
		return fmt.Sprintf("%d 分鐘", minutes)
	}
}

// FormatNextEta renders the soonest known arrival of entries sorted by domain.SortEtaEntries.
func FormatNextEta(entries []domain.EtaEntry, lang domain.Language) string {
	if len(entries) == 0 || !entries[0].Known() {
		return FormatMinutes(domain.MinutesUnknown, lang)
	}
	return FormatMinutes(entries[0].MinutesRemaining, lang)
}

func EmptyFavoritesText(lang domain.Language) string {
	return text(lang, "沒有收藏路線", "No favorites")
}

func EmptyRoutesText(lang domain.Language) string {
	return text(lang, "沒有路線", "No routes")
}

func EmptyStopsText(lang domain.Language) string {
	return text(lang, "沒有車站", "No stops")
}

func text(lang domain.Language, tc, en string) string {
	if lang == domain.LanguageEN {
		return en
	}
	return tc
}
