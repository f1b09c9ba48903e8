package usecase

import (
	"fmt"

	"github.com/bus-eta-service/internal/domain"
)

type stopName struct {
	tc string
	en string
}

var fallbackRouteStops = map[string][]stopName{
	"74B": {
		{"九龍灣", "KOWLOON BAY"},
		{"彩頤花園", "RHYTHM GARDEN"},
		{"彩雲", "CHOI WAN"},
		{"鑽石山站", "DIAMOND HILL STATION"},
		{"黃大仙中心", "WONG TAI SIN CENTRE"},
		{"大圍站", "TAI WAI STATION"},
		{"沙田市中心", "SHA TIN TOWN CENTRE"},
		{"大埔中心", "TAI PO CENTRAL"},
	},
	"E36A": {
		{"元朗(德業街)總站", "YUEN LONG (TAK YIP STREET) BUS TERMINUS"},
		{"尚寮庄", "SHEUNG LIU CHUEN"},
		{"形點II", "YOHO MALL II"},
		{"形點I", "YOHO MALL I"},
		{"天水圍站", "TIN SHUI WAI STATION"},
		{"東涌站", "TUNG CHUNG STATION"},
		{"東涌(逸東邨)", "TUNG CHUNG (YAT TUNG ESTATE)"},
	},
}

var genericStops = []stopName{
	{"起點站", "STARTING POINT"},
	{"中途站1", "MIDDLE STOP 1"},
	{"中途站2", "MIDDLE STOP 2"},
	{"中途站3", "MIDDLE STOP 3"},
	{"中途站4", "MIDDLE STOP 4"},
	{"終點站", "FINAL DESTINATION"},
}

// FallbackRoutes - фиксированный список маршрутов на случай недоступности upstream.
// Каждый вызов возвращает новый срез.
func FallbackRoutes() []domain.Route {
	return []domain.Route{
		newRoute("1", domain.DirectionOutbound, "1", "中環", "Central", "尖沙咀", "Tsim Sha Tsui"),
		newRoute("2", domain.DirectionInbound, "1", "尖沙咀", "Tsim Sha Tsui", "中環", "Central"),
		newRoute("E36A", domain.DirectionOutbound, "1",
			"東涌(逸東邨)", "Tung Chung (Yat Tung Estate)", "元朗(德業街)", "Yuen Long (Tak Yip Street)"),
	}
}

// FallbackStops returns the built-in stops of routeID, or a generic placeholder
// sequence for routes it does not know. Stops carry the requested identity.
func FallbackStops(routeID string, direction domain.Direction, serviceType string) []domain.Stop {
	names, ok := fallbackRouteStops[routeID]
	if !ok {
		names = genericStops
	}

	stops := make([]domain.Stop, 0, len(names))
	for i, n := range names {
		seq := i + 1
		stops = append(stops, newStop(fmt.Sprintf("MOCK_STOP_%d", seq), routeID, direction, serviceType, seq, n.tc, n.en))
	}
	return stops
}

func newRoute(routeID string, direction domain.Direction, serviceType, origTC, origEN, destTC, destEN string) domain.Route {
	return domain.Route{
		RouteID:       routeID,
		Direction:     direction,
		ServiceType:   serviceType,
		OriginTC:      origTC,
		OriginEN:      origEN,
		DestinationTC: destTC,
		DestinationEN: destEN,
	}
}

func newStop(stopID, routeID string, direction domain.Direction, serviceType string, seq int, nameTC, nameEN string) domain.Stop {
	return domain.Stop{
		StopID:      stopID,
		RouteID:     routeID,
		Direction:   direction,
		ServiceType: serviceType,
		Sequence:    seq,
		NameTC:      nameTC,
		NameEN:      nameEN,
	}
}
