package domain

import "sort"

// Direction is the travel direction of a route instance.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MinutesUnknown marks an ETA without a resolvable arrival time.
const MinutesUnknown = -1

// Route - маршрут автобуса (route + direction + service type)
type Route struct {
	RouteID       string    `json:"route_id"`
	Direction     Direction `json:"direction"`
	ServiceType   string    `json:"service_type"`
	OriginTC      string    `json:"origin_tc"`
	OriginEN      string    `json:"origin_en"`
	DestinationTC string    `json:"destination_tc"`
	DestinationEN string    `json:"destination_en"`
	FavoriteKey   string    `json:"favorite_key"`

	// IsFavorite is a view-local copy of the favorites store state.
	IsFavorite bool `json:"is_favorite"`
}

func (r Route) Origin(lang Language) string {
	return pick(lang, r.OriginTC, r.OriginEN)
}

func (r Route) Destination(lang Language) string {
	return pick(lang, r.DestinationTC, r.DestinationEN)
}

// Stop - остановка маршрута
type Stop struct {
	StopID      string    `json:"stop_id"`
	RouteID     string    `json:"route_id"`
	Direction   Direction `json:"direction"`
	ServiceType string    `json:"service_type"`
	Sequence    int       `json:"sequence"`
	NameTC      string    `json:"name_tc"`
	NameEN      string    `json:"name_en"`
	Location    *Point    `json:"location,omitempty"`
}

func (s Stop) Name(lang Language) string {
	return pick(lang, s.NameTC, s.NameEN)
}

// SortStopsBySequence orders stops ascending by their numeric sequence.
func SortStopsBySequence(stops []Stop) {
	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].Sequence < stops[j].Sequence
	})
}

// EtaEntry - одно прибытие автобуса на остановку
type EtaEntry struct {
	RouteID       string    `json:"route_id"`
	StopID        string    `json:"stop_id"`
	Direction     Direction `json:"direction"`
	ServiceType   string    `json:"service_type"`
	Sequence      int       `json:"sequence,omitempty"`
	EtaTime       string    `json:"eta_time"`
	RemarkTC      string    `json:"remark_tc"`
	RemarkEN      string    `json:"remark_en"`
	DestinationTC string    `json:"destination_tc,omitempty"`
	DestinationEN string    `json:"destination_en,omitempty"`

	// MinutesRemaining is resolved when the entry is built; MinutesUnknown if no time.
	MinutesRemaining int `json:"minutes_remaining"`
}

func (e EtaEntry) Remark(lang Language) string {
	return pick(lang, e.RemarkTC, e.RemarkEN)
}

func (e EtaEntry) Destination(lang Language) string {
	return pick(lang, e.DestinationTC, e.DestinationEN)
}

// Known reports whether the entry has a resolvable arrival time.
func (e EtaEntry) Known() bool {
	return e.MinutesRemaining >= 0
}

// SortEtaEntries orders entries by minutes remaining, unknown entries last.
func SortEtaEntries(entries []EtaEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Known() != b.Known() {
			return a.Known()
		}
		return a.MinutesRemaining < b.MinutesRemaining
	})
}
