package dto

import (
	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/viewmodel"
)

// RouteItem - маршрут в списке
type RouteItem struct {
	RouteID     string           `json:"route_id"`
	Direction   domain.Direction `json:"direction"`
	ServiceType string           `json:"service_type"`
	Origin      string           `json:"origin"`
	Destination string           `json:"destination"`
	FavoriteKey string           `json:"favorite_key"`
	IsFavorite  bool             `json:"is_favorite"`
}

type RouteListResponse struct {
	Routes        []RouteItem `json:"routes"`
	FavoritesOnly bool        `json:"favorites_only"`
	Source        string      `json:"source"`
}

// EtaItem - одно прибытие
type EtaItem struct {
	RouteID          string           `json:"route_id"`
	StopID           string           `json:"stop_id"`
	Direction        domain.Direction `json:"direction"`
	ServiceType      string           `json:"service_type"`
	Sequence         int              `json:"sequence,omitempty"`
	EtaTime          string           `json:"eta_time"`
	MinutesRemaining int              `json:"minutes_remaining"`
	Text             string           `json:"text"`
	Remark           string           `json:"remark,omitempty"`
	Destination      string           `json:"destination,omitempty"`
}

// StopItem - остановка маршрута с ближайшими прибытиями
type StopItem struct {
	StopID   string        `json:"stop_id"`
	Sequence int           `json:"sequence"`
	Name     string        `json:"name"`
	Location *domain.Point `json:"location,omitempty"`
	EtaText  string        `json:"eta_text"`
	Etas     []EtaItem     `json:"etas"`
}

type StopListResponse struct {
	RouteID     string           `json:"route_id"`
	Direction   domain.Direction `json:"direction"`
	ServiceType string           `json:"service_type"`
	FavoriteKey string           `json:"favorite_key"`
	IsFavorite  bool             `json:"is_favorite"`
	Source      string           `json:"source"`
	Stops       []StopItem       `json:"stops"`
}

type StopResponse struct {
	StopID   string        `json:"stop_id"`
	Name     string        `json:"name"`
	NameTC   string        `json:"name_tc"`
	NameEN   string        `json:"name_en"`
	Location *domain.Point `json:"location,omitempty"`
}

type EtaListResponse struct {
	Etas []EtaItem `json:"etas"`
}

type FavoriteListResponse struct {
	Keys []string `json:"keys"`
}

// FavoriteChangeResponse - результат изменения избранного
type FavoriteChangeResponse struct {
	Key        string `json:"key"`
	IsFavorite bool   `json:"is_favorite"`
	Changed    bool   `json:"changed"`
}

func NewRouteItems(routes []domain.Route, lang domain.Language) []RouteItem {
	items := make([]RouteItem, 0, len(routes))
	for _, r := range routes {
		items = append(items, RouteItem{
			RouteID:     r.RouteID,
			Direction:   r.Direction,
			ServiceType: r.ServiceType,
			Origin:      r.Origin(lang),
			Destination: r.Destination(lang),
			FavoriteKey: r.FavoriteKey,
			IsFavorite:  r.IsFavorite,
		})
	}
	return items
}

func NewEtaItems(entries []domain.EtaEntry, lang domain.Language) []EtaItem {
	items := make([]EtaItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, EtaItem{
			RouteID:          e.RouteID,
			StopID:           e.StopID,
			Direction:        e.Direction,
			ServiceType:      e.ServiceType,
			Sequence:         e.Sequence,
			EtaTime:          e.EtaTime,
			MinutesRemaining: e.MinutesRemaining,
			Text:             viewmodel.FormatMinutes(e.MinutesRemaining, lang),
			Remark:           e.Remark(lang),
			Destination:      e.Destination(lang),
		})
	}
	return items
}

func NewStopItems(rows []viewmodel.StopRow, lang domain.Language) []StopItem {
	items := make([]StopItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, StopItem{
			StopID:   row.Stop.StopID,
			Sequence: row.Stop.Sequence,
			Name:     row.Stop.Name(lang),
			Location: row.Stop.Location,
			EtaText:  row.EtaText,
			Etas:     NewEtaItems(row.Etas, lang),
		})
	}
	return items
}

func NewStopResponse(s *domain.Stop, lang domain.Language) StopResponse {
	return StopResponse{
		StopID:   s.StopID,
		Name:     s.Name(lang),
		NameTC:   s.NameTC,
		NameEN:   s.NameEN,
		Location: s.Location,
	}
}
