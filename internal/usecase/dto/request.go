package dto

// FavoriteRequest - идентификатор маршрута для операций с избранным
type FavoriteRequest struct {
	RouteID     string `json:"route_id" validate:"required,notblank,max=16"`
	Direction   string `json:"direction" validate:"omitempty,max=16"`
	ServiceType string `json:"service_type" validate:"omitempty,max=8"`
}

// RouteListQuery - параметры списка маршрутов
type RouteListQuery struct {
	FavoritesOnly bool   `query:"favorites_only"`
	Lang          string `query:"lang" validate:"omitempty,oneof=tc en"`
}

// StopEtaQuery - параметры ETA по остановке
type StopEtaQuery struct {
	RouteID     string `query:"route_id" validate:"omitempty,max=16"`
	ServiceType string `query:"service_type" validate:"omitempty,max=8"`
	Lang        string `query:"lang" validate:"omitempty,oneof=tc en"`
}
