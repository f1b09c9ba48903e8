package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/pkg/utils"
	"github.com/bus-eta-service/internal/pkg/validator"
	"github.com/bus-eta-service/internal/usecase"
	"github.com/bus-eta-service/internal/usecase/dto"
	"github.com/bus-eta-service/internal/viewmodel"
)

// RouteHandler - маршруты, остановки маршрута и ETA маршрута
type RouteHandler struct {
	gateway   *usecase.TransitGateway
	favorites *usecase.FavoriteStore
	logger    *zap.Logger
}

func NewRouteHandler(gateway *usecase.TransitGateway, favorites *usecase.FavoriteStore, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		gateway:   gateway,
		favorites: favorites,
		logger:    logger,
	}
}

// ListRoutes godoc
// @Summary Список маршрутов
// @Description Все маршруты с отметкой избранного. При недоступности upstream возвращается встроенный список (meta.fallback=true).
// @Tags Routes
// @Produce json
// @Param favorites_only query bool false "Только избранные"
// @Param lang query string false "Язык (tc, en)" default(tc)
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/routes [get]
func (h *RouteHandler) ListRoutes(c *fiber.Ctx) error {
	var q dto.RouteListQuery
	if err := c.QueryParser(&q); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}
	if err := validator.Validate(&q); err != nil {
		return utils.SendError(c, err)
	}

	ctx := c.Context()
	lang := language(c)
	routes, source := h.gateway.FetchAllRoutes(ctx)

	vm := viewmodel.NewRouteListViewModel(h.favorites, h.logger)
	defer vm.Close()
	vm.ApplyDataset(ctx, routes)
	if q.FavoritesOnly {
		vm.EnterFavoritesOnlyMode(ctx)
	}

	items := dto.NewRouteItems(vm.Items(), lang)
	return utils.SendSuccess(c, dto.RouteListResponse{
		Routes:        items,
		FavoritesOnly: vm.FavoritesOnly(),
		Source:        string(source),
	}, &utils.Meta{
		Total:    len(items),
		Fallback: source == usecase.SourceFallback,
		Empty:    vm.EmptyState(lang),
	})
}

// ListStops godoc
// @Summary Остановки маршрута с ETA
// @Description Остановки по порядку следования с ближайшими прибытиями. Для встроенных данных ETA не запрашивается.
// @Tags Routes
// @Produce json
// @Param route_id path string true "Номер маршрута"
// @Param direction path string true "Направление (inbound, outbound, I, O)"
// @Param service_type path string true "Тип сервиса" default(1)
// @Param lang query string false "Язык (tc, en)" default(tc)
// @Success 200 {object} utils.SuccessResponse{data=dto.StopListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/routes/{route_id}/{direction}/{service_type}/stops [get]
func (h *RouteHandler) ListStops(c *fiber.Ctx) error {
	routeID := c.Params("route_id")
	direction := c.Params("direction")
	serviceType := c.Params("service_type")

	ctx := c.Context()
	lang := language(c)

	vm, err := viewmodel.NewStopListViewModel(ctx, h.favorites, routeID, direction, serviceType, h.logger)
	if err != nil {
		return utils.SendError(c, err)
	}
	defer vm.Close()

	stops, source, err := h.gateway.FetchStopsForRoute(ctx, routeID, direction, serviceType)
	if err != nil {
		return utils.SendError(c, err)
	}
	vm.SetStops(stops)

	if source == usecase.SourceUpstream {
		entries, err := h.gateway.FetchEtaForRoute(ctx, routeID)
		if err != nil {
			h.logger.Warn("Route ETA unavailable, stops shown without arrivals",
				zap.String("route_id", routeID),
				zap.Error(err),
			)
		} else {
			vm.MergeRouteEta(entries)
		}
	}

	var resp dto.StopListResponse
	resp.FavoriteKey = vm.Key()
	resp.IsFavorite = vm.IsFavorite()
	resp.Source = string(source)
	resp.Stops = dto.NewStopItems(vm.Rows(lang), lang)
	if len(stops) > 0 {
		resp.RouteID = stops[0].RouteID
		resp.Direction = stops[0].Direction
		resp.ServiceType = stops[0].ServiceType
	}

	return utils.SendSuccess(c, resp, &utils.Meta{
		Total:    len(resp.Stops),
		Fallback: source == usecase.SourceFallback,
		Empty:    vm.EmptyState(lang),
	})
}

// RouteEta godoc
// @Summary ETA по всем остановкам маршрута
// @Tags Routes
// @Produce json
// @Param route_id path string true "Номер маршрута"
// @Param lang query string false "Язык (tc, en)" default(tc)
// @Success 200 {object} utils.SuccessResponse{data=dto.EtaListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/routes/{route_id}/eta [get]
func (h *RouteHandler) RouteEta(c *fiber.Ctx) error {
	entries, err := h.gateway.FetchEtaForRoute(c.Context(), c.Params("route_id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	items := dto.NewEtaItems(entries, language(c))
	return utils.SendSuccess(c, dto.EtaListResponse{Etas: items}, &utils.Meta{Total: len(items)})
}
