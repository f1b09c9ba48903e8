package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/domain"
	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/pkg/utils"
	"github.com/bus-eta-service/internal/pkg/validator"
	"github.com/bus-eta-service/internal/usecase"
	"github.com/bus-eta-service/internal/usecase/dto"
)

// StopHandler - детали остановки и ETA на остановке
type StopHandler struct {
	gateway *usecase.TransitGateway
	logger  *zap.Logger
}

func NewStopHandler(gateway *usecase.TransitGateway, logger *zap.Logger) *StopHandler {
	return &StopHandler{
		gateway: gateway,
		logger:  logger,
	}
}

// GetStop godoc
// @Summary Детали остановки
// @Tags Stops
// @Produce json
// @Param stop_id path string true "ID остановки"
// @Param lang query string false "Язык (tc, en)" default(tc)
// @Success 200 {object} utils.SuccessResponse{data=dto.StopResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/stops/{stop_id} [get]
func (h *StopHandler) GetStop(c *fiber.Ctx) error {
	stop, err := h.gateway.FetchStop(c.Context(), c.Params("stop_id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.NewStopResponse(stop, language(c)), nil)
}

// StopEta godoc
// @Summary ETA на остановке
// @Description С route_id - прибытия одного маршрута, без него - всех маршрутов остановки.
// @Tags Stops
// @Produce json
// @Param stop_id path string true "ID остановки"
// @Param route_id query string false "Номер маршрута"
// @Param service_type query string false "Тип сервиса" default(1)
// @Param lang query string false "Язык (tc, en)" default(tc)
// @Success 200 {object} utils.SuccessResponse{data=dto.EtaListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/stops/{stop_id}/eta [get]
func (h *StopHandler) StopEta(c *fiber.Ctx) error {
	var q dto.StopEtaQuery
	if err := c.QueryParser(&q); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}
	if err := validator.Validate(&q); err != nil {
		return utils.SendError(c, err)
	}

	stopID := c.Params("stop_id")
	var (
		entries []domain.EtaEntry
		err     error
	)
	if q.RouteID == "" {
		entries, err = h.gateway.FetchEtaForStopAllRoutes(c.Context(), stopID)
	} else {
		entries, err = h.gateway.FetchEtaForStop(c.Context(), stopID, q.RouteID, q.ServiceType)
	}
	if err != nil {
		return utils.SendError(c, err)
	}

	items := dto.NewEtaItems(entries, language(c))
	return utils.SendSuccess(c, dto.EtaListResponse{Etas: items}, &utils.Meta{Total: len(items)})
}
