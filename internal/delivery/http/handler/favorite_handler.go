package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bus-eta-service/internal/pkg/errors"
	"github.com/bus-eta-service/internal/pkg/utils"
	"github.com/bus-eta-service/internal/pkg/validator"
	"github.com/bus-eta-service/internal/usecase"
	"github.com/bus-eta-service/internal/usecase/dto"
)

// FavoriteHandler - избранные маршруты
type FavoriteHandler struct {
	store  *usecase.FavoriteStore
	logger *zap.Logger
}

func NewFavoriteHandler(store *usecase.FavoriteStore, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		store:  store,
		logger: logger,
	}
}

// List godoc
// @Summary Ключи избранных маршрутов
// @Tags Favorites
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.FavoriteListResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/favorites [get]
func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	keys, err := h.store.All(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	if keys == nil {
		keys = []string{}
	}
	return utils.SendSuccess(c, dto.FavoriteListResponse{Keys: keys}, &utils.Meta{Total: len(keys)})
}

// Add godoc
// @Summary Добавить маршрут в избранное
// @Tags Favorites
// @Accept json
// @Produce json
// @Param request body dto.FavoriteRequest true "Маршрут"
// @Success 200 {object} utils.SuccessResponse{data=dto.FavoriteChangeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/favorites [post]
func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	return h.change(c, func(ctx context.Context, key string) (bool, bool, error) {
		changed, err := h.store.Add(ctx, key)
		return true, changed, err
	})
}

// Remove godoc
// @Summary Удалить маршрут из избранного
// @Tags Favorites
// @Accept json
// @Produce json
// @Param request body dto.FavoriteRequest true "Маршрут"
// @Success 200 {object} utils.SuccessResponse{data=dto.FavoriteChangeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/favorites [delete]
func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	return h.change(c, func(ctx context.Context, key string) (bool, bool, error) {
		changed, err := h.store.Remove(ctx, key)
		return false, changed, err
	})
}

// Toggle godoc
// @Summary Переключить избранное
// @Tags Favorites
// @Accept json
// @Produce json
// @Param request body dto.FavoriteRequest true "Маршрут"
// @Success 200 {object} utils.SuccessResponse{data=dto.FavoriteChangeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/favorites/toggle [post]
func (h *FavoriteHandler) Toggle(c *fiber.Ctx) error {
	return h.change(c, func(ctx context.Context, key string) (bool, bool, error) {
		state, err := h.store.Toggle(ctx, key)
		return state, true, err
	})
}

func (h *FavoriteHandler) change(c *fiber.Ctx, apply func(ctx context.Context, key string) (bool, bool, error)) error {
	var req dto.FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	key, err := h.store.Key(req.RouteID, req.Direction, req.ServiceType)
	if err != nil {
		return utils.SendError(c, err)
	}

	state, changed, err := apply(c.Context(), key)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.FavoriteChangeResponse{
		Key:        key,
		IsFavorite: state,
		Changed:    changed,
	}, nil)
}
