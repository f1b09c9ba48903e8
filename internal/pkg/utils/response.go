package utils

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bus-eta-service/internal/pkg/errors"
)

// SuccessResponse - обёртка успешного ответа
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// Meta - сведения о списке. Fallback=true, если данные встроенные, а не из upstream;
// Empty - текст пустого состояния на языке запроса.
type Meta struct {
	Total    int    `json:"total"`
	Fallback bool   `json:"fallback,omitempty"`
	Empty    string `json:"empty_state,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

// SendError пишет AppError с его статусом. Ошибки fiber (404 маршрута, 405)
// сохраняют свой код; всё остальное становится 500 без подробностей.
func SendError(c *fiber.Ctx, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		appErr = errors.New("HTTP_ERROR", fiberErr.Message, fiberErr.Code)
		if fiberErr.Code == fiber.StatusNotFound {
			appErr = errors.ErrNotFound
		}
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
