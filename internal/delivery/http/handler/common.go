package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bus-eta-service/internal/domain"
)

// language - язык ответа: ?lang, затем Accept-Language
func language(c *fiber.Ctx) domain.Language {
	if lang := c.Query("lang"); lang != "" {
		return domain.ParseLanguage(lang)
	}
	return domain.ParseLanguage(c.AcceptsLanguages("tc", "en"))
}
