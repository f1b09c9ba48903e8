package validator

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bus-eta-service/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// notblank: required пропускает строку из пробелов, а route id из пробелов невалиден
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// Validate - валидация структуры. Ошибки полей возвращаются как ErrInvalidRequest
// с details вида {"RouteID": "notblank"}.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.ErrInvalidRequest.Wrap(err)
	}

	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return errors.ErrInvalidRequest.WithDetails(details).Wrap(err)
}
