package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/castboard/castboard/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks data against its validate tags.
// Failures are returned as an apperr.Validation error listing each field.
func Validate(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return apperr.NewInternal(err)
	}

	fields := make([]apperr.FieldError, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, apperr.FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Value: fe.Value(),
		})
	}

	return apperr.NewValidation("invalid request", fields...)
}

// Bind parses the request body into out and validates it.
func Bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) > 0 || c.Get(fiber.HeaderContentType) != "" {
		if err := c.BodyParser(out); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return apperr.Wrap(apperr.Validation, err, "invalid request body")
		}
	}

	return Validate(out)
}

// Message is the body of responses that carry no document.
type Message struct {
	Message string `json:"message"`
}
