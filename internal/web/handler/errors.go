package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/castboard/castboard/internal/apperr"
	"github.com/castboard/castboard/internal/upload"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string              `json:"message"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
}

// ErrorHandler is the fiber error handler of the app.
// It is the only place where errors are turned into status codes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	ae := classify(err)

	if ae.Kind == apperr.Internal {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("request failed")
	}

	return c.Status(ae.Kind.Status()).JSON(ErrorResponse{
		Message: ae.Message,
		Fields:  ae.Fields,
	})
}

func classify(err error) *apperr.Error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.Internal {
			return apperr.NewInternal(err)
		}

		return ae
	}

	if ue, ok := upload.AsError(err); ok {
		switch ue.Reason {
		case upload.ReasonSize:
			return apperr.Wrap(apperr.TooLarge, err, ue.Error())
		case upload.ReasonStore:
			return apperr.NewInternal(err)
		default:
			return apperr.Wrap(apperr.Validation, err, ue.Error())
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fiberKind(fe)
	}

	return apperr.NewInternal(err)
}

func fiberKind(fe *fiber.Error) *apperr.Error {
	switch fe.Code {
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return apperr.Wrap(apperr.NotFound, fe, fe.Message)
	case fiber.StatusRequestEntityTooLarge:
		return apperr.Wrap(apperr.TooLarge, fe, fe.Message)
	case fiber.StatusUnauthorized:
		return apperr.Wrap(apperr.Unauthenticated, fe, fe.Message)
	case fiber.StatusForbidden:
		return apperr.Wrap(apperr.Forbidden, fe, fe.Message)
	case fiber.StatusConflict:
		return apperr.Wrap(apperr.Conflict, fe, fe.Message)
	default:
		if fe.Code >= fiber.StatusBadRequest && fe.Code < fiber.StatusInternalServerError {
			return apperr.Wrap(apperr.Validation, fe, fe.Message)
		}

		return apperr.NewInternal(fe)
	}
}
