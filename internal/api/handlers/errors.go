package handlers

import (
	"FreshTrack/domain"
	"FreshTrack/internal/api/presenters"
	"FreshTrack/internal/utils"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// retryAfterSeconds is advertised on 503 responses.
const retryAfterSeconds = "5"

func errorStatus(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrFoodItemNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedAccess), errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrTransientUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrStorageNotConfigured), errors.Is(err, domain.ErrMailerNotConfigured):
		return fiber.StatusNotImplemented
	case errors.As(err, &validationErrs),
		errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidPage),
		errors.Is(err, domain.ErrInvalidExpiryFilter),
		errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEmptyNote),
		errors.Is(err, domain.ErrInvalidImageFormat),
		errors.Is(err, domain.ErrInvalidAuthType),
		errors.Is(err, domain.ErrMissingRecipient),
		errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func failed(c *fiber.Ctx, message string, err error) error {
	code := errorStatus(err)
	if code == fiber.StatusServiceUnavailable {
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
	}
	return presenters.ErrorResponse(c, code, message, err)
}

func validationFailed(c *fiber.Ctx, message string, err error) error {
	return presenters.ErrorResponse(c, fiber.StatusBadRequest, message+": "+utils.ValidationMessage(err), err)
}
