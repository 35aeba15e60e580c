package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lms/progression"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse maps engine errors to HTTP. data is returned alongside benign and
// partial outcomes.
func ErrorResponse(c *fiber.Ctx, err error, data interface{}) error {
	var partial *progression.PartialWriteError
	if errors.As(err, &partial) {
		return JsonResponse(c, fiber.StatusMultiStatus, false, "Completed with errors: "+partial.Err.Error(), fiber.Map{
			"applied": partial.Applied,
			"result":  data,
		})
	}
	var blocked *progression.CompletionBlockedError
	if errors.As(err, &blocked) {
		return JsonResponse(c, fiber.StatusForbidden, false, blocked.Reason, fiber.Map{"reason": blocked.Reason})
	}

	switch {
	case errors.Is(err, progression.ErrAlreadyCompleted):
		return JsonResponse(c, fiber.StatusOK, true, "Already completed!", data)
	case errors.Is(err, progression.ErrAttemptsExhausted):
		return JsonResponse(c, fiber.StatusConflict, false, "No attempts remaining for this quiz!", nil)
	case errors.Is(err, progression.ErrNotEligible):
		return JsonResponse(c, fiber.StatusConflict, false, "Complete all published content before finishing the course!", nil)
	case errors.Is(err, progression.ErrNoActiveAttempt):
		return JsonResponse(c, fiber.StatusConflict, false, "No quiz attempt in progress!", nil)
	case errors.Is(err, progression.ErrAttemptFinalized):
		return JsonResponse(c, fiber.StatusConflict, false, "Quiz attempt already submitted!", nil)
	case errors.Is(err, progression.ErrInvalidAnswer):
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, progression.ErrNotQuiz):
		return JsonResponse(c, fiber.StatusBadRequest, false, "Content is not a quiz!", nil)
	case errors.Is(err, progression.ErrContentUnavailable):
		return JsonResponse(c, fiber.StatusForbidden, false, progression.ReasonNotAvailable, nil)
	case errors.Is(err, progression.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, progression.ErrStoreUnavailable):
		return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Service temporarily unavailable, please retry.", fiber.Map{"retryable": true})
	default:
		return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}
