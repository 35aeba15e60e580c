package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// GetCourseOutline returns visible sections with completion flags and where to resume
func GetCourseOutline(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)
	lastViewed, _ := c.Locals("lastViewed").(*uint)

	outline, err := deps.Engine.GetCourseOutline(c.UserContext(), who.UserID, courseID, lastViewed)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course outline fetched successfully!", outline)
}

func GetCourseProgress(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	progress, err := deps.Engine.GetProgress(c.UserContext(), who.UserID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}

func CanCompleteContent(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	contentID := c.Locals("contentID").(uint)

	elig, err := deps.Engine.CanCompleteContent(c.UserContext(), who, contentID)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility fetched successfully!", elig)
}

// MarkContentComplete records the caller's completion of a content item
func MarkContentComplete(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	contentID := c.Locals("contentID").(uint)

	outcome, err := deps.Engine.RecordCompletion(c.UserContext(), who, contentID)
	if err != nil {
		return middleware.ErrorResponse(c, err, outcome)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content marked as completed!", outcome)
}
