package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

func parseID(c *fiber.Ctx, param string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(param))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func CourseParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func ContentParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentID, ok := parseID(c, "content_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Content ID!", nil)
		}
		c.Locals("contentID", contentID)
		return c.Next()
	}
}

// StudentCourseParams validates the admin view of one learner in one course.
func StudentCourseParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)
		userID, ok := parseID(c, "user_id")
		if !ok {
			errors["user_id"] = "Invalid User ID!"
		}
		courseID, ok := parseID(c, "course_id")
		if !ok {
			errors["course_id"] = "Invalid Course ID!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("studentID", userID)
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// OutlineQuery reads the optional last_viewed hint.
func OutlineQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			LastViewed *uint `query:"last_viewed"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		c.Locals("lastViewed", reqData.LastViewed)
		return c.Next()
	}
}

func PageQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  int `query:"page"`
			Limit int `query:"limit"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if reqData.Page < 1 {
			reqData.Page = 1
		}
		if reqData.Limit < 1 || reqData.Limit > 100 {
			reqData.Limit = 20
		}
		c.Locals("page", reqData.Page)
		c.Locals("limit", reqData.Limit)
		return c.Next()
	}
}
