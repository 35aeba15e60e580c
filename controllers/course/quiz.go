package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	validators "lms/validators/course"
)

// StartQuizAttempt opens or resumes the caller's attempt
func StartQuizAttempt(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	contentID := c.Locals("contentID").(uint)

	session, err := deps.Engine.StartQuizAttempt(c.UserContext(), who, contentID)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempt started!", session.View())
}

func AnswerQuestion(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	contentID := c.Locals("contentID").(uint)
	req := c.Locals("validatedAnswer").(*validators.AnswerRequest)

	if err := deps.Engine.AnswerQuestion(c.UserContext(), who, contentID, req.QuestionID, *req.OptionIndex); err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer saved!", nil)
}

// SubmitQuizAttempt scores the attempt and returns the updated summary
func SubmitQuizAttempt(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	contentID := c.Locals("contentID").(uint)
	req := c.Locals("validatedSubmit").(*validators.SubmitRequest)

	outcome, err := deps.Engine.SubmitQuizAttempt(c.UserContext(), who, contentID, req.Map())
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", outcome)
}

func GetQuizSummary(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	contentID := c.Locals("contentID").(uint)

	summary, err := deps.Engine.GetQuizSummary(c.UserContext(), who, contentID)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz summary fetched successfully!", summary)
}
