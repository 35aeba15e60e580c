package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"
)

// SetupCourseRoutes sets up the learner progression routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course", middleware.JWTMiddleware)

	courseGroup.Get("/:course_id/outline", validators.CourseParam(), validators.OutlineQuery(), controllers.GetCourseOutline)
	courseGroup.Get("/:course_id/progress", validators.CourseParam(), controllers.GetCourseProgress)
	courseGroup.Post("/:course_id/complete", validators.CourseParam(), controllers.CompleteCourse)
	courseGroup.Get("/:course_id/certificate", validators.CourseParam(), controllers.GetCertificate)

	contentGroup := app.Group("/content", middleware.JWTMiddleware)

	contentGroup.Get("/:content_id/can-complete", validators.ContentParam(), controllers.CanCompleteContent)
	contentGroup.Post("/:content_id/complete", validators.ContentParam(), controllers.MarkContentComplete)

	// Quiz attempts
	contentGroup.Post("/:content_id/quiz/start", validators.ContentParam(), controllers.StartQuizAttempt)
	contentGroup.Post("/:content_id/quiz/answer", validators.ContentParam(), validators.AnswerQuestion(), controllers.AnswerQuestion)
	contentGroup.Post("/:content_id/quiz/submit", validators.ContentParam(), validators.SubmitQuiz(), controllers.SubmitQuizAttempt)
	contentGroup.Get("/:content_id/quiz/summary", validators.ContentParam(), controllers.GetQuizSummary)
}
