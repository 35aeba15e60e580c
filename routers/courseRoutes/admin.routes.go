package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"
)

// SetupAdminCourseRoutes sets up the read-only admin views and certificate tooling
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.AdminOnly)

	adminGroup.Get("/:course_id/stats", validators.CourseParam(), controllers.AdminCourseStats)
	adminGroup.Get("/:course_id/certificates", validators.CourseParam(), validators.PageQuery(), controllers.AdminListCertificates)

	certGroup := app.Group("/admin/certificate", middleware.JWTMiddleware, middleware.AdminOnly)
	certGroup.Post("/template", controllers.AdminUploadCertificateTemplate)

	studentGroup := app.Group("/admin/student", middleware.JWTMiddleware, middleware.AdminOnly)
	studentGroup.Get("/:user_id/course/:course_id/progress", validators.StudentCourseParams(), controllers.AdminGetStudentProgress)
	studentGroup.Get("/:user_id/course/:course_id/certificate", validators.StudentCourseParams(), controllers.AdminGetStudentCertificate)
	studentGroup.Post("/:user_id/course/:course_id/certificate/render", validators.StudentCourseParams(), controllers.AdminRenderCertificate)
}
