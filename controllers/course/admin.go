package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/utils"
)

// AdminGetStudentProgress is a read-only view of another learner's progress
func AdminGetStudentProgress(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(uint)
	courseID := c.Locals("courseID").(uint)

	progress, err := deps.Engine.GetProgress(c.UserContext(), studentID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", progress)
}

func AdminGetStudentCertificate(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(uint)
	courseID := c.Locals("courseID").(uint)

	cert, err := deps.Engine.GetCertificate(c.UserContext(), studentID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	if cert == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No certificate issued for this course.", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", certificateView(cert))
}

// AdminRenderCertificate renders a document for an issued certificate that lacks one
func AdminRenderCertificate(c *fiber.Ctx) error {
	studentID := c.Locals("studentID").(uint)
	courseID := c.Locals("courseID").(uint)

	cert, err := deps.Engine.EnsureCertificateDocument(c.UserContext(), studentID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, certificateView(cert))
	}
	if cert == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not issued for this course!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate document ready!", certificateView(cert))
}

func AdminCourseStats(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	stats, err := deps.Store.CourseStats(c.UserContext(), courseID, time.Now())
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course stats fetched successfully!", stats)
}

func AdminListCertificates(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	page := c.Locals("page").(int)
	limit := c.Locals("limit").(int)

	certs, total, err := deps.Store.ListCertificates(c.UserContext(), courseID, limit, (page-1)*limit)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	items := make([]*certificateResponse, 0, len(certs))
	for i := range certs {
		items = append(items, certificateView(&certs[i]))
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": items,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// AdminUploadCertificateTemplate replaces the background image used for new certificates
func AdminUploadCertificateTemplate(c *fiber.Ctx) error {
	if deps.Assets == nil || deps.TemplateKey == "" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate templates are not configured!", nil)
	}
	file, err := c.FormFile("template")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"template": "Template image is required!"})
	}
	name := strings.ToLower(file.Filename)
	if !strings.HasSuffix(name, ".png") && !strings.HasSuffix(name, ".jpg") && !strings.HasSuffix(name, ".jpeg") {
		return middleware.ValidationErrorResponse(c, map[string]string{"template": "Template must be a PNG or JPEG image!"})
	}
	if err := utils.SaveUploadedAsset(c.UserContext(), deps.Assets, file, deps.TemplateKey); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store template!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate template updated!", fiber.Map{
		"key": deps.TemplateKey,
		"url": deps.Assets.URL(deps.TemplateKey),
	})
}
