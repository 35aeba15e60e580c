package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models/course"
	"lms/progression"
)

type certificateResponse struct {
	*course.Certificate
	DocumentURL string `json:"document_url,omitempty"`
}

func certificateView(cert *course.Certificate) *certificateResponse {
	if cert == nil {
		return nil
	}
	out := &certificateResponse{Certificate: cert}
	if cert.HasDocument() && deps.Assets != nil {
		out.DocumentURL = deps.Assets.URL(cert.DocumentKey)
	}
	return out
}

type courseCompletionResponse struct {
	Completion        *course.CourseCompletion `json:"completion"`
	Certificate       *certificateResponse     `json:"certificate,omitempty"`
	Created           bool                     `json:"created"`
	CertificateIssued bool                     `json:"certificate_issued"`
}

func completionView(out *progression.CourseOutcome) *courseCompletionResponse {
	if out == nil {
		return nil
	}
	return &courseCompletionResponse{
		Completion:        out.Completion,
		Certificate:       certificateView(out.Certificate),
		Created:           out.Created,
		CertificateIssued: out.CertificateIssued,
	}
}

// CompleteCourse finalizes the course and issues the certificate when enabled
func CompleteCourse(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	out, err := deps.Engine.CompleteCourse(c.UserContext(), who, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, completionView(out))
	}
	message := "Course completed!"
	if !out.Created {
		message = "Course already completed!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, completionView(out))
}

// GetCertificate answers 200 with null data when no certificate was issued
func GetCertificate(c *fiber.Ctx) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	cert, err := deps.Engine.GetCertificate(c.UserContext(), who.UserID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, nil)
	}
	if cert == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No certificate issued for this course.", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", certificateView(cert))
}
