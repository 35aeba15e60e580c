package courseValidator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/models/course"
)

var validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type AnswerRequest struct {
	QuestionID  uint `json:"question_id" validate:"required"`
	OptionIndex *int `json:"option_index" validate:"required,gte=0"`
}

type SubmitRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"omitempty,dive"`
}

// Map flattens the request; a later entry for the same question wins.
func (r SubmitRequest) Map() course.Answers {
	out := make(course.Answers, len(r.Answers))
	for _, a := range r.Answers {
		out[a.QuestionID] = *a.OptionIndex
	}
	return out
}

func AnswerQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AnswerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := validationErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}

// SubmitQuiz accepts an empty body.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if errs := validationErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedSubmit", reqData)
		return c.Next()
	}
}

func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	if err == nil {
		return errors
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = err.Error()
		return errors
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			errors[fe.Field()] = fe.Field() + " is required!"
		case "gte":
			errors[fe.Field()] = fe.Field() + " must be at least " + fe.Param() + "!"
		default:
			errors[fe.Field()] = fe.Field() + " is invalid!"
		}
	}
	return errors
}
