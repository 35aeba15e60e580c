package course

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateQuiz checks authoring invariants: at least one allowed attempt, at least two
// options per question, positive points and an in-range correct option.
func ValidateQuiz(q *Quiz) error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid quiz: %w", err)
	}
	for _, question := range q.Questions {
		if question.CorrectOption >= len(question.Options) {
			return fmt.Errorf("invalid quiz: question %q correct option %d out of range", question.Text, question.CorrectOption)
		}
	}
	return nil
}

// ValidateContent checks the content type and, for quizzes, the payload.
func ValidateContent(c *SectionContent) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid content: %w", err)
	}
	if c.IsQuiz() {
		p, err := c.QuizPayload()
		if err != nil {
			return err
		}
		if p.PassingScore != nil && (*p.PassingScore < 0 || *p.PassingScore > 100) {
			return fmt.Errorf("invalid content: passing score %d out of range", *p.PassingScore)
		}
	}
	return nil
}
