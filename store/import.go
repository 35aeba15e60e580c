package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lms/models/course"
)

// CourseDefinition is the JSON document accepted by ImportCourse.
type CourseDefinition struct {
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	EnableCertificates bool                `json:"enable_certificates"`
	Sections           []SectionDefinition `json:"sections"`
}

type SectionDefinition struct {
	Title        string              `json:"title"`
	PublishState string              `json:"publish_state"`
	PublishAt    *time.Time          `json:"publish_at"`
	Contents     []ContentDefinition `json:"contents"`
}

type ContentDefinition struct {
	Title       string          `json:"title"`
	ContentType string          `json:"content_type"`
	IsPublished bool            `json:"is_published"`
	Payload     json.RawMessage `json:"payload"`
	Quiz        *QuizDefinition `json:"quiz"`
}

type QuizDefinition struct {
	Title        string               `json:"title"`
	MaxAttempts  int                  `json:"max_attempts"`
	TimeLimit    *int                 `json:"time_limit"`
	PassingScore *int                 `json:"passing_score"`
	Questions    []QuestionDefinition `json:"questions"`
}

type QuestionDefinition struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Points        int      `json:"points"`
}

// ImportCourse creates a course with its sections, content and quizzes in one
// transaction. Order indexes follow document order.
func (s *Store) ImportCourse(ctx context.Context, def CourseDefinition) (*course.Course, error) {
	crs := &course.Course{
		Title:              def.Title,
		Description:        def.Description,
		EnableCertificates: def.EnableCertificates,
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(crs).Error; err != nil {
			return err
		}
		for si, sd := range def.Sections {
			sec := &course.CourseSection{
				CourseID:     crs.ID,
				Title:        sd.Title,
				OrderIndex:   si,
				PublishState: sd.PublishState,
				PublishAt:    sd.PublishAt,
			}
			if sec.PublishState == "" {
				sec.PublishState = course.SectionPublished
			}
			if err := tx.Create(sec).Error; err != nil {
				return err
			}
			for ci, cd := range sd.Contents {
				content, err := importContent(tx, crs.ID, sec.ID, ci, cd)
				if err != nil {
					return fmt.Errorf("section %q item %d: %w", sd.Title, ci, err)
				}
				if err := tx.Create(content).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import course %q: %w", def.Title, err)
	}
	s.log.Info("course imported", "course_id", crs.ID, "sections", len(def.Sections))
	return crs, nil
}

func importContent(tx *gorm.DB, courseID, sectionID uint, order int, cd ContentDefinition) (*course.SectionContent, error) {
	content := &course.SectionContent{
		SectionID:   sectionID,
		Title:       cd.Title,
		OrderIndex:  order,
		ContentType: cd.ContentType,
		IsPublished: cd.IsPublished,
		Payload:     datatypes.JSON(cd.Payload),
	}
	if len(content.Payload) == 0 {
		content.Payload = datatypes.JSON("{}")
	}

	if cd.ContentType == course.ContentQuiz {
		if cd.Quiz == nil {
			return nil, fmt.Errorf("quiz content without a quiz")
		}
		quiz := &course.Quiz{
			CourseID:    courseID,
			Title:       cd.Quiz.Title,
			MaxAttempts: cd.Quiz.MaxAttempts,
			TimeLimit:   cd.Quiz.TimeLimit,
		}
		if quiz.MaxAttempts == 0 {
			quiz.MaxAttempts = 1
		}
		for qi, qd := range cd.Quiz.Questions {
			points := qd.Points
			if points == 0 {
				points = 1
			}
			quiz.Questions = append(quiz.Questions, course.Question{
				Text:          qd.Text,
				Options:       datatypes.JSONSlice[string](qd.Options),
				CorrectOption: qd.CorrectOption,
				Points:        points,
				OrderIndex:    qi,
			})
		}
		if err := course.ValidateQuiz(quiz); err != nil {
			return nil, err
		}
		if err := tx.Create(quiz).Error; err != nil {
			return nil, err
		}
		payload, err := json.Marshal(course.QuizPayload{QuizID: quiz.ID, PassingScore: cd.Quiz.PassingScore})
		if err != nil {
			return nil, err
		}
		content.Payload = datatypes.JSON(payload)
	}

	if err := course.ValidateContent(content); err != nil {
		return nil, err
	}
	return content, nil
}
