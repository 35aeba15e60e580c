package course

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ContentVideo = "video"
	ContentImage = "image"
	ContentText  = "text"
	ContentQuiz  = "quiz"
	ContentFile  = "file"
)

// DefaultPassingScore applies when a quiz item carries no override.
const DefaultPassingScore = 70

// SectionContent is a single learnable item. Payload is opaque except for quiz items.
type SectionContent struct {
	gorm.Model
	SectionID   uint           `json:"section_id" gorm:"index;not null"`
	Title       string         `json:"title"`
	OrderIndex  int            `json:"order_index" gorm:"default:0"`
	ContentType string         `json:"content_type" gorm:"not null" validate:"oneof=video image text quiz file"`
	IsPublished bool           `json:"is_published" gorm:"default:false"`
	Payload     datatypes.JSON `json:"payload"`
}

// QuizPayload is the payload shape of quiz-type content.
type QuizPayload struct {
	QuizID       uint `json:"quiz_id"`
	PassingScore *int `json:"passing_score,omitempty"`
}

func (c SectionContent) IsQuiz() bool { return c.ContentType == ContentQuiz }

// QuizPayload decodes the quiz reference carried by quiz-type content.
func (c SectionContent) QuizPayload() (QuizPayload, error) {
	var p QuizPayload
	if !c.IsQuiz() {
		return p, fmt.Errorf("content %d is %q, not a quiz", c.ID, c.ContentType)
	}
	if len(c.Payload) == 0 {
		return p, fmt.Errorf("content %d has no quiz payload", c.ID)
	}
	if err := json.Unmarshal(c.Payload, &p); err != nil {
		return p, fmt.Errorf("decode quiz payload for content %d: %w", c.ID, err)
	}
	if p.QuizID == 0 {
		return p, fmt.Errorf("content %d has no quiz reference", c.ID)
	}
	return p, nil
}

// EffectivePassingScore resolves the override, falling back to DefaultPassingScore.
// Zero means grading is disabled.
func (p QuizPayload) EffectivePassingScore() int {
	if p.PassingScore == nil {
		return DefaultPassingScore
	}
	return *p.PassingScore
}

// ContentCompletion is an append-only fact: at most one per (learner, content).
type ContentCompletion struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_content_completion_user_content,priority:1"`
	ContentID   uint      `json:"content_id" gorm:"not null;uniqueIndex:idx_content_completion_user_content,priority:2"`
	CourseID    uint      `json:"course_id" gorm:"index;not null"`
	CompletedAt time.Time `json:"completed_at" gorm:"not null"`
}
