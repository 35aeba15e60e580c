package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is a graded set of questions referenced by quiz-type content.
type Quiz struct {
	gorm.Model
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	Title       string     `json:"title"`
	MaxAttempts int        `json:"max_attempts" gorm:"not null;default:1" validate:"gte=1"`
	TimeLimit   *int       `json:"time_limit" validate:"omitempty,gte=1"` // minutes
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID" validate:"dive"`
}

// Question is a single-answer multiple choice question.
type Question struct {
	gorm.Model
	QuizID        uint                        `json:"quiz_id" gorm:"index;not null"`
	Text          string                      `json:"text" validate:"required"`
	Options       datatypes.JSONSlice[string] `json:"options" validate:"min=2"`
	CorrectOption int                         `json:"correct_option" validate:"gte=0"`
	Points        int                         `json:"points" gorm:"not null;default:1" validate:"gte=1"`
	OrderIndex    int                         `json:"order_index" gorm:"default:0"`
}

// Answers maps question id to the chosen option index.
type Answers map[uint]int

// QuizAttempt is created incomplete on start and finalized exactly once.
type QuizAttempt struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	UserID      uint                        `json:"user_id" gorm:"not null;index:idx_quiz_attempt_user_quiz,priority:1"`
	QuizID      uint                        `json:"quiz_id" gorm:"not null;index:idx_quiz_attempt_user_quiz,priority:2"`
	Answers     datatypes.JSONType[Answers] `json:"answers"`
	Score       int                         `json:"score"`
	MaxScore    int                         `json:"max_score"`
	Completed   bool                        `json:"completed" gorm:"not null;default:false;index"`
	StartedAt   time.Time                   `json:"started_at" gorm:"not null"`
	CompletedAt *time.Time                  `json:"completed_at"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// Deadline is nil for untimed quizzes.
func (a QuizAttempt) Deadline(timeLimit *int) *time.Time {
	if timeLimit == nil || *timeLimit <= 0 {
		return nil
	}
	d := a.StartedAt.Add(time.Duration(*timeLimit) * time.Minute)
	return &d
}
