package course

import "time"

// CourseCompletion marks a course finished for a learner. Created at most once.
type CourseCompletion struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	UserID               uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_course_completion_user_course,priority:1"`
	CourseID             uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_course_completion_user_course,priority:2"`
	CompletionPercentage float64   `json:"completion_percentage" gorm:"not null;default:100"`
	CompletedAt          time.Time `json:"completed_at" gorm:"not null"`
}
