package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	SectionPublished = "PUBLISHED" // visible immediately
	SectionScheduled = "SCHEDULED" // visible once PublishAt is absent or reached
	SectionDraft     = "DRAFT"     // never visible to learners
)

// CourseSection groups ordered content inside a course.
type CourseSection struct {
	gorm.Model
	CourseID     uint       `json:"course_id" gorm:"index;not null"`
	Title        string     `json:"title"`
	OrderIndex   int        `json:"order_index" gorm:"default:0"`
	PublishState string     `json:"publish_state" gorm:"default:'PUBLISHED'"`
	PublishAt    *time.Time `json:"publish_at"`
}

// IsVisible reports whether learners can see the section at the given instant.
func (s CourseSection) IsVisible(at time.Time) bool {
	switch s.PublishState {
	case SectionPublished, "":
		return true
	case SectionScheduled:
		return s.PublishAt == nil || !s.PublishAt.After(at)
	default:
		return false
	}
}
