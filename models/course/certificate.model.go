package course

import "time"

// Certificate is issued once per (learner, course) after the course is completed.
type Certificate struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificate_user_course,priority:1"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_user_course,priority:2"`
	CertificateNumber string    `json:"certificate_number" gorm:"not null;uniqueIndex"`
	LearnerName       string    `json:"learner_name"`
	IssuedAt          time.Time `json:"issued_at" gorm:"not null"`
	DocumentKey       string    `json:"document_key"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (c Certificate) HasDocument() bool { return c.DocumentKey != "" }
