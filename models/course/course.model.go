package course

import "gorm.io/gorm"

// Course is authored by an administrator and read-only to learners.
type Course struct {
	gorm.Model
	Title              string          `json:"title" gorm:"not null"`
	Description        string          `json:"description"`
	EnableCertificates bool            `json:"enable_certificates" gorm:"default:false"`
	Sections           []CourseSection `json:"sections,omitempty" gorm:"foreignKey:CourseID"`
}
