package certificate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Data is everything a rendered certificate shows.
type Data struct {
	LearnerName       string    `json:"learner_name"`
	CourseTitle       string    `json:"course_title"`
	IssuedAt          time.Time `json:"issued_at"`
	CertificateNumber string    `json:"certificate_number"`
	TemplateKey       string    `json:"template_key,omitempty"`
	Layout            *Layout   `json:"layout,omitempty"`
}

// Document is a rendered certificate.
type Document struct {
	Body        []byte
	ContentType string
	Extension   string
}

// Renderer turns certificate data into a downloadable document.
type Renderer interface {
	Render(ctx context.Context, data Data) (*Document, error)
}

// NewNumber builds a human-readable certificate number: CERT-<course>-<user>-<8 hex>.
func NewNumber(courseID, userID uint) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CERT-%d-%d-%s", courseID, userID, suffix)
}
