package storetest

import (
	"encoding/json"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lms/models/course"
)

func SeedCourse(tb testing.TB, db *gorm.DB, title string, certificates bool) *course.Course {
	tb.Helper()
	c := &course.Course{Title: title, EnableCertificates: certificates}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

// SeedSection creates a section; state "" means published.
func SeedSection(tb testing.TB, db *gorm.DB, courseID uint, order int, state string, publishAt *time.Time) *course.CourseSection {
	tb.Helper()
	if state == "" {
		state = course.SectionPublished
	}
	s := &course.CourseSection{
		CourseID:     courseID,
		Title:        "Section",
		OrderIndex:   order,
		PublishState: state,
		PublishAt:    publishAt,
	}
	if err := db.Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedContent(tb testing.TB, db *gorm.DB, sectionID uint, order int, contentType string, published bool) *course.SectionContent {
	tb.Helper()
	c := &course.SectionContent{
		SectionID:   sectionID,
		Title:       contentType,
		OrderIndex:  order,
		ContentType: contentType,
		IsPublished: published,
		Payload:     datatypes.JSON([]byte("{}")),
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}

// SeedQuiz creates a quiz with one question per entry in points. Every question
// has options a, b, c and correct option 0.
func SeedQuiz(tb testing.TB, db *gorm.DB, courseID uint, maxAttempts int, timeLimit *int, points ...int) *course.Quiz {
	tb.Helper()
	q := &course.Quiz{CourseID: courseID, Title: "Quiz", MaxAttempts: maxAttempts, TimeLimit: timeLimit}
	for i, p := range points {
		q.Questions = append(q.Questions, course.Question{
			Text:          "Question",
			Options:       datatypes.JSONSlice[string]{"a", "b", "c"},
			CorrectOption: 0,
			Points:        p,
			OrderIndex:    i,
		})
	}
	if err := db.Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

// SeedQuizContent creates a quiz content item pointing at quizID.
func SeedQuizContent(tb testing.TB, db *gorm.DB, sectionID uint, order int, quizID uint, passingScore *int) *course.SectionContent {
	tb.Helper()
	payload, err := json.Marshal(course.QuizPayload{QuizID: quizID, PassingScore: passingScore})
	if err != nil {
		tb.Fatalf("seed quiz content: %v", err)
	}
	c := &course.SectionContent{
		SectionID:   sectionID,
		Title:       "Quiz",
		OrderIndex:  order,
		ContentType: course.ContentQuiz,
		IsPublished: true,
		Payload:     datatypes.JSON(payload),
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed quiz content: %v", err)
	}
	return c
}

func IntPtr(v int) *int { return &v }

func TimePtr(t time.Time) *time.Time { return &t }
