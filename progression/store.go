package progression

import (
	"context"
	"time"

	"lms/models/course"
)

// Store is the structured record store the engine runs against. Lookups of a single
// record return errs.ErrNotFound when absent. Insert* methods insert the record unless
// one with the same identity exists, in which case the existing row is returned with
// created=false.
type Store interface {
	GetCourse(ctx context.Context, courseID uint) (*course.Course, error)
	ListSections(ctx context.Context, courseID uint) ([]course.CourseSection, error)
	ListContents(ctx context.Context, sectionIDs []uint) ([]course.SectionContent, error)
	GetSection(ctx context.Context, sectionID uint) (*course.CourseSection, error)
	GetContent(ctx context.Context, contentID uint) (*course.SectionContent, error)
	GetQuiz(ctx context.Context, quizID uint) (*course.Quiz, error)

	FindContentCompletion(ctx context.Context, userID, contentID uint) (*course.ContentCompletion, error)
	ListContentCompletions(ctx context.Context, userID uint, contentIDs []uint) ([]course.ContentCompletion, error)
	InsertContentCompletion(ctx context.Context, c *course.ContentCompletion) (*course.ContentCompletion, bool, error)

	GetAttempt(ctx context.Context, attemptID uint) (*course.QuizAttempt, error)
	FindOpenAttempt(ctx context.Context, userID, quizID uint) (*course.QuizAttempt, error)
	ListCompletedAttempts(ctx context.Context, userID, quizID uint) ([]course.QuizAttempt, error)
	ListOpenAttempts(ctx context.Context, startedBefore time.Time) ([]course.QuizAttempt, error)
	CreateAttempt(ctx context.Context, a *course.QuizAttempt) error
	// FinalizeAttempt writes score, answers and completion only if the row is still
	// incomplete. It reports whether this call performed the transition.
	FinalizeAttempt(ctx context.Context, a *course.QuizAttempt) (bool, error)

	FindCourseCompletion(ctx context.Context, userID, courseID uint) (*course.CourseCompletion, error)
	InsertCourseCompletion(ctx context.Context, c *course.CourseCompletion) (*course.CourseCompletion, bool, error)

	FindCertificate(ctx context.Context, userID, courseID uint) (*course.Certificate, error)
	// InsertCertificate returns errs.ErrDuplicate when the certificate number collides.
	InsertCertificate(ctx context.Context, c *course.Certificate) (*course.Certificate, bool, error)
	SetCertificateDocument(ctx context.Context, certificateID uint, key string) error

	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// ProgressCache keeps the last computed progress so read views survive store outages.
type ProgressCache interface {
	Get(ctx context.Context, userID, courseID uint) (*Progress, error)
	Set(ctx context.Context, userID uint, p Progress) error
	Delete(ctx context.Context, userID, courseID uint) error
}
