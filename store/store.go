// Package store implements the progression store over gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lms/errs"
	"lms/logger"
	"lms/models/course"
	"lms/progression"
)

var _ progression.Store = (*Store)(nil)

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(db *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{db: db, log: baseLog.With("repo", "ProgressionStore")}
}

// Models lists every table the store reads or writes, in migration order.
func Models() []interface{} {
	return []interface{}{
		&course.Course{},
		&course.CourseSection{},
		&course.SectionContent{},
		&course.ContentCompletion{},
		&course.Quiz{},
		&course.Question{},
		&course.QuizAttempt{},
		&course.CourseCompletion{},
		&course.Certificate{},
	}
}

// Transaction runs fn against a store bound to a single database transaction.
// Errors returned by fn pass through unchanged and roll the transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx progression.Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&Store{db: tx, log: s.log})
		return fnErr
	})
	if err != nil && fnErr == nil {
		return wrap("transaction", err)
	}
	return err
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return errs.Store(op, err)
}
