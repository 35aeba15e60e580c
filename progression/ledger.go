package progression

import (
	"context"
	"errors"
	"time"

	"lms/errs"
	"lms/logger"
	"lms/models/course"
)

// Ledger records which (learner, content) pairs are done. Entries are never
// updated or removed.
type Ledger struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

func NewLedger(store Store, baseLog *logger.Logger, now func() time.Time) *Ledger {
	return &Ledger{store: store, log: baseLog.With("component", "Ledger"), now: now}
}

// Record creates the completion for (userID, contentID). When one already exists it
// is returned together with ErrAlreadyCompleted.
func (l *Ledger) Record(ctx context.Context, userID, courseID, contentID uint) (*course.ContentCompletion, error) {
	existing, err := l.store.FindContentCompletion(ctx, userID, contentID)
	if err == nil {
		return existing, ErrAlreadyCompleted
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	row := &course.ContentCompletion{
		UserID:      userID,
		CourseID:    courseID,
		ContentID:   contentID,
		CompletedAt: l.now(),
	}
	saved, created, err := l.store.InsertContentCompletion(ctx, row)
	if err != nil {
		return nil, err
	}
	if !created {
		// lost a race with a concurrent request for the same pair
		return saved, ErrAlreadyCompleted
	}
	l.log.Debug("content completed", "user_id", userID, "content_id", contentID)
	return saved, nil
}

func (l *Ledger) IsCompleted(ctx context.Context, userID, contentID uint) (bool, error) {
	_, err := l.store.FindContentCompletion(ctx, userID, contentID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// CompletedSet returns the subset of contentIDs the learner has completed.
func (l *Ledger) CompletedSet(ctx context.Context, userID uint, contentIDs []uint) (map[uint]bool, error) {
	done := make(map[uint]bool)
	if len(contentIDs) == 0 {
		return done, nil
	}
	rows, err := l.store.ListContentCompletions(ctx, userID, contentIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		done[r.ContentID] = true
	}
	return done, nil
}
