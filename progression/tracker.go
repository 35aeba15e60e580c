package progression

import (
	"context"
	"errors"
	"time"

	"lms/errs"
	"lms/logger"
	"lms/models/course"
)

// AfterFunc schedules f after d and returns a stop function, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	t := time.AfterFunc(d, f)
	return t.Stop
}

// Tracker manages quiz attempts: the attempt cap, the single outstanding
// incomplete attempt per (learner, quiz), scoring and summaries.
type Tracker struct {
	store     Store
	log       *logger.Logger
	now       func() time.Time
	afterFunc AfterFunc
}

func NewTracker(store Store, baseLog *logger.Logger, now func() time.Time, afterFunc AfterFunc) *Tracker {
	if afterFunc == nil {
		afterFunc = realAfterFunc
	}
	return &Tracker{
		store:     store,
		log:       baseLog.With("component", "Tracker"),
		now:       now,
		afterFunc: afterFunc,
	}
}

// Start opens an attempt session. An outstanding incomplete attempt is resumed
// rather than duplicated; one whose time limit already ran out is finalized first.
func (t *Tracker) Start(ctx context.Context, userID uint, quiz *course.Quiz) (*AttemptSession, error) {
	open, err := t.store.FindOpenAttempt(ctx, userID, quiz.ID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if open != nil {
		if d := open.Deadline(quiz.TimeLimit); d != nil && !d.After(t.now()) {
			expired := newAttemptSession(t, quiz, *open)
			if _, err := expired.Submit(ctx); err != nil {
				return nil, err
			}
			t.log.Info("finalized expired attempt on start", "user_id", userID, "quiz_id", quiz.ID, "attempt_id", open.ID)
			open = nil
		}
	}

	completed, err := t.store.ListCompletedAttempts(ctx, userID, quiz.ID)
	if err != nil {
		return nil, err
	}
	if open == nil && len(completed) >= quiz.MaxAttempts {
		return nil, ErrAttemptsExhausted
	}

	if open == nil {
		open = &course.QuizAttempt{
			UserID:    userID,
			QuizID:    quiz.ID,
			Answers:   datatypesAnswers(course.Answers{}),
			StartedAt: t.now(),
		}
		if err := t.store.CreateAttempt(ctx, open); err != nil {
			return nil, err
		}
		t.log.Debug("quiz attempt started", "user_id", userID, "quiz_id", quiz.ID, "attempt_id", open.ID)
	}

	session := newAttemptSession(t, quiz, *open)
	session.startTimer(t.now())
	return session, nil
}

// SubmitDetached submits answers for a learner who holds no live session. The
// outstanding incomplete attempt is finalized in place if there is one; otherwise
// a completed attempt is inserted directly.
func (t *Tracker) SubmitDetached(ctx context.Context, userID uint, quiz *course.Quiz, answers course.Answers) (*course.QuizAttempt, error) {
	row := course.QuizAttempt{UserID: userID, QuizID: quiz.ID, StartedAt: t.now()}
	open, err := t.store.FindOpenAttempt(ctx, userID, quiz.ID)
	switch {
	case err == nil:
		row = *open
	case !errors.Is(err, errs.ErrNotFound):
		return nil, err
	}
	session := newAttemptSession(t, quiz, row)
	for qid, opt := range answers {
		if err := session.SelectAnswer(qid, opt); err != nil {
			return nil, err
		}
	}
	return session.Submit(ctx)
}

// finalize performs the guarded transition for a scored row. A row already
// completed by a concurrent submit is returned unchanged.
func (t *Tracker) finalize(ctx context.Context, quiz *course.Quiz, row *course.QuizAttempt) (*course.QuizAttempt, error) {
	now := t.now()
	row.Completed = true
	row.CompletedAt = &now

	if row.ID == 0 {
		if open, err := t.store.FindOpenAttempt(ctx, row.UserID, row.QuizID); err == nil {
			row.ID = open.ID
			row.StartedAt = open.StartedAt
		} else if !errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
	}

	if row.ID != 0 {
		ok, err := t.store.FinalizeAttempt(ctx, row)
		if err != nil {
			return nil, err
		}
		if ok {
			return row, nil
		}
		existing, err := t.store.GetAttempt(ctx, row.ID)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.Completed {
			return existing, nil
		}
		// the incomplete row vanished; fall through and insert a completed one
		row.ID = 0
	}

	completed, err := t.store.ListCompletedAttempts(ctx, row.UserID, row.QuizID)
	if err != nil {
		return nil, err
	}
	if len(completed) >= quiz.MaxAttempts {
		return nil, ErrAttemptsExhausted
	}
	if err := t.store.CreateAttempt(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Summarize computes the learner's standing on a quiz.
func (t *Tracker) Summarize(ctx context.Context, userID uint, quiz *course.Quiz, passingScore int) (QuizSummary, error) {
	attempts, err := t.store.ListCompletedAttempts(ctx, userID, quiz.ID)
	if err != nil {
		return QuizSummary{}, err
	}
	return Summarize(quiz, attempts, passingScore), nil
}
