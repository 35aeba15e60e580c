package store

import (
	"context"
	"time"

	"lms/models/course"
)

func (s *Store) GetAttempt(ctx context.Context, attemptID uint) (*course.QuizAttempt, error) {
	var a course.QuizAttempt
	if err := s.conn(ctx).First(&a, attemptID).Error; err != nil {
		return nil, wrap("get attempt", err)
	}
	return &a, nil
}

// FindOpenAttempt returns the oldest incomplete attempt for the pair.
func (s *Store) FindOpenAttempt(ctx context.Context, userID, quizID uint) (*course.QuizAttempt, error) {
	var a course.QuizAttempt
	if err := s.conn(ctx).
		Where("user_id = ? AND quiz_id = ? AND completed = ?", userID, quizID, false).
		Order("started_at ASC, id ASC").
		Take(&a).Error; err != nil {
		return nil, wrap("find open attempt", err)
	}
	return &a, nil
}

func (s *Store) ListCompletedAttempts(ctx context.Context, userID, quizID uint) ([]course.QuizAttempt, error) {
	var rows []course.QuizAttempt
	if err := s.conn(ctx).
		Where("user_id = ? AND quiz_id = ? AND completed = ?", userID, quizID, true).
		Order("completed_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, wrap("list completed attempts", err)
	}
	return rows, nil
}

func (s *Store) ListOpenAttempts(ctx context.Context, startedBefore time.Time) ([]course.QuizAttempt, error) {
	var rows []course.QuizAttempt
	if err := s.conn(ctx).
		Where("completed = ? AND started_at < ?", false, startedBefore).
		Order("started_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, wrap("list open attempts", err)
	}
	return rows, nil
}

func (s *Store) CreateAttempt(ctx context.Context, a *course.QuizAttempt) error {
	if err := s.conn(ctx).Create(a).Error; err != nil {
		return wrap("create attempt", err)
	}
	return nil
}

// FinalizeAttempt only touches a row that is still incomplete, so of two racing
// submits exactly one reports true.
func (s *Store) FinalizeAttempt(ctx context.Context, a *course.QuizAttempt) (bool, error) {
	res := s.conn(ctx).
		Model(&course.QuizAttempt{}).
		Where("id = ? AND completed = ?", a.ID, false).
		Updates(map[string]interface{}{
			"answers":      a.Answers,
			"score":        a.Score,
			"max_score":    a.MaxScore,
			"completed":    true,
			"completed_at": a.CompletedAt,
		})
	if res.Error != nil {
		return false, wrap("finalize attempt", res.Error)
	}
	return res.RowsAffected == 1, nil
}
