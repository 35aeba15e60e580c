package store

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"golang.org/x/sync/errgroup"

	"lms/models/course"
)

// QuizStats aggregates completed attempts for one quiz.
type QuizStats struct {
	QuizID              uint    `json:"quiz_id"`
	Title               string  `json:"title"`
	Attempts            int64   `json:"attempts"`
	Learners            int64   `json:"learners"`
	AverageScorePercent float64 `json:"average_score_percent"`
}

// CourseStats is the admin dashboard view of a course.
type CourseStats struct {
	CourseID                   uint        `json:"course_id"`
	ContentCompletions         int64       `json:"content_completions"`
	ContentCompletionsThisWeek int64       `json:"content_completions_this_week"`
	CourseCompletions          int64       `json:"course_completions"`
	CourseCompletionsThisWeek  int64       `json:"course_completions_this_week"`
	Certificates               int64       `json:"certificates"`
	Quizzes                    []QuizStats `json:"quizzes"`
}

// CourseStats counts completions and certificates, with this-week figures taken
// from the start of the week containing at.
func (s *Store) CourseStats(ctx context.Context, courseID uint, at time.Time) (*CourseStats, error) {
	weekStart := now.With(at).BeginningOfWeek()
	stats := &CourseStats{CourseID: courseID}

	g, gctx := errgroup.WithContext(ctx)
	count := func(model interface{}, dst *int64, since *time.Time, column string) {
		g.Go(func() error {
			q := s.conn(gctx).Model(model).Where("course_id = ?", courseID)
			if since != nil {
				q = q.Where(column+" >= ?", *since)
			}
			if err := q.Count(dst).Error; err != nil {
				return wrap("course stats", err)
			}
			return nil
		})
	}
	count(&course.ContentCompletion{}, &stats.ContentCompletions, nil, "")
	count(&course.ContentCompletion{}, &stats.ContentCompletionsThisWeek, &weekStart, "completed_at")
	count(&course.CourseCompletion{}, &stats.CourseCompletions, nil, "")
	count(&course.CourseCompletion{}, &stats.CourseCompletionsThisWeek, &weekStart, "completed_at")
	count(&course.Certificate{}, &stats.Certificates, nil, "")
	g.Go(func() error {
		quizzes, err := s.QuizStats(gctx, courseID)
		if err != nil {
			return err
		}
		stats.Quizzes = quizzes
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// QuizStats reports attempt counts and the mean score of completed attempts for
// every quiz in a course.
func (s *Store) QuizStats(ctx context.Context, courseID uint) ([]QuizStats, error) {
	var quizzes []course.Quiz
	if err := s.conn(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&quizzes).Error; err != nil {
		return nil, wrap("list quizzes", err)
	}

	out := make([]QuizStats, 0, len(quizzes))
	for _, q := range quizzes {
		var agg struct {
			Attempts int64
			Learners int64
			Average  float64
		}
		if err := s.conn(ctx).
			Model(&course.QuizAttempt{}).
			Select("COUNT(*) AS attempts, COUNT(DISTINCT user_id) AS learners, "+
				"COALESCE(AVG(CASE WHEN max_score > 0 THEN score * 100.0 / max_score ELSE 0 END), 0) AS average").
			Where("quiz_id = ? AND completed = ?", q.ID, true).
			Scan(&agg).Error; err != nil {
			return nil, wrap("quiz stats", err)
		}
		out = append(out, QuizStats{
			QuizID:              q.ID,
			Title:               q.Title,
			Attempts:            agg.Attempts,
			Learners:            agg.Learners,
			AverageScorePercent: agg.Average,
		})
	}
	return out, nil
}
