package store

import (
	"context"

	"gorm.io/gorm/clause"

	"lms/models/course"
)

func (s *Store) FindContentCompletion(ctx context.Context, userID, contentID uint) (*course.ContentCompletion, error) {
	var row course.ContentCompletion
	if err := s.conn(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Take(&row).Error; err != nil {
		return nil, wrap("find content completion", err)
	}
	return &row, nil
}

func (s *Store) ListContentCompletions(ctx context.Context, userID uint, contentIDs []uint) ([]course.ContentCompletion, error) {
	var rows []course.ContentCompletion
	if len(contentIDs) == 0 {
		return rows, nil
	}
	if err := s.conn(ctx).
		Where("user_id = ? AND content_id IN ?", userID, contentIDs).
		Find(&rows).Error; err != nil {
		return nil, wrap("list content completions", err)
	}
	return rows, nil
}

// InsertContentCompletion inserts c unless the pair is already recorded, in which
// case the stored row is returned with created=false.
func (s *Store) InsertContentCompletion(ctx context.Context, c *course.ContentCompletion) (*course.ContentCompletion, bool, error) {
	res := s.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return nil, false, wrap("insert content completion", res.Error)
	}
	if res.RowsAffected == 1 {
		return c, true, nil
	}
	existing, err := s.FindContentCompletion(ctx, c.UserID, c.ContentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Store) FindCourseCompletion(ctx context.Context, userID, courseID uint) (*course.CourseCompletion, error) {
	var row course.CourseCompletion
	if err := s.conn(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Take(&row).Error; err != nil {
		return nil, wrap("find course completion", err)
	}
	return &row, nil
}

func (s *Store) InsertCourseCompletion(ctx context.Context, c *course.CourseCompletion) (*course.CourseCompletion, bool, error) {
	res := s.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return nil, false, wrap("insert course completion", res.Error)
	}
	if res.RowsAffected == 1 {
		return c, true, nil
	}
	existing, err := s.FindCourseCompletion(ctx, c.UserID, c.CourseID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
