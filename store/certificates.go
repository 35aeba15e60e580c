package store

import (
	"context"
	"errors"

	"gorm.io/gorm/clause"

	"lms/errs"
	"lms/models/course"
)

func (s *Store) FindCertificate(ctx context.Context, userID, courseID uint) (*course.Certificate, error) {
	var c course.Certificate
	if err := s.conn(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Take(&c).Error; err != nil {
		return nil, wrap("find certificate", err)
	}
	return &c, nil
}

// InsertCertificate returns the existing certificate when the learner already has
// one for the course, and errs.ErrDuplicate when only the number collided.
func (s *Store) InsertCertificate(ctx context.Context, c *course.Certificate) (*course.Certificate, bool, error) {
	res := s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c)
	if res.Error != nil {
		return nil, false, wrap("insert certificate", res.Error)
	}
	if res.RowsAffected == 1 {
		return c, true, nil
	}
	existing, err := s.FindCertificate(ctx, c.UserID, c.CourseID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, false, errs.ErrDuplicate
	}
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Store) SetCertificateDocument(ctx context.Context, certificateID uint, key string) error {
	res := s.conn(ctx).
		Model(&course.Certificate{}).
		Where("id = ?", certificateID).
		Update("document_key", key)
	if res.Error != nil {
		return wrap("set certificate document", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListCertificates returns a course's certificates, newest first.
func (s *Store) ListCertificates(ctx context.Context, courseID uint, limit, offset int) ([]course.Certificate, int64, error) {
	var (
		rows  []course.Certificate
		total int64
	)
	if err := s.conn(ctx).Model(&course.Certificate{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return nil, 0, wrap("count certificates", err)
	}
	if err := s.conn(ctx).Where("course_id = ?", courseID).Order("issued_at DESC, id DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, wrap("list certificates", err)
	}
	return rows, total, nil
}
