package store

import (
	"context"

	"gorm.io/gorm"

	"lms/models/course"
)

func (s *Store) GetCourse(ctx context.Context, courseID uint) (*course.Course, error) {
	var c course.Course
	if err := s.conn(ctx).First(&c, courseID).Error; err != nil {
		return nil, wrap("get course", err)
	}
	return &c, nil
}

func (s *Store) ListSections(ctx context.Context, courseID uint) ([]course.CourseSection, error) {
	var rows []course.CourseSection
	if err := s.conn(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, wrap("list sections", err)
	}
	return rows, nil
}

func (s *Store) ListContents(ctx context.Context, sectionIDs []uint) ([]course.SectionContent, error) {
	var rows []course.SectionContent
	if len(sectionIDs) == 0 {
		return rows, nil
	}
	if err := s.conn(ctx).
		Where("section_id IN ?", sectionIDs).
		Order("order_index ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, wrap("list contents", err)
	}
	return rows, nil
}

func (s *Store) GetSection(ctx context.Context, sectionID uint) (*course.CourseSection, error) {
	var sec course.CourseSection
	if err := s.conn(ctx).First(&sec, sectionID).Error; err != nil {
		return nil, wrap("get section", err)
	}
	return &sec, nil
}

func (s *Store) GetContent(ctx context.Context, contentID uint) (*course.SectionContent, error) {
	var c course.SectionContent
	if err := s.conn(ctx).First(&c, contentID).Error; err != nil {
		return nil, wrap("get content", err)
	}
	return &c, nil
}

// GetQuiz loads a quiz with its questions in display order.
func (s *Store) GetQuiz(ctx context.Context, quizID uint) (*course.Quiz, error) {
	var q course.Quiz
	if err := s.conn(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		First(&q, quizID).Error; err != nil {
		return nil, wrap("get quiz", err)
	}
	return &q, nil
}
