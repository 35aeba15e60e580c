package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"lms/models/course"
)

func section(id uint, state string, publishAt *time.Time, order int) course.CourseSection {
	return course.CourseSection{Model: gorm.Model{ID: id}, PublishState: state, PublishAt: publishAt, OrderIndex: order}
}

func content(id, sectionID uint, published bool, order int) course.SectionContent {
	return course.SectionContent{Model: gorm.Model{ID: id}, SectionID: sectionID, IsPublished: published, OrderIndex: order, ContentType: course.ContentText}
}

func TestAggregateSplitsTotalAndPublished(t *testing.T) {
	g := Graph{
		Course:   course.Course{Model: gorm.Model{ID: 1}},
		Sections: []course.CourseSection{section(1, course.SectionPublished, nil, 0)},
	}
	for i := uint(1); i <= 10; i++ {
		g.Contents = append(g.Contents, content(i, 1, i <= 6, int(i)))
	}
	// five published items plus one unpublished
	done := map[uint]bool{1: true, 2: true, 3: true, 4: true, 5: true, 9: true}

	p := Aggregate(g, done, time.Now())
	assert.Equal(t, 60, p.ProgressPercent)
	assert.Equal(t, 6, p.CompletedCount)
	assert.Equal(t, 10, p.TotalContentCount)
	assert.Equal(t, 5, p.PublishedCompletedCount)
	assert.Equal(t, 6, p.PublishedTotalCount)
	assert.False(t, p.IsEligibleForCompletion)

	done[6] = true
	p = Aggregate(g, done, time.Now())
	assert.True(t, p.IsEligibleForCompletion)
	assert.Equal(t, 70, p.ProgressPercent)
}

func TestAggregateEmptyCourseIsNotEligible(t *testing.T) {
	p := Aggregate(Graph{Course: course.Course{Model: gorm.Model{ID: 3}}}, nil, time.Now())
	assert.Equal(t, uint(3), p.CourseID)
	assert.Equal(t, 0, p.ProgressPercent)
	assert.False(t, p.IsEligibleForCompletion)
}

func TestAggregateSectionVisibility(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	g := Graph{
		Sections: []course.CourseSection{
			section(1, course.SectionPublished, nil, 0),
			section(2, course.SectionScheduled, &past, 1),
			section(3, course.SectionScheduled, &future, 2),
			section(4, course.SectionDraft, nil, 3),
			section(5, course.SectionScheduled, nil, 4),
		},
		Contents: []course.SectionContent{
			content(1, 1, true, 0),
			content(2, 2, true, 0),
			content(3, 3, true, 0),
			content(4, 4, true, 0),
			content(5, 5, true, 0),
		},
	}
	p := Aggregate(g, map[uint]bool{1: true, 2: true, 5: true}, now)
	assert.Equal(t, 3, p.PublishedTotalCount)
	assert.True(t, p.IsEligibleForCompletion)
	assert.Equal(t, 5, p.TotalContentCount)

	assert.True(t, g.IsPublished(g.Contents[1], now))
	assert.False(t, g.IsPublished(g.Contents[2], now))
	assert.True(t, g.IsPublished(g.Contents[2], future))
}

func TestGraphOrdered(t *testing.T) {
	g := Graph{
		Sections: []course.CourseSection{section(2, "", nil, 1), section(1, "", nil, 0)},
		Contents: []course.SectionContent{content(3, 1, true, 1), content(4, 1, true, 0), content(5, 2, true, 0)},
	}
	sections, items := g.Ordered()
	assert.Equal(t, uint(1), sections[0].ID)
	assert.Equal(t, uint(2), sections[1].ID)
	assert.Equal(t, uint(4), items[1][0].ID)
	assert.Equal(t, uint(3), items[1][1].ID)
	assert.Len(t, items[2], 1)
}
