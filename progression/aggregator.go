package progression

import (
	"math"
	"sort"
	"time"

	"lms/models/course"
)

// Progress is the derived completion state of one learner in one course.
// The percentage counts every content item, published or not; eligibility only
// requires what the learner could see.
type Progress struct {
	CourseID                uint      `json:"course_id"`
	ProgressPercent         int       `json:"progress_percent"`
	CompletedCount          int       `json:"completed_count"`
	TotalContentCount       int       `json:"total_content_count"`
	PublishedCompletedCount int       `json:"published_completed_count"`
	PublishedTotalCount     int       `json:"published_total_count"`
	IsEligibleForCompletion bool      `json:"is_eligible_for_completion"`
	CourseCompleted         bool      `json:"course_completed"`
	ComputedAt              time.Time `json:"computed_at"`
	// Stale marks a cached value served while the store was unavailable.
	Stale bool `json:"stale,omitempty"`
	// Unknown marks a zero value returned when nothing could be read.
	Unknown bool `json:"unknown,omitempty"`
}

// Graph is a course with every section and content item, published or not.
type Graph struct {
	Course   course.Course
	Sections []course.CourseSection
	Contents []course.SectionContent
}

func (g Graph) ContentIDs() []uint {
	ids := make([]uint, 0, len(g.Contents))
	for _, c := range g.Contents {
		ids = append(ids, c.ID)
	}
	return ids
}

func (g Graph) visibleSections(at time.Time) map[uint]bool {
	visible := make(map[uint]bool, len(g.Sections))
	for _, s := range g.Sections {
		visible[s.ID] = s.IsVisible(at)
	}
	return visible
}

// IsPublished reports whether a content item is visible to learners at the instant.
func (g Graph) IsPublished(c course.SectionContent, at time.Time) bool {
	if !c.IsPublished {
		return false
	}
	for _, s := range g.Sections {
		if s.ID == c.SectionID {
			return s.IsVisible(at)
		}
	}
	return false
}

// Ordered returns sections and their contents sorted by order index, then id.
func (g Graph) Ordered() ([]course.CourseSection, map[uint][]course.SectionContent) {
	sections := append([]course.CourseSection(nil), g.Sections...)
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].OrderIndex != sections[j].OrderIndex {
			return sections[i].OrderIndex < sections[j].OrderIndex
		}
		return sections[i].ID < sections[j].ID
	})
	bySection := make(map[uint][]course.SectionContent, len(sections))
	for _, c := range g.Contents {
		bySection[c.SectionID] = append(bySection[c.SectionID], c)
	}
	for id := range bySection {
		items := bySection[id]
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].OrderIndex != items[j].OrderIndex {
				return items[i].OrderIndex < items[j].OrderIndex
			}
			return items[i].ID < items[j].ID
		})
	}
	return sections, bySection
}

// Aggregate derives progress from the content graph and the learner's completed set.
func Aggregate(g Graph, completed map[uint]bool, at time.Time) Progress {
	p := Progress{CourseID: g.Course.ID, ComputedAt: at}
	visible := g.visibleSections(at)

	for _, c := range g.Contents {
		done := completed[c.ID]
		p.TotalContentCount++
		if done {
			p.CompletedCount++
		}
		if c.IsPublished && visible[c.SectionID] {
			p.PublishedTotalCount++
			if done {
				p.PublishedCompletedCount++
			}
		}
	}

	if p.TotalContentCount > 0 {
		p.ProgressPercent = int(math.Round(float64(p.CompletedCount) / float64(p.TotalContentCount) * 100))
	}
	p.IsEligibleForCompletion = p.PublishedTotalCount > 0 && p.PublishedCompletedCount == p.PublishedTotalCount
	return p
}
