package progression

import (
	"context"

	"lms/models/course"
)

type OutlineItem struct {
	ContentID   uint   `json:"content_id"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Completed   bool   `json:"completed"`
}

type OutlineSection struct {
	SectionID uint          `json:"section_id"`
	Title     string        `json:"title"`
	Items     []OutlineItem `json:"items"`
}

// Outline is the learner-visible course tree with completion flags and the item
// to resume at.
type Outline struct {
	CourseID           uint             `json:"course_id"`
	Title              string           `json:"title"`
	EnableCertificates bool             `json:"enable_certificates"`
	Sections           []OutlineSection `json:"sections"`
	ResumeContentID    *uint            `json:"resume_content_id,omitempty"`
	Progress           Progress         `json:"progress"`
}

// GetCourseOutline lists visible sections and published items in order. The resume
// target is lastViewed when it is still visible, otherwise the first incomplete item.
func (e *Engine) GetCourseOutline(ctx context.Context, learnerID, courseID uint, lastViewed *uint) (*Outline, error) {
	g, err := e.loadGraph(ctx, courseID)
	if err != nil {
		return nil, err
	}
	done, err := e.ledger.CompletedSet(ctx, learnerID, g.ContentIDs())
	if err != nil {
		return nil, err
	}
	progress, err := e.GetProgress(ctx, learnerID, courseID)
	if err != nil {
		return nil, err
	}

	at := e.now()
	out := &Outline{
		CourseID:           g.Course.ID,
		Title:              g.Course.Title,
		EnableCertificates: g.Course.EnableCertificates,
		Progress:           progress,
	}
	sections, bySection := g.Ordered()
	var firstIncomplete *uint
	lastViewedVisible := false
	for _, s := range sections {
		if !s.IsVisible(at) {
			continue
		}
		os := OutlineSection{SectionID: s.ID, Title: s.Title}
		for _, c := range bySection[s.ID] {
			if !c.IsPublished {
				continue
			}
			os.Items = append(os.Items, outlineItem(c, done[c.ID]))
			if lastViewed != nil && *lastViewed == c.ID {
				lastViewedVisible = true
			}
			if firstIncomplete == nil && !done[c.ID] {
				id := c.ID
				firstIncomplete = &id
			}
		}
		out.Sections = append(out.Sections, os)
	}

	out.ResumeContentID = firstIncomplete
	if lastViewedVisible {
		id := *lastViewed
		out.ResumeContentID = &id
	}
	return out, nil
}

func outlineItem(c course.SectionContent, completed bool) OutlineItem {
	return OutlineItem{
		ContentID:   c.ID,
		Title:       c.Title,
		ContentType: c.ContentType,
		Completed:   completed,
	}
}
