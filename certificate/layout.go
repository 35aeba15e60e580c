package certificate

import (
	"encoding/json"
	"fmt"
)

// Point positions a text field; X and Y are fractions of the page size.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"font_size"`
}

// Layout holds field coordinates for a certificate template.
type Layout struct {
	Width       int   `json:"width"`
	Height      int   `json:"height"`
	LearnerName Point `json:"learner_name"`
	CourseTitle Point `json:"course_title"`
	IssuedAt    Point `json:"issued_at"`
	Number      Point `json:"number"`
}

func DefaultLayout() Layout {
	return Layout{
		Width:       1600,
		Height:      1131,
		LearnerName: Point{X: 0.5, Y: 0.45, FontSize: 64},
		CourseTitle: Point{X: 0.5, Y: 0.58, FontSize: 40},
		IssuedAt:    Point{X: 0.3, Y: 0.82, FontSize: 24},
		Number:      Point{X: 0.7, Y: 0.82, FontSize: 24},
	}
}

// ParseLayout reads a JSON layout, filling unset fields from DefaultLayout.
func ParseLayout(raw string) (Layout, error) {
	l := DefaultLayout()
	if raw == "" {
		return l, nil
	}
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return l, fmt.Errorf("parse certificate layout: %w", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return l, fmt.Errorf("parse certificate layout: invalid page size %dx%d", l.Width, l.Height)
	}
	return l, nil
}
