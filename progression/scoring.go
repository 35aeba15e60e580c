package progression

import (
	"math"

	"lms/models/course"
)

// QuizSummary is derived from a learner's completed attempts at one quiz.
type QuizSummary struct {
	QuizID            uint `json:"quiz_id"`
	BestScorePercent  int  `json:"best_score_percent"`
	TotalAttempts     int  `json:"total_attempts"`
	MaxAttempts       int  `json:"max_attempts"`
	AttemptsRemaining int  `json:"attempts_remaining"`
	PassingScore      int  `json:"passing_score"`
	GradingDisabled   bool `json:"grading_disabled"`
	Passed            bool `json:"passed"`
}

// Score sums the points of correctly answered questions. Unanswered questions
// contribute nothing.
func Score(questions []course.Question, answers course.Answers) (score, maxScore int) {
	for _, q := range questions {
		maxScore += q.Points
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectOption {
			score += q.Points
		}
	}
	return score, maxScore
}

// Percent rounds score/maxScore to a whole percentage; 0 when maxScore is 0.
func Percent(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(maxScore) * 100))
}

// Summarize only looks at completed attempts. A passing score of 0 disables grading.
func Summarize(quiz *course.Quiz, attempts []course.QuizAttempt, passingScore int) QuizSummary {
	s := QuizSummary{
		QuizID:          quiz.ID,
		MaxAttempts:     quiz.MaxAttempts,
		PassingScore:    passingScore,
		GradingDisabled: passingScore == 0,
	}
	for _, a := range attempts {
		if !a.Completed {
			continue
		}
		s.TotalAttempts++
		if p := Percent(a.Score, a.MaxScore); p > s.BestScorePercent {
			s.BestScorePercent = p
		}
	}
	s.AttemptsRemaining = quiz.MaxAttempts - s.TotalAttempts
	if s.AttemptsRemaining < 0 {
		s.AttemptsRemaining = 0
	}
	if s.TotalAttempts > 0 {
		s.Passed = s.GradingDisabled || s.BestScorePercent >= passingScore
	}
	return s
}
