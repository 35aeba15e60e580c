package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"lms/models/course"
)

func question(id uint, points int) course.Question {
	return course.Question{Model: gorm.Model{ID: id}, Options: []string{"a", "b", "c"}, CorrectOption: 0, Points: points}
}

func completed(score, maxScore int) course.QuizAttempt {
	return course.QuizAttempt{Completed: true, Score: score, MaxScore: maxScore}
}

func TestScoreSumsCorrectAnswers(t *testing.T) {
	questions := []course.Question{question(1, 1), question(2, 2), question(3, 3)}
	score, maxScore := Score(questions, course.Answers{1: 0, 2: 1, 3: 0})
	assert.Equal(t, 4, score)
	assert.Equal(t, 6, maxScore)
	assert.Equal(t, 67, Percent(score, maxScore))
}

func TestScoreIgnoresUnansweredAndUnknownQuestions(t *testing.T) {
	questions := []course.Question{question(1, 2), question(2, 2)}
	score, maxScore := Score(questions, course.Answers{2: 0, 99: 0})
	assert.Equal(t, 2, score)
	assert.Equal(t, 4, maxScore)
}

func TestPercentZeroMaxScore(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 50, Percent(1, 2))
	assert.Equal(t, 33, Percent(1, 3))
}

func TestSummarizeZeroQuestionQuiz(t *testing.T) {
	quiz := &course.Quiz{MaxAttempts: 2}
	s := Summarize(quiz, []course.QuizAttempt{completed(0, 0)}, 70)
	assert.Equal(t, 0, s.BestScorePercent)
	assert.Equal(t, 1, s.TotalAttempts)
	assert.Equal(t, 1, s.AttemptsRemaining)
	assert.False(t, s.Passed)
}

func TestSummarizeGradingDisabled(t *testing.T) {
	quiz := &course.Quiz{MaxAttempts: 1}

	none := Summarize(quiz, nil, 0)
	assert.True(t, none.GradingDisabled)
	assert.False(t, none.Passed)

	zero := Summarize(quiz, []course.QuizAttempt{completed(0, 10)}, 0)
	assert.True(t, zero.Passed)
	assert.Equal(t, 0, zero.BestScorePercent)
}

func TestSummarizeBestScoreAndRemaining(t *testing.T) {
	quiz := &course.Quiz{MaxAttempts: 2}
	attempts := []course.QuizAttempt{
		completed(3, 10),
		completed(8, 10),
		completed(5, 10),
		{Completed: false, Score: 10, MaxScore: 10},
	}
	s := Summarize(quiz, attempts, 70)
	assert.Equal(t, 80, s.BestScorePercent)
	assert.Equal(t, 3, s.TotalAttempts)
	assert.Equal(t, 0, s.AttemptsRemaining)
	assert.True(t, s.Passed)
	assert.Equal(t, 70, s.PassingScore)
}

func TestSummarizeBelowPassingScore(t *testing.T) {
	quiz := &course.Quiz{MaxAttempts: 3}
	s := Summarize(quiz, []course.QuizAttempt{completed(6, 10)}, 70)
	assert.False(t, s.Passed)
	assert.Equal(t, 2, s.AttemptsRemaining)
}
