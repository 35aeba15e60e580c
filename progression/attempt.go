package progression

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lms/models/course"
)

// expirySubmitTimeout bounds the store calls made by a timer-driven submit.
const expirySubmitTimeout = 30 * time.Second

// AttemptSession holds one in-progress quiz attempt. Answers live only in the
// session until Submit, which is the single InProgress -> Completed transition.
type AttemptSession struct {
	mu       sync.Mutex
	tracker  *Tracker
	quiz     *course.Quiz
	row      course.QuizAttempt
	answers  course.Answers
	deadline *time.Time
	stop     func() bool
	result   *course.QuizAttempt
	closed   bool
}

func newAttemptSession(t *Tracker, quiz *course.Quiz, row course.QuizAttempt) *AttemptSession {
	answers := course.Answers{}
	for k, v := range row.Answers.Data() {
		answers[k] = v
	}
	return &AttemptSession{
		tracker:  t,
		quiz:     quiz,
		row:      row,
		answers:  answers,
		deadline: row.Deadline(quiz.TimeLimit),
	}
}

// startTimer arms the countdown. Expiry submits exactly as a manual submit would.
func (s *AttemptSession) startTimer(now time.Time) {
	if s.deadline == nil {
		return
	}
	remaining := s.deadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	s.stop = s.tracker.afterFunc(remaining, s.expire)
}

func (s *AttemptSession) expire() {
	ctx, cancel := context.WithTimeout(context.Background(), expirySubmitTimeout)
	defer cancel()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	attempt, err := s.finalizeLocked(ctx)
	s.mu.Unlock()

	if err != nil {
		s.tracker.log.Error("time-limit submit failed", "user_id", s.row.UserID, "quiz_id", s.quiz.ID, "error", err)
		return
	}
	s.tracker.log.Info("quiz attempt auto-submitted", "user_id", attempt.UserID, "quiz_id", attempt.QuizID, "attempt_id", attempt.ID, "score", attempt.Score)
}

func (s *AttemptSession) QuizID() uint { return s.quiz.ID }

func (s *AttemptSession) UserID() uint { return s.row.UserID }

func (s *AttemptSession) AttemptID() uint { return s.row.ID }

func (s *AttemptSession) StartedAt() time.Time { return s.row.StartedAt }

// Deadline is nil when the quiz has no time limit.
func (s *AttemptSession) Deadline() *time.Time {
	if s.deadline == nil {
		return nil
	}
	d := *s.deadline
	return &d
}

// SelectAnswer records the chosen option locally. The last write per question wins.
func (s *AttemptSession) SelectAnswer(questionID uint, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return ErrAttemptFinalized
	}
	var question *course.Question
	for i := range s.quiz.Questions {
		if s.quiz.Questions[i].ID == questionID {
			question = &s.quiz.Questions[i]
			break
		}
	}
	if question == nil {
		return fmt.Errorf("%w: question %d is not part of quiz %d", ErrInvalidAnswer, questionID, s.quiz.ID)
	}
	if option < 0 || option >= len(question.Options) {
		return fmt.Errorf("%w: option %d out of range for question %d", ErrInvalidAnswer, option, questionID)
	}
	s.answers[questionID] = option
	return nil
}

// Answers returns a copy of the answers held so far.
func (s *AttemptSession) Answers() course.Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(course.Answers, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Result is the completed attempt, or nil while still in progress.
func (s *AttemptSession) Result() *course.QuizAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	r := *s.result
	return &r
}

// Submit finalizes the attempt. Calling it again, or racing the timer, returns the
// already completed record.
func (s *AttemptSession) Submit(ctx context.Context) (*course.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizeLocked(ctx)
}

func (s *AttemptSession) finalizeLocked(ctx context.Context) (*course.QuizAttempt, error) {
	if s.result != nil {
		r := *s.result
		return &r, nil
	}
	if s.stop != nil {
		s.stop()
	}

	score, maxScore := Score(s.quiz.Questions, s.answers)
	row := s.row
	row.Answers = datatypesAnswers(s.answers)
	row.Score = score
	row.MaxScore = maxScore

	done, err := s.tracker.finalize(ctx, s.quiz, &row)
	if err != nil {
		// still in progress; an expired attempt is left to the sweeper
		if now := s.tracker.now(); !s.closed && s.deadline != nil && s.deadline.After(now) {
			s.startTimer(now)
		}
		return nil, err
	}
	s.row = *done
	s.result = done
	r := *done
	return &r, nil
}

// Close tears the session down without submitting.
func (s *AttemptSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.stop != nil {
		s.stop()
	}
}

// QuestionView is a question as shown to the learner, without the correct option.
type QuestionView struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Points  int      `json:"points"`
}

// AttemptView is the learner-facing state of a session.
type AttemptView struct {
	AttemptID uint           `json:"attempt_id"`
	QuizID    uint           `json:"quiz_id"`
	Title     string         `json:"title"`
	StartedAt time.Time      `json:"started_at"`
	Deadline  *time.Time     `json:"deadline,omitempty"`
	Answers   course.Answers `json:"answers"`
	Questions []QuestionView `json:"questions"`
	Submitted bool           `json:"submitted"`
}

func (s *AttemptSession) View() AttemptView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := AttemptView{
		AttemptID: s.row.ID,
		QuizID:    s.quiz.ID,
		Title:     s.quiz.Title,
		StartedAt: s.row.StartedAt,
		Answers:   make(course.Answers, len(s.answers)),
		Submitted: s.result != nil,
	}
	if s.deadline != nil {
		d := *s.deadline
		v.Deadline = &d
	}
	for k, a := range s.answers {
		v.Answers[k] = a
	}
	for _, q := range s.quiz.Questions {
		v.Questions = append(v.Questions, QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: append([]string(nil), q.Options...),
			Points:  q.Points,
		})
	}
	return v
}
