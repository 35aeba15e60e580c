package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/logger"
	"lms/models/course"
)

func testSession(t *testing.T, stops *int, userID, quizID, attemptID uint) *AttemptSession {
	t.Helper()
	limit := 5
	after := func(d time.Duration, f func()) func() bool {
		return func() bool {
			*stops++
			return true
		}
	}
	tr := NewTracker(nil, logger.Nop(), time.Now, after)
	quiz := &course.Quiz{TimeLimit: &limit}
	quiz.ID = quizID
	row := course.QuizAttempt{UserID: userID, QuizID: quizID, StartedAt: time.Now()}
	row.ID = attemptID
	s := newAttemptSession(tr, quiz, row)
	s.startTimer(time.Now())
	require.NotNil(t, s.stop)
	return s
}

func TestRegistryPutReplacesAndCloses(t *testing.T) {
	stops := 0
	r := NewRegistry()
	old := testSession(t, &stops, 1, 10, 100)
	r.Put(old)
	assert.Same(t, old, r.Get(1, 10))
	assert.Nil(t, r.Get(2, 10))

	replacement := testSession(t, &stops, 1, 10, 101)
	r.Put(replacement)
	assert.Same(t, replacement, r.Get(1, 10))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, stops)
	assert.True(t, old.closed)

	// putting the same session again is a no-op
	r.Put(replacement)
	assert.Equal(t, 1, stops)
}

func TestRegistryCloseAll(t *testing.T) {
	stops := 0
	r := NewRegistry()
	r.Put(testSession(t, &stops, 1, 10, 100))
	r.Put(testSession(t, &stops, 2, 10, 200))
	r.Put(testSession(t, &stops, 1, 11, 300))
	require.Equal(t, 3, r.Len())

	r.CloseAll()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 3, stops)
	assert.Nil(t, r.Get(1, 10))
}

func TestRegistryRemoveIgnoresReplacedSessions(t *testing.T) {
	stops := 0
	r := NewRegistry()
	old := testSession(t, &stops, 1, 10, 100)
	r.Put(old)
	current := testSession(t, &stops, 1, 10, 101)
	r.Put(current)

	r.Remove(old)
	assert.Same(t, current, r.Get(1, 10))

	r.Remove(current)
	assert.Nil(t, r.Get(1, 10))
	assert.Equal(t, 0, r.Len())
}
