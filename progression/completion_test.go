package progression_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms/certificate"
	"lms/models/course"
	"lms/progression"
	"lms/store/storetest"
)

// finishContent completes the text item and the quiz item of a quizCourse.
func (e *env) finishContent(t *testing.T, who progression.Identity, text, item *course.SectionContent) {
	t.Helper()
	ctx := context.Background()
	_, err := e.engine.RecordCompletion(ctx, who, text.ID)
	require.NoError(t, err)
	_, err = e.engine.SubmitQuizAttempt(ctx, who, item.ID, nil)
	require.NoError(t, err)
	out, err := e.engine.RecordCompletion(ctx, who, item.ID)
	require.NoError(t, err)
	require.True(t, out.CanFinalizeCourse)
}

func TestCompleteCourseIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	crs, text, item, _ := e.quizCourse(t, 1, nil, nil, 1)
	e.finishContent(t, learner, text, item)

	first, err := e.engine.CompleteCourse(ctx, learner, crs.ID)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, first.CertificateIssued)
	require.NotNil(t, first.Certificate)
	assert.Equal(t, "Ada Lovelace", first.Certificate.LearnerName)
	assert.Equal(t, certificate.DocumentKey(first.Certificate.CertificateNumber, ".png"), first.Certificate.DocumentKey)
	assert.Equal(t, 100.0, first.Completion.CompletionPercentage)

	second, err := e.engine.CompleteCourse(ctx, learner, crs.ID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.False(t, second.CertificateIssued)
	assert.Equal(t, first.Completion.ID, second.Completion.ID)
	assert.Equal(t, first.Certificate.ID, second.Certificate.ID)
	assert.Equal(t, first.Certificate.CertificateNumber, second.Certificate.CertificateNumber)

	assert.Equal(t, 1, e.issuer.Calls())
	assert.EqualValues(t, 1, e.countRows(t, &course.CourseCompletion{}))
	assert.EqualValues(t, 1, e.countRows(t, &course.Certificate{}))

	p, err := e.engine.GetProgress(ctx, learner.UserID, crs.ID)
	require.NoError(t, err)
	assert.True(t, p.CourseCompleted)
	assert.Equal(t, 100, p.ProgressPercent)
}

func TestCompleteCourseNotEligible(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	crs, text, _, _ := e.quizCourse(t, 1, nil, nil, 1)
	_, err := e.engine.RecordCompletion(ctx, learner, text.ID)
	require.NoError(t, err)

	_, err = e.engine.CompleteCourse(ctx, learner, crs.ID)
	require.ErrorIs(t, err, progression.ErrNotEligible)
	assert.EqualValues(t, 0, e.countRows(t, &course.CourseCompletion{}))
	assert.EqualValues(t, 0, e.countRows(t, &course.Certificate{}))
}

func TestCertificatesDisabled(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	crs := storetest.SeedCourse(t, e.db, "No certificates", false)
	sec := storetest.SeedSection(t, e.db, crs.ID, 0, "", nil)
	text := storetest.SeedContent(t, e.db, sec.ID, 0, course.ContentText, true)

	_, err := e.engine.RecordCompletion(ctx, learner, text.ID)
	require.NoError(t, err)
	out, err := e.engine.CompleteCourse(ctx, learner, crs.ID)
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Nil(t, out.Certificate)

	cert, err := e.engine.GetCertificate(ctx, learner.UserID, crs.ID)
	require.NoError(t, err)
	assert.Nil(t, cert)
	assert.Equal(t, 0, e.issuer.Calls())
}

func TestRenderFailureIsReportedAsPartial(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	crs, text, item, _ := e.quizCourse(t, 1, nil, nil, 1)
	e.finishContent(t, learner, text, item)

	e.issuer.err = errors.New("renderer offline")
	out, err := e.engine.CompleteCourse(ctx, learner, crs.ID)
	var partial *progression.PartialWriteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"course_completion", "certificate"}, partial.Applied)
	require.NotNil(t, out)
	require.NotNil(t, out.Certificate)
	assert.False(t, out.Certificate.HasDocument())
	assert.EqualValues(t, 1, e.countRows(t, &course.CourseCompletion{}))
	assert.EqualValues(t, 1, e.countRows(t, &course.Certificate{}))

	e.issuer.err = nil
	cert, err := e.engine.EnsureCertificateDocument(ctx, learner.UserID, crs.ID)
	require.NoError(t, err)
	assert.True(t, cert.HasDocument())
	assert.Equal(t, out.Certificate.CertificateNumber, cert.CertificateNumber)

	again, err := e.engine.CompleteCourse(ctx, learner, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.DocumentKey, again.Certificate.DocumentKey)
	assert.Equal(t, 2, e.issuer.Calls())
}

func TestCertificateNumberCollisionIsRetried(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		numbers = []string{"CERT-DUP", "CERT-DUP", "CERT-DUP", "CERT-NEW"}
	)
	next := func(courseID, userID uint) string {
		mu.Lock()
		defer mu.Unlock()
		n := numbers[0]
		if len(numbers) > 1 {
			numbers = numbers[1:]
		}
		return n
	}
	engine := progression.New(e.store, storetest.Logger(t), progression.Options{
		Issuer:               e.issuer,
		Now:                  e.clock.Now,
		AfterFunc:            e.timers.AfterFunc,
		NewCertificateNumber: next,
	})
	defer engine.Close()

	crs, text, item, _ := e.quizCourse(t, 1, nil, nil, 1)
	second := progression.Identity{UserID: 2, Role: progression.RoleLearner}
	e.finishContent(t, learner, text, item)
	e.finishContent(t, second, text, item)

	a, err := engine.CompleteCourse(ctx, learner, crs.ID)
	require.NoError(t, err)
	b, err := engine.CompleteCourse(ctx, second, crs.ID)
	require.NoError(t, err)

	assert.Equal(t, "CERT-DUP", a.Certificate.CertificateNumber)
	assert.Equal(t, "CERT-NEW", b.Certificate.CertificateNumber)
	assert.Equal(t, "Learner #2", b.Certificate.LearnerName)
}

func TestDefaultCertificateNumbersAreUnique(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	crs, text, item, _ := e.quizCourse(t, 1, nil, nil, 1)

	seen := make(map[string]bool)
	for uid := uint(1); uid <= 5; uid++ {
		who := progression.Identity{UserID: uid, Role: progression.RoleLearner, Name: fmt.Sprintf("Learner %d", uid)}
		e.finishContent(t, who, text, item)
		out, err := e.engine.CompleteCourse(ctx, who, crs.ID)
		require.NoError(t, err)
		n := out.Certificate.CertificateNumber
		assert.True(t, strings.HasPrefix(n, "CERT-"), n)
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
}

func TestGetCertificateMissing(t *testing.T) {
	e := newEnv(t)
	cert, err := e.engine.GetCertificate(context.Background(), learner.UserID, 42)
	require.NoError(t, err)
	assert.Nil(t, cert)
}
