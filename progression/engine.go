package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"lms/errs"
	"lms/logger"
	"lms/models/course"
)

// Options wires the optional collaborators of an Engine.
type Options struct {
	Cache                ProgressCache
	Issuer               DocumentIssuer
	Now                  func() time.Time
	AfterFunc            AfterFunc
	NewCertificateNumber func(courseID, userID uint) string
}

// Engine is the progression and assessment API used by front ends and admin tooling.
type Engine struct {
	store        Store
	ledger       *Ledger
	tracker      *Tracker
	orchestrator *Orchestrator
	sessions     *Registry
	cache        ProgressCache
	log          *logger.Logger
	now          func() time.Time
}

func New(store Store, baseLog *logger.Logger, opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := baseLog.With("service", "ProgressionEngine")
	ledger := NewLedger(store, log, now)
	tracker := NewTracker(store, log, now, opts.AfterFunc)
	return &Engine{
		store:        store,
		ledger:       ledger,
		tracker:      tracker,
		orchestrator: NewOrchestrator(store, ledger, tracker, opts.Issuer, opts.NewCertificateNumber, log, now),
		sessions:     NewRegistry(),
		cache:        opts.Cache,
		log:          log,
		now:          now,
	}
}

// CompletionOutcome is returned by RecordCompletion, including on ErrAlreadyCompleted.
type CompletionOutcome struct {
	Completion        *course.ContentCompletion `json:"completion"`
	AlreadyCompleted  bool                      `json:"already_completed"`
	Progress          Progress                  `json:"progress"`
	CanFinalizeCourse bool                      `json:"can_finalize_course"`
}

// SubmitOutcome is a finalized attempt with the learner's updated standing.
type SubmitOutcome struct {
	Attempt      *course.QuizAttempt `json:"attempt"`
	ScorePercent int                 `json:"score_percent"`
	Passed       bool                `json:"passed"`
	Summary      QuizSummary         `json:"summary"`
}

// GetProgress never fails on store outages: it serves the last cached value marked
// stale, or a zero value marked unknown. Missing courses are still reported.
func (e *Engine) GetProgress(ctx context.Context, learnerID, courseID uint) (Progress, error) {
	p, err := e.computeProgress(ctx, learnerID, courseID)
	if err == nil {
		e.cacheSet(ctx, learnerID, p)
		return p, nil
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		return Progress{}, err
	}
	e.log.Warn("progress degraded", "user_id", learnerID, "course_id", courseID, "error", err)
	if e.cache != nil {
		if cached, cerr := e.cache.Get(ctx, learnerID, courseID); cerr == nil && cached != nil {
			cached.Stale = true
			return *cached, nil
		}
	}
	return Progress{CourseID: courseID, Unknown: true, ComputedAt: e.now()}, nil
}

// CanCompleteContent reports whether the caller may mark the content done now.
func (e *Engine) CanCompleteContent(ctx context.Context, who Identity, contentID uint) (Eligibility, error) {
	content, section, err := e.resolveContent(ctx, contentID)
	if err != nil {
		return Eligibility{}, err
	}
	return e.orchestrator.CanComplete(ctx, who, *content, *section)
}

// RecordCompletion marks content done for the caller. A repeat call returns the
// existing completion with ErrAlreadyCompleted; a failed gate returns
// *CompletionBlockedError.
func (e *Engine) RecordCompletion(ctx context.Context, who Identity, contentID uint) (*CompletionOutcome, error) {
	content, section, err := e.resolveContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	elig, err := e.orchestrator.CanComplete(ctx, who, *content, *section)
	if err != nil {
		return nil, err
	}

	var row *course.ContentCompletion
	switch {
	case elig.AlreadyCompleted:
		row, err = e.store.FindContentCompletion(ctx, who.UserID, content.ID)
		if err != nil {
			return nil, err
		}
		return e.completionOutcome(ctx, who, section.CourseID, row, true), ErrAlreadyCompleted
	case !elig.CanComplete:
		return nil, &CompletionBlockedError{Reason: elig.Reason}
	}

	row, err = e.ledger.Record(ctx, who.UserID, section.CourseID, content.ID)
	if errors.Is(err, ErrAlreadyCompleted) {
		return e.completionOutcome(ctx, who, section.CourseID, row, true), ErrAlreadyCompleted
	}
	if err != nil {
		return nil, err
	}
	e.cacheDelete(ctx, who.UserID, section.CourseID)
	return e.completionOutcome(ctx, who, section.CourseID, row, false), nil
}

func (e *Engine) completionOutcome(ctx context.Context, who Identity, courseID uint, row *course.ContentCompletion, already bool) *CompletionOutcome {
	out := &CompletionOutcome{Completion: row, AlreadyCompleted: already}
	// degraded progress is acceptable here; the write above already succeeded
	p, err := e.GetProgress(ctx, who.UserID, courseID)
	if err != nil {
		e.log.Warn("progress after completion unavailable", "user_id", who.UserID, "course_id", courseID, "error", err)
		return out
	}
	out.Progress = p
	out.CanFinalizeCourse = p.IsEligibleForCompletion && !p.CourseCompleted && !p.Stale && !p.Unknown
	return out
}

// StartQuizAttempt opens, or resumes, the caller's attempt at the quiz behind contentID.
func (e *Engine) StartQuizAttempt(ctx context.Context, who Identity, contentID uint) (*AttemptSession, error) {
	content, section, err := e.resolveContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if !canSee(who, *content, *section, e.now()) {
		return nil, ErrContentUnavailable
	}
	quiz, _, err := e.quizFor(ctx, content)
	if err != nil {
		return nil, err
	}
	if live := e.sessions.Get(who.UserID, quiz.ID); live != nil && live.Result() == nil {
		return live, nil
	}
	session, err := e.tracker.Start(ctx, who.UserID, quiz)
	if err != nil {
		return nil, err
	}
	e.sessions.Put(session)
	return session, nil
}

// AnswerQuestion updates the caller's live session; nothing is written to the store.
func (e *Engine) AnswerQuestion(ctx context.Context, who Identity, contentID, questionID uint, option int) error {
	content, err := e.visibleContent(ctx, who, contentID)
	if err != nil {
		return err
	}
	quiz, _, err := e.quizFor(ctx, content)
	if err != nil {
		return err
	}
	session := e.sessions.Get(who.UserID, quiz.ID)
	if session == nil {
		return ErrNoActiveAttempt
	}
	return session.SelectAnswer(questionID, option)
}

// SubmitQuizAttempt finalizes the caller's attempt. answers, when given, are applied
// on top of those already held. Without a live session the outstanding attempt is
// finalized in place, or a completed attempt is recorded directly. A submitted
// session leaves the registry, so the next call always starts a new attempt; the
// one exception is a session the timer finalized, whose record the next call returns.
func (e *Engine) SubmitQuizAttempt(ctx context.Context, who Identity, contentID uint, answers course.Answers) (*SubmitOutcome, error) {
	content, err := e.visibleContent(ctx, who, contentID)
	if err != nil {
		return nil, err
	}
	quiz, payload, err := e.quizFor(ctx, content)
	if err != nil {
		return nil, err
	}

	var attempt *course.QuizAttempt
	if session := e.sessions.Get(who.UserID, quiz.ID); session != nil {
		if session.Result() == nil {
			for qid, opt := range answers {
				if err := session.SelectAnswer(qid, opt); err != nil {
					return nil, err
				}
			}
		}
		attempt, err = session.Submit(ctx)
		if err == nil {
			e.sessions.Remove(session)
		}
	} else {
		attempt, err = e.tracker.SubmitDetached(ctx, who.UserID, quiz, answers)
	}
	if err != nil {
		return nil, err
	}

	passing := payload.EffectivePassingScore()
	summary, err := e.tracker.Summarize(ctx, who.UserID, quiz, passing)
	if err != nil {
		return nil, fmt.Errorf("attempt %d submitted, summary unavailable: %w", attempt.ID, err)
	}
	pct := Percent(attempt.Score, attempt.MaxScore)
	return &SubmitOutcome{
		Attempt:      attempt,
		ScorePercent: pct,
		Passed:       passing == 0 || pct >= passing,
		Summary:      summary,
	}, nil
}

// GetQuizSummary reports the caller's standing on the quiz behind contentID.
func (e *Engine) GetQuizSummary(ctx context.Context, who Identity, contentID uint) (QuizSummary, error) {
	content, err := e.visibleContent(ctx, who, contentID)
	if err != nil {
		return QuizSummary{}, err
	}
	quiz, payload, err := e.quizFor(ctx, content)
	if err != nil {
		return QuizSummary{}, err
	}
	return e.tracker.Summarize(ctx, who.UserID, quiz, payload.EffectivePassingScore())
}

// CompleteCourse finalizes the course for the caller. It is idempotent.
func (e *Engine) CompleteCourse(ctx context.Context, who Identity, courseID uint) (*CourseOutcome, error) {
	crs, err := e.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out, err := e.orchestrator.CompleteCourse(ctx, who, crs, func(ctx context.Context) (Progress, error) {
		return e.computeProgress(ctx, who.UserID, courseID)
	})
	if out != nil && out.Created {
		e.cacheDelete(ctx, who.UserID, courseID)
	}
	return out, err
}

// GetCertificate returns nil without error when no certificate exists.
func (e *Engine) GetCertificate(ctx context.Context, learnerID, courseID uint) (*course.Certificate, error) {
	cert, err := e.store.FindCertificate(ctx, learnerID, courseID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cert, nil
}

// EnsureCertificateDocument renders a missing document for an issued certificate.
func (e *Engine) EnsureCertificateDocument(ctx context.Context, learnerID, courseID uint) (*course.Certificate, error) {
	cert, err := e.GetCertificate(ctx, learnerID, courseID)
	if err != nil || cert == nil {
		return cert, err
	}
	crs, err := e.store.GetCourse(ctx, courseID)
	if err != nil {
		return cert, err
	}
	return e.orchestrator.EnsureDocument(ctx, crs, cert)
}

// SweepExpiredAttempts finalizes incomplete timed attempts whose deadline passed
// more than grace ago, with whatever answers are held for them.
func (e *Engine) SweepExpiredAttempts(ctx context.Context, grace time.Duration) (int, error) {
	now := e.now()
	open, err := e.store.ListOpenAttempts(ctx, now.Add(-grace))
	if err != nil {
		return 0, err
	}
	quizzes := make(map[uint]*course.Quiz)
	swept := 0
	for _, a := range open {
		quiz, ok := quizzes[a.QuizID]
		if !ok {
			quiz, err = e.store.GetQuiz(ctx, a.QuizID)
			if err != nil {
				e.log.Warn("sweep: quiz lookup failed", "quiz_id", a.QuizID, "error", err)
				continue
			}
			quizzes[a.QuizID] = quiz
		}
		d := a.Deadline(quiz.TimeLimit)
		if d == nil || d.Add(grace).After(now) {
			continue
		}
		session := e.sessions.Get(a.UserID, a.QuizID)
		if session == nil || session.AttemptID() != a.ID {
			session = newAttemptSession(e.tracker, quiz, a)
		}
		if _, err := session.Submit(ctx); err != nil {
			e.log.Warn("sweep: finalize failed", "attempt_id", a.ID, "error", err)
			continue
		}
		swept++
	}
	if swept > 0 {
		e.log.Info("expired quiz attempts finalized", "count", swept)
	}
	return swept, nil
}

// Close tears down live attempt sessions without submitting them.
func (e *Engine) Close() {
	e.sessions.CloseAll()
}

func (e *Engine) computeProgress(ctx context.Context, learnerID, courseID uint) (Progress, error) {
	g, err := e.loadGraph(ctx, courseID)
	if err != nil {
		return Progress{}, err
	}
	done, err := e.ledger.CompletedSet(ctx, learnerID, g.ContentIDs())
	if err != nil {
		return Progress{}, err
	}
	p := Aggregate(*g, done, e.now())
	_, err = e.store.FindCourseCompletion(ctx, learnerID, courseID)
	switch {
	case err == nil:
		p.CourseCompleted = true
	case !errors.Is(err, errs.ErrNotFound):
		return Progress{}, err
	}
	return p, nil
}

func (e *Engine) loadGraph(ctx context.Context, courseID uint) (*Graph, error) {
	var g Graph
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		c, err := e.store.GetCourse(gctx, courseID)
		if err != nil {
			return err
		}
		g.Course = *c
		return nil
	})
	grp.Go(func() error {
		sections, err := e.store.ListSections(gctx, courseID)
		if err != nil {
			return err
		}
		g.Sections = sections
		return nil
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(g.Sections))
	for _, s := range g.Sections {
		ids = append(ids, s.ID)
	}
	contents, err := e.store.ListContents(ctx, ids)
	if err != nil {
		return nil, err
	}
	g.Contents = contents
	return &g, nil
}

func (e *Engine) resolveContent(ctx context.Context, contentID uint) (*course.SectionContent, *course.CourseSection, error) {
	content, err := e.store.GetContent(ctx, contentID)
	if err != nil {
		return nil, nil, err
	}
	section, err := e.store.GetSection(ctx, content.SectionID)
	if err != nil {
		return nil, nil, err
	}
	return content, section, nil
}

// visibleContent resolves contentID and rejects learners who cannot see it.
func (e *Engine) visibleContent(ctx context.Context, who Identity, contentID uint) (*course.SectionContent, error) {
	content, section, err := e.resolveContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if !canSee(who, *content, *section, e.now()) {
		return nil, ErrContentUnavailable
	}
	return content, nil
}

// canSee is true for admins and for published content in a visible section.
func canSee(who Identity, content course.SectionContent, section course.CourseSection, at time.Time) bool {
	return who.IsAdmin() || (content.IsPublished && section.IsVisible(at))
}

func (e *Engine) quizFor(ctx context.Context, content *course.SectionContent) (*course.Quiz, course.QuizPayload, error) {
	if !content.IsQuiz() {
		return nil, course.QuizPayload{}, ErrNotQuiz
	}
	payload, err := content.QuizPayload()
	if err != nil {
		return nil, payload, err
	}
	quiz, err := e.store.GetQuiz(ctx, payload.QuizID)
	if err != nil {
		return nil, payload, err
	}
	return quiz, payload, nil
}

func (e *Engine) cacheSet(ctx context.Context, learnerID uint, p Progress) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, learnerID, p); err != nil {
		e.log.Warn("progress cache write failed", "user_id", learnerID, "course_id", p.CourseID, "error", err)
	}
}

func (e *Engine) cacheDelete(ctx context.Context, learnerID, courseID uint) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Delete(ctx, learnerID, courseID); err != nil {
		e.log.Warn("progress cache invalidation failed", "user_id", learnerID, "course_id", courseID, "error", err)
	}
}
