package progression_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"lms/certificate"
	"lms/errs"
	"lms/models/course"
	"lms/progression"
	"lms/store/storetest"
)

var (
	learner = progression.Identity{UserID: 1, Role: progression.RoleLearner, Name: "Ada Lovelace"}
	admin   = progression.Identity{UserID: 99, Role: progression.RoleAdmin, Name: "Admin"}
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// timers replaces time.AfterFunc; nothing fires until Fire is called.
type timers struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (ts *timers) AfterFunc(d time.Duration, f func()) func() bool {
	t := &fakeTimer{d: d, f: f}
	ts.mu.Lock()
	ts.pending = append(ts.pending, t)
	ts.mu.Unlock()
	return func() bool {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		active := !t.stopped && !t.fired
		t.stopped = true
		return active
	}
}

func (ts *timers) Active() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	n := 0
	for _, t := range ts.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Fire runs every active timer synchronously.
func (ts *timers) Fire() int {
	ts.mu.Lock()
	var due []*fakeTimer
	for _, t := range ts.pending {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	ts.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

type fakeIssuer struct {
	mu    sync.Mutex
	calls []certificate.Data
	err   error
}

func (f *fakeIssuer) Issue(ctx context.Context, data certificate.Data) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, data)
	if f.err != nil {
		return "", f.err
	}
	return certificate.DocumentKey(data.CertificateNumber, ".png"), nil
}

func (f *fakeIssuer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type memCache struct {
	mu   sync.Mutex
	data map[string]progression.Progress
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]progression.Progress)}
}

func cacheKey(userID, courseID uint) string { return fmt.Sprintf("%d:%d", userID, courseID) }

func (m *memCache) Get(ctx context.Context, userID, courseID uint) (*progression.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[cacheKey(userID, courseID)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memCache) Set(ctx context.Context, userID uint, p progression.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[cacheKey(userID, p.CourseID)] = p
	return nil
}

func (m *memCache) Delete(ctx context.Context, userID, courseID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, cacheKey(userID, courseID))
	return nil
}

// flakyStore fails graph reads while down is set.
type flakyStore struct {
	progression.Store
	down atomic.Bool
}

func (f *flakyStore) GetCourse(ctx context.Context, courseID uint) (*course.Course, error) {
	if f.down.Load() {
		return nil, errs.Store("get course", errors.New("connection refused"))
	}
	return f.Store.GetCourse(ctx, courseID)
}

func (f *flakyStore) ListSections(ctx context.Context, courseID uint) ([]course.CourseSection, error) {
	if f.down.Load() {
		return nil, errs.Store("list sections", errors.New("connection refused"))
	}
	return f.Store.ListSections(ctx, courseID)
}

type env struct {
	engine *progression.Engine
	store  *flakyStore
	db     *gorm.DB
	clock  *clock
	timers *timers
	issuer *fakeIssuer
	cache  *memCache
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st, db := storetest.Store(t)
	e := &env{
		store:  &flakyStore{Store: st},
		db:     db,
		clock:  newClock(),
		timers: &timers{},
		issuer: &fakeIssuer{},
		cache:  newMemCache(),
	}
	e.engine = progression.New(e.store, storetest.Logger(t), progression.Options{
		Cache:     e.cache,
		Issuer:    e.issuer,
		Now:       e.clock.Now,
		AfterFunc: e.timers.AfterFunc,
	})
	t.Cleanup(e.engine.Close)
	return e
}

// quizCourse seeds a course with one text item and one quiz item.
func (e *env) quizCourse(t *testing.T, maxAttempts int, timeLimit *int, passing *int, points ...int) (*course.Course, *course.SectionContent, *course.SectionContent, *course.Quiz) {
	t.Helper()
	crs := storetest.SeedCourse(t, e.db, "Go Basics", true)
	sec := storetest.SeedSection(t, e.db, crs.ID, 0, "", nil)
	text := storetest.SeedContent(t, e.db, sec.ID, 0, course.ContentText, true)
	quiz := storetest.SeedQuiz(t, e.db, crs.ID, maxAttempts, timeLimit, points...)
	item := storetest.SeedQuizContent(t, e.db, sec.ID, 1, quiz.ID, passing)
	return crs, text, item, quiz
}

func (e *env) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
