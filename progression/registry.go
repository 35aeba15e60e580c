package progression

import "sync"

type sessionKey struct {
	userID uint
	quizID uint
}

// Registry holds live attempt sessions so answers can be collected across calls.
type Registry struct {
	mu       sync.Mutex
	sessions map[sessionKey]*AttemptSession
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[sessionKey]*AttemptSession)}
}

// Put stores s, closing any session it replaces.
func (r *Registry) Put(s *AttemptSession) {
	key := sessionKey{userID: s.UserID(), quizID: s.QuizID()}
	r.mu.Lock()
	old := r.sessions[key]
	r.sessions[key] = s
	r.mu.Unlock()
	if old != nil && old != s {
		old.Close()
	}
}

func (r *Registry) Get(userID, quizID uint) *AttemptSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionKey{userID: userID, quizID: quizID}]
}

// Remove drops s unless it has already been replaced.
func (r *Registry) Remove(s *AttemptSession) {
	key := sessionKey{userID: s.UserID(), quizID: s.QuizID()}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[key] == s {
		delete(r.sessions, key)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll tears every session down without submitting.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[sessionKey]*AttemptSession)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
