package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/studysmart/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Meta describes what a session is playing.
type Meta struct {
	QuizID     string
	Topic      string
	Difficulty models.Difficulty
}

// Entry is a registered session with its owner and metadata.
type Entry struct {
	ID      string
	Owner   models.Owner
	Meta    Meta
	Session *Session

	created  time.Time
	lastSeen time.Time
}

// Registry holds live sessions in memory, keyed by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Entry
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry evicts sessions idle for longer than ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Create starts a new session for owner.
func (r *Registry) Create(owner models.Owner, meta Meta, questions []models.Question) (*Entry, error) {
	s, err := New(questions)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	now := r.now()
	e := &Entry{
		ID:       uuid.NewString(),
		Owner:    owner,
		Meta:     meta,
		Session:  s,
		created:  now,
		lastSeen: now,
	}
	r.sessions[e.ID] = e
	return e, nil
}

// Get returns the session if it exists and belongs to owner. Sessions of
// other owners are reported as not found.
func (r *Registry) Get(id string, owner models.Owner) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.Owner != owner {
		return nil, ErrSessionNotFound
	}
	if r.expiredLocked(e) {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e, nil
}

// Remove drops a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Sweep evicts idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expiredLocked(e *Entry) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}

func (r *Registry) sweepLocked() int {
	n := 0
	for id, e := range r.sessions {
		if r.expiredLocked(e) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
