package medassist

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tenwave/medassist/schema"
)

// Session is the explicit conversation context passed into and out of
// every turn. Messages hold the raw transcript; Suggestions are the
// follow-up questions currently offered to the user.
type Session struct {
	ID          string           `json:"session_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Category    string           `json:"category,omitempty"`
	Messages    []schema.Message `json:"messages"`
	Suggestions []string         `json:"suggestions"`
}

// SessionStore is an abstraction for session persistence.
type SessionStore interface {
	Create(category string, suggestions []string) *Session
	Get(id string) (*Session, bool)
	Delete(id string) bool
	List() []*Session
	// ListRange returns sessions from offset with limit, ordered by recency (desc)
	ListRange(offset, limit int) []*Session
	AddMessage(id string, msg schema.Message) bool
	SetSuggestions(id string, suggestions []string) bool
	SetCategory(id string, category string) bool
	// Reset clears the transcript and restores the given suggestions.
	Reset(id string, suggestions []string) bool
	// Clean removes sessions idle longer than ttl; keeps at most max by
	// recency when max > 0.
	Clean(ttl time.Duration, max int) error
}

// MemSessionStore manages sessions in memory. Accessors return deep
// copies; the store's internal state is only mutated through its
// methods.
type MemSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{sessions: make(map[string]*Session)}
}

func (m *MemSessionStore) Create(category string, suggestions []string) *Session {
	now := time.Now()
	s := &Session{
		ID:          newID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Category:    category,
		Messages:    []schema.Message{},
		Suggestions: append([]string(nil), suggestions...),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return cloneSession(s)
}

func (m *MemSessionStore) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return cloneSession(s), true
}

func (m *MemSessionStore) Delete(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	return ok
}

func (m *MemSessionStore) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, cloneSession(s))
	}
	m.mu.RUnlock()
	// order by UpdatedAt desc for convenience
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (m *MemSessionStore) ListRange(offset, limit int) []*Session {
	list := m.List()
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= len(list) {
		return []*Session{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func (m *MemSessionStore) AddMessage(id string, msg schema.Message) bool {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.Messages = append(s.Messages, msg)
		s.UpdatedAt = time.Now()
	}
	m.mu.Unlock()
	return ok
}

func (m *MemSessionStore) SetSuggestions(id string, suggestions []string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.Suggestions = append([]string(nil), suggestions...)
		s.UpdatedAt = time.Now()
	}
	m.mu.Unlock()
	return ok
}

func (m *MemSessionStore) SetCategory(id string, category string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.Category = category
		s.UpdatedAt = time.Now()
	}
	m.mu.Unlock()
	return ok
}

func (m *MemSessionStore) Reset(id string, suggestions []string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.Messages = []schema.Message{}
		s.Suggestions = append([]string(nil), suggestions...)
		s.UpdatedAt = time.Now()
	}
	m.mu.Unlock()
	return ok
}

func (m *MemSessionStore) Clean(ttl time.Duration, max int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ttl > 0 {
		cutoff := time.Now().Add(-ttl)
		for id, s := range m.sessions {
			if s.UpdatedAt.Before(cutoff) {
				delete(m.sessions, id)
			}
		}
	}
	if max <= 0 || len(m.sessions) <= max {
		return nil
	}
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	for _, s := range out[max:] {
		delete(m.sessions, s.ID)
	}
	return nil
}

func cloneSession(s *Session) *Session {
	out := *s
	out.Messages = make([]schema.Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	out.Suggestions = append([]string(nil), s.Suggestions...)
	return &out
}

func newID() string { return uuid.New().String() }
