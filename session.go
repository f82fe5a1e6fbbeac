package guard

import (
	"context"
	"time"
)

var (
	_ SessionStore     = (*MemorySession)(nil)
	_ ClientTokenStore = (*MemoryTokenStore)(nil)
)

// MemorySession is an in-memory SessionStore. Like the guard itself it
// is scoped to a single request and does no locking.
type MemorySession struct {
	values map[string]string
}

// NewMemorySession returns an empty in-memory session.
func NewMemorySession() *MemorySession {
	return &MemorySession{values: map[string]string{}}
}

func (s *MemorySession) Put(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

func (s *MemorySession) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemorySession) Forget(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

// Len returns the number of stored values.
func (s *MemorySession) Len() int {
	return len(s.values)
}

type memoryToken struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenStore is an in-memory ClientTokenStore that honors expiry.
// It stands in for a cookie jar in tests and non-HTTP embeddings.
type MemoryTokenStore struct {
	tokens map[string]memoryToken
	now    func() time.Time
}

// NewMemoryTokenStore returns an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: map[string]memoryToken{},
		now:    time.Now,
	}
}

// WithClock overrides the store clock (useful in expiry tests).
func (s *MemoryTokenStore) WithClock(now func() time.Time) *MemoryTokenStore {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *MemoryTokenStore) Set(_ context.Context, key, value string, expiresIn time.Duration) error {
	s.tokens[key] = memoryToken{
		value:     value,
		expiresAt: s.now().Add(expiresIn),
	}
	return nil
}

func (s *MemoryTokenStore) Get(_ context.Context, key string) (string, bool, error) {
	token, ok := s.tokens[key]
	if !ok {
		return "", false, nil
	}

	if s.now().After(token.expiresAt) {
		delete(s.tokens, key)
		return "", false, nil
	}

	return token.value, true, nil
}

func (s *MemoryTokenStore) Clear(_ context.Context, key string) error {
	delete(s.tokens, key)
	return nil
}

// Has reports whether an unexpired token exists for key.
func (s *MemoryTokenStore) Has(key string) bool {
	token, ok := s.tokens[key]
	return ok && s.now().Before(token.expiresAt)
}
