package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/finpath/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("quiz session not found")

type quizEntry struct {
	session   entities.QuizSession
	expiresAt time.Time
}

// QuizStorage provides in-memory storage for quiz sessions by session ID.
// Entries expire ttl after their last save.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[string]quizEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewQuizStorage creates a new QuizStorage.
func NewQuizStorage(ttl time.Duration) *QuizStorage {
	return &QuizStorage{
		sessions: make(map[string]quizEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Save stores a copy of the session and refreshes its expiry.
func (s *QuizStorage) Save(_ context.Context, qs *entities.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[qs.ID] = quizEntry{
		session:   cloneSession(qs),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

// Get retrieves a copy of the session with the given ID.
func (s *QuizStorage) Get(_ context.Context, id string) (*entities.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, ErrSessionNotFound
	}

	qs := cloneSession(&e.session)
	return &qs, nil
}

// Delete removes the session with the given ID.
func (s *QuizStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included until swept.
func (s *QuizStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *QuizStorage) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *QuizStorage) RunSweeper(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug("expired quiz sessions removed", zap.Int("count", n))
			}
		}
	}
}

func cloneSession(qs *entities.QuizSession) entities.QuizSession {
	out := *qs
	if qs.CompletedAt != nil {
		t := *qs.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
