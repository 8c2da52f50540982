package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/finpath/internal/domain/entities"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestQuizStorage(ttl time.Duration) (*QuizStorage, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewQuizStorage(ttl)
	s.now = clock.now
	return s, clock
}

func TestQuizStorageSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestQuizStorage(time.Minute)

	qs := entities.NewQuizSession("s1", 2, clock.t)
	require.NoError(t, s.Save(ctx, qs))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, qs, got)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, err = s.Get(ctx, "s1")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizStorageIsolatesCopies(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestQuizStorage(time.Minute)

	qs := entities.NewQuizSession("s1", 1, clock.t)
	require.NoError(t, s.Save(ctx, qs))

	qs.Apply(entities.AnswerEvent{IsCorrect: true}, clock.t)

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, got.State.Complete)
	assert.Nil(t, got.CompletedAt)

	got.State.Score = 42
	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.State.Score)
}

func TestQuizStorageExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestQuizStorage(time.Minute)

	require.NoError(t, s.Save(ctx, entities.NewQuizSession("old", 2, clock.t)))

	clock.t = clock.t.Add(30 * time.Second)
	require.NoError(t, s.Save(ctx, entities.NewQuizSession("new", 2, clock.t)))

	clock.t = clock.t.Add(45 * time.Second)

	_, err := s.Get(ctx, "old")
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Get(ctx, "new")
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestQuizStorageSaveRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestQuizStorage(time.Minute)

	qs := entities.NewQuizSession("s1", 3, clock.t)
	require.NoError(t, s.Save(ctx, qs))

	clock.t = clock.t.Add(50 * time.Second)
	require.NoError(t, s.Save(ctx, qs))

	clock.t = clock.t.Add(50 * time.Second)
	_, err := s.Get(ctx, "s1")
	require.NoError(t, err)
}

func TestChatQuizStorage(t *testing.T) {
	s := NewChatQuizStorage()

	_, ok := s.Get(10)
	require.False(t, ok)

	s.Store(10, "abc", 77)
	cq, ok := s.Get(10)
	require.True(t, ok)
	assert.Equal(t, "abc", cq.SessionID)
	assert.Equal(t, 77, cq.MessageID)

	s.Delete(10)
	_, ok = s.Get(10)
	assert.False(t, ok)
}
