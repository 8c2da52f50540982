package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/finpath/internal/domain/entities"
	"github.com/aliskhannn/finpath/internal/repository"
	"github.com/aliskhannn/finpath/internal/storage"
	"github.com/aliskhannn/finpath/web"
)

// Option indexes in the default content.
const (
	correctOption   = 0
	incorrectOption = 1
)

func newTestQuizService(t *testing.T) (*QuizService, *storage.QuizStorage) {
	t.Helper()

	repo, err := repository.NewContentRepositoryFromYAML(web.DefaultContent)
	require.NoError(t, err)

	store := storage.NewQuizStorage(time.Hour)
	return NewQuizService(repo, store, zap.NewNop()), store
}

func TestQuizServiceScenarios(t *testing.T) {
	tests := []struct {
		name      string
		options   []int
		wantScore int
	}{
		{name: "both correct", options: []int{correctOption, correctOption}, wantScore: 2},
		{name: "first incorrect", options: []int{incorrectOption, correctOption}, wantScore: 1},
		{name: "both incorrect", options: []int{incorrectOption, 3}, wantScore: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, _ := newTestQuizService(t)

			qs, err := svc.Start(ctx)
			require.NoError(t, err)
			require.Equal(t, entities.QuizState{Total: 2}, qs.State)

			var res *AnswerResult
			for i, opt := range tt.options {
				res, err = svc.Answer(ctx, qs.ID, i, opt)
				require.NoError(t, err)
				require.True(t, res.Applied)
			}

			assert.True(t, res.Session.State.Complete)
			assert.Equal(t, tt.wantScore, res.Session.State.Score)
			assert.Equal(t, 2, res.Session.State.Total)
			assert.Nil(t, res.Next)
			assert.NotNil(t, res.Session.CompletedAt)
		})
	}
}

func TestQuizServiceFirstAnswer(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestQuizService(t)

	qs, err := svc.Start(ctx)
	require.NoError(t, err)

	res, err := svc.Answer(ctx, qs.ID, 0, incorrectOption)
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.False(t, res.Correct)
	assert.Equal(t, "A plan for how to spend and save money", res.Answer.Text)
	assert.Equal(t, entities.QuizState{CurrentQuestion: 1, Score: 0, Total: 2}, res.Session.State)
	require.NotNil(t, res.Next)
	assert.Equal(t, "What is an emergency fund?", res.Next.Question)

	current, q, err := svc.Current(ctx, qs.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Session.State, current.State)
	assert.Equal(t, res.Next, q)
}

func TestQuizServiceStaleAndCompletedSubmits(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestQuizService(t)

	qs, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.Answer(ctx, qs.ID, 0, correctOption)
	require.NoError(t, err)

	// A repeated submit for question 0 must not advance the attempt again.
	res, err := svc.Answer(ctx, qs.ID, 0, correctOption)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, entities.QuizState{CurrentQuestion: 1, Score: 1, Total: 2}, res.Session.State)

	res, err = svc.Answer(ctx, qs.ID, 1, correctOption)
	require.NoError(t, err)
	require.True(t, res.Session.State.Complete)
	final := res.Session.State

	res, err = svc.Answer(ctx, qs.ID, 1, correctOption)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, final, res.Session.State)

	_, q, err := svc.Current(ctx, qs.ID)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestQuizServiceErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestQuizService(t)

	_, err := svc.Answer(ctx, "missing", 0, 0)
	require.ErrorIs(t, err, ErrSessionNotFound)

	_, _, err = svc.Current(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)

	qs, err := svc.Start(ctx)
	require.NoError(t, err)

	for _, opt := range []int{-1, 4, 100} {
		_, err = svc.Answer(ctx, qs.ID, 0, opt)
		require.ErrorIs(t, err, ErrInvalidOption)
	}

	current, _, err := svc.Current(ctx, qs.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuizState{Total: 2}, current.State)
}

func TestQuizServiceAbandon(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestQuizService(t)

	qs, err := svc.Start(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	require.NoError(t, svc.Abandon(ctx, qs.ID))
	_, _, err = svc.Current(ctx, qs.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestQuizServiceSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestQuizService(t)

	a, err := svc.Start(ctx)
	require.NoError(t, err)
	b, err := svc.Start(ctx)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	_, err = svc.Answer(ctx, a.ID, 0, correctOption)
	require.NoError(t, err)

	got, _, err := svc.Current(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuizState{Total: 2}, got.State)
}

func TestQuizServiceListeners(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestQuizService(t)

	type transition struct {
		id         string
		prev, next entities.QuizState
	}
	var got []transition
	svc.Subscribe(func(_ context.Context, id string, prev, next entities.QuizState) {
		got = append(got, transition{id: id, prev: prev, next: next})
	})
	svc.Subscribe(LogTransitions(zap.NewNop()))

	qs, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.Answer(ctx, qs.ID, 0, correctOption)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, qs.ID, 0, correctOption) // stale, not notified
	require.NoError(t, err)
	_, err = svc.Answer(ctx, qs.ID, 1, incorrectOption)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, qs.ID, got[0].id)
	assert.Equal(t, entities.QuizState{Total: 2}, got[0].prev)
	assert.Equal(t, entities.QuizState{CurrentQuestion: 1, Score: 1, Total: 2}, got[0].next)
	assert.Equal(t, entities.QuizState{CurrentQuestion: 1, Score: 1, Total: 2, Complete: true}, got[1].next)
}

func TestQuizServiceConcurrentSubmits(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestQuizService(t)

	qs, err := svc.Start(ctx)
	require.NoError(t, err)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Answer(ctx, qs.ID, 0, correctOption)
			if err != nil {
				return
			}
			if res.Applied {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
	assert.Zero(t, svc.locks.size())

	current, _, err := svc.Current(ctx, qs.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.QuizState{CurrentQuestion: 1, Score: 1, Total: 2}, current.State)
}

type failingStore struct {
	storage.QuizStorage
	err error
}

func (f *failingStore) Save(context.Context, *entities.QuizSession) error { return f.err }

func TestQuizServiceStartStoreError(t *testing.T) {
	repo, err := repository.NewContentRepositoryFromYAML(web.DefaultContent)
	require.NoError(t, err)

	boom := errors.New("boom")
	svc := NewQuizService(repo, &failingStore{err: boom}, zap.NewNop())

	_, err = svc.Start(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestContentService(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.NewContentRepositoryFromYAML(web.DefaultContent)
	require.NoError(t, err)

	svc := NewContentService(repo)

	first := svc.GetModules(ctx)
	require.Len(t, first, 2)
	assert.Equal(t, "budgeting", first[0].ID)
	assert.Equal(t, "saving", first[1].ID)
	assert.Len(t, first[0].Lessons, 2)
	assert.Len(t, first[1].Lessons, 2)
	assert.Equal(t, first, svc.GetModules(ctx))

	m, err := svc.GetModule(ctx, "saving")
	require.NoError(t, err)
	assert.Equal(t, "Saving Strategies", m.Title)

	_, err = svc.GetModule(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrModuleNotFound)

	assert.Len(t, svc.GetQuestions(ctx), 2)
	assert.Equal(t, 2, svc.QuestionCount(ctx))
}
