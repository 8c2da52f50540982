package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/aliskhannn/finpath/internal/domain/entities"
	"github.com/aliskhannn/finpath/internal/storage"
)

var (
	ErrSessionNotFound = storage.ErrSessionNotFound
	ErrInvalidOption   = errors.New("invalid option index")
)

var tracer = otel.Tracer("github.com/aliskhannn/finpath/internal/service")

// AnswerResult describes the outcome of one answer submission.
type AnswerResult struct {
	Session  *entities.QuizSession // session after the submission
	Applied  bool                  // false when the submit was stale or the attempt was already complete
	Correct  bool                  // whether the selected option was correct, meaningful only when Applied
	Answer   entities.Option       // the correct option of the answered question, meaningful only when Applied
	Next     *entities.Question    // question to show next, nil once the attempt is complete
	Selected int                   // index of the selected option
}

// QuizService drives quiz attempts over the content questions.
type QuizService struct {
	content ContentRepository
	store   QuizStore
	logger  *zap.Logger
	locks   *keyedMutex

	newID func() string
	now   func() time.Time

	mu        sync.RWMutex
	listeners []StateListener
}

func NewQuizService(content ContentRepository, store QuizStore, logger *zap.Logger) *QuizService {
	return &QuizService{
		content: content,
		store:   store,
		logger:  logger,
		locks:   newKeyedMutex(),
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Subscribe registers l for every applied transition.
func (s *QuizService) Subscribe(l StateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Start creates a fresh attempt positioned at the first question.
func (s *QuizService) Start(ctx context.Context) (*entities.QuizSession, error) {
	ctx, span := tracer.Start(ctx, "quiz.start")
	defer span.End()

	qs := entities.NewQuizSession(s.newID(), s.content.QuestionCount(), s.now())
	if err := s.store.Save(ctx, qs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save session")
		return nil, fmt.Errorf("start quiz: %w", err)
	}

	span.SetAttributes(
		attribute.String("quiz.session_id", qs.ID),
		attribute.Int("quiz.total", qs.State.Total),
	)
	s.logger.Debug("quiz session started",
		zap.String("session_id", qs.ID),
		zap.Int("total_questions", qs.State.Total),
	)

	return qs, nil
}

// Current returns the session and the question it is positioned at.
// The question is nil once the attempt is complete.
func (s *QuizService) Current(ctx context.Context, sessionID string) (*entities.QuizSession, *entities.Question, error) {
	qs, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return qs, s.questionAt(qs.State), nil
}

// Answer submits optionIndex for the question at questionIndex.
// A questionIndex other than the current one is a stale submit (double click,
// browser back) and leaves the session untouched.
func (s *QuizService) Answer(ctx context.Context, sessionID string, questionIndex, optionIndex int) (*AnswerResult, error) {
	ctx, span := tracer.Start(ctx, "quiz.answer")
	defer span.End()
	span.SetAttributes(
		attribute.String("quiz.session_id", sessionID),
		attribute.Int("quiz.question_index", questionIndex),
		attribute.Int("quiz.option_index", optionIndex),
	)

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	qs, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{Session: qs, Selected: optionIndex}

	if !qs.IsActive() || questionIndex != qs.State.CurrentQuestion {
		result.Next = s.questionAt(qs.State)
		span.SetAttributes(attribute.Bool("quiz.applied", false))
		return result, nil
	}

	q := s.questionAt(qs.State)
	if q == nil || optionIndex < 0 || optionIndex >= len(q.Options) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOption, optionIndex)
	}

	prev := qs.State
	correct := q.Options[optionIndex].IsCorrect
	qs.Apply(entities.AnswerEvent{IsCorrect: correct}, s.now())

	if err := s.store.Save(ctx, qs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save session")
		return nil, fmt.Errorf("save answer: %w", err)
	}

	_, result.Answer = q.CorrectOption()
	result.Applied = true
	result.Correct = correct
	result.Next = s.questionAt(qs.State)

	span.SetAttributes(
		attribute.Bool("quiz.applied", true),
		attribute.Bool("quiz.correct", correct),
		attribute.Bool("quiz.complete", qs.State.Complete),
	)

	s.notify(ctx, sessionID, prev, qs.State)

	return result, nil
}

// Abandon discards the attempt.
func (s *QuizService) Abandon(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("abandon quiz: %w", err)
	}
	return nil
}

func (s *QuizService) questionAt(state entities.QuizState) *entities.Question {
	if state.Complete {
		return nil
	}

	questions := s.content.GetQuestions()
	if state.CurrentQuestion < 0 || state.CurrentQuestion >= len(questions) {
		return nil
	}

	q := questions[state.CurrentQuestion]
	return &q
}

func (s *QuizService) notify(ctx context.Context, sessionID string, prev, next entities.QuizState) {
	s.mu.RLock()
	listeners := append([]StateListener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, sessionID, prev, next)
	}
}

// LogTransitions returns a listener that logs every transition.
func LogTransitions(logger *zap.Logger) StateListener {
	return func(_ context.Context, sessionID string, prev, next entities.QuizState) {
		if next.Complete {
			logger.Info("quiz completed",
				zap.String("session_id", sessionID),
				zap.Int("score", next.Score),
				zap.Int("total", next.Total),
			)
			return
		}

		logger.Debug("quiz advanced",
			zap.String("session_id", sessionID),
			zap.Int("from_question", prev.CurrentQuestion),
			zap.Int("to_question", next.CurrentQuestion),
			zap.Int("score", next.Score),
		)
	}
}
