package service

import (
	"context"

	"github.com/aliskhannn/finpath/internal/domain/entities"
)

// ContentRepository provides the immutable lesson and quiz dataset.
type ContentRepository interface {
	GetModules() []entities.LessonModule
	GetModule(id string) (entities.LessonModule, error)
	GetQuestions() []entities.Question
	QuestionCount() int
}

// QuizStore persists ephemeral quiz sessions.
type QuizStore interface {
	Save(ctx context.Context, qs *entities.QuizSession) error
	Get(ctx context.Context, id string) (*entities.QuizSession, error)
	Delete(ctx context.Context, id string) error
}

// StateListener is notified after every applied quiz transition.
type StateListener func(ctx context.Context, sessionID string, prev, next entities.QuizState)
