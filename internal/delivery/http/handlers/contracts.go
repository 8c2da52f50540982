package handlers

import (
	"context"

	"github.com/aliskhannn/finpath/internal/domain/entities"
	"github.com/aliskhannn/finpath/internal/service"
)

type ContentService interface {
	GetModules(ctx context.Context) []entities.LessonModule
}

type QuizService interface {
	Start(ctx context.Context) (*entities.QuizSession, error)
	Current(ctx context.Context, sessionID string) (*entities.QuizSession, *entities.Question, error)
	Answer(ctx context.Context, sessionID string, questionIndex, optionIndex int) (*service.AnswerResult, error)
	Abandon(ctx context.Context, sessionID string) error
}
