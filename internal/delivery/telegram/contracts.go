package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/finpath/internal/domain/entities"
	"github.com/aliskhannn/finpath/internal/service"
	"github.com/aliskhannn/finpath/internal/storage"
)

// Bot is the subset of *tgbotapi.BotAPI the handler needs.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type ContentService interface {
	GetModules(ctx context.Context) []entities.LessonModule
	GetModule(ctx context.Context, id string) (entities.LessonModule, error)
}

type QuizService interface {
	Start(ctx context.Context) (*entities.QuizSession, error)
	Current(ctx context.Context, sessionID string) (*entities.QuizSession, *entities.Question, error)
	Answer(ctx context.Context, sessionID string, questionIndex, optionIndex int) (*service.AnswerResult, error)
	Abandon(ctx context.Context, sessionID string) error
}

type ChatStorage interface {
	Store(chatID int64, sessionID string, messageID int)
	Get(chatID int64) (storage.ChatQuiz, bool)
	Delete(chatID int64)
}
