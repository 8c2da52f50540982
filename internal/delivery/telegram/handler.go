package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot            Bot
	logger         *zap.Logger
	contentService ContentService
	quizService    QuizService
	chats          ChatStorage
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	contentService ContentService,
	quizService QuizService,
	chats ChatStorage,
) *Handler {
	return &Handler{
		bot:            bot,
		logger:         logger,
		contentService: contentService,
		quizService:    quizService,
		chats:          chats,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling(h.handleStart())(ctx, chatID)

	case "lessons":
		_ = h.withErrorHandling(h.handleLessons())(ctx, chatID)

	case "quiz":
		_ = h.withErrorHandling(h.handleQuiz())(ctx, chatID)

	case "help":
		_ = h.send(newPlainMessage(chatID, msgHelp))

	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	_, err := h.sendMessage(c)
	return err
}

func (h *Handler) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
	return sent, err
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

// answerCallback removes the loading indicator, optionally with a toast.
func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
