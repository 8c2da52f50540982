package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleStart greets the user with the two entry points.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, formatWelcome())
		msg.ReplyMarkup = buildStartKeyboard()
		return h.send(msg)
	}
}

// handleLessons lists all modules.
func (h *Handler) handleLessons() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		modules := h.contentService.GetModules(ctx)

		msg := newMessage(chatID, formatModules(modules))
		msg.ReplyMarkup = buildModulesKeyboard(modules)
		return h.send(msg)
	}
}

// handleQuiz starts a new attempt for the chat, dropping the previous one.
func (h *Handler) handleQuiz() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if prev, ok := h.chats.Get(chatID); ok {
			if err := h.quizService.Abandon(ctx, prev.SessionID); err != nil {
				h.logger.Warn("failed to abandon previous quiz session",
					zap.Int64("chat_id", chatID),
					zap.String("session_id", prev.SessionID),
					zap.Error(err),
				)
			}
			h.chats.Delete(chatID)
		}

		session, err := h.quizService.Start(ctx)
		if err != nil {
			h.logger.Error("failed to start quiz session",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			return h.send(newPlainMessage(chatID, msgQuizUnavailable))
		}

		_, question, err := h.quizService.Current(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("load quiz session: %w", err)
		}
		if question == nil {
			return h.send(newPlainMessage(chatID, msgNoQuestions))
		}

		h.logger.Debug("quiz session created",
			zap.Int64("chat_id", chatID),
			zap.String("session_id", session.ID),
			zap.Int("total_questions", session.State.Total),
		)

		msg := newMessage(chatID, formatQuizQuestion(question, session.State))
		msg.ReplyMarkup = buildQuizAnswerKeyboard(question, session.ID, session.State.CurrentQuestion)

		sent, err := h.sendMessage(msg)
		if err != nil {
			return err
		}

		h.chats.Store(chatID, session.ID, sent.MessageID)
		return nil
	}
}

// editMessage replaces text and keyboard of an existing message.
func (h *Handler) editMessage(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	edit := newEdit(chatID, messageID, text)
	edit.ReplyMarkup = kb
	return h.send(edit)
}
