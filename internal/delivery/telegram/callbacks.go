package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/finpath/internal/repository"
	"github.com/aliskhannn/finpath/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID
	cd := decodeCallback(cb.Data)

	switch {
	case cd.Action == actionLessons:
		h.answerCallback(cb.ID, "")
		_ = h.withErrorHandling(h.showModules(messageID))(ctx, chatID)

	case cd.Action == actionModule && len(cd.Params) == 1:
		h.answerCallback(cb.ID, "")
		_ = h.withErrorHandling(h.showModule(messageID, cd.Params[0]))(ctx, chatID)

	case cd.Action == actionQuiz && len(cd.Params) == 1 && cd.Params[0] == quizStart:
		h.answerCallback(cb.ID, "")
		_ = h.withErrorHandling(h.handleQuiz())(ctx, chatID)

	case cd.Action == actionQuiz:
		_ = h.withErrorHandling(h.handleQuizAnswer(cb))(ctx, chatID)

	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
	}
}

// showModules turns the message into the module list.
func (h *Handler) showModules(messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		modules := h.contentService.GetModules(ctx)
		kb := buildModulesKeyboard(modules)
		return h.editMessage(chatID, messageID, formatModules(modules), &kb)
	}
}

// showModule turns the message into a single module with its lessons.
func (h *Handler) showModule(messageID int, moduleID string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		module, err := h.contentService.GetModule(ctx, moduleID)
		if errors.Is(err, repository.ErrModuleNotFound) {
			return h.send(newPlainMessage(chatID, msgModuleNotFound))
		}
		if err != nil {
			return err
		}

		kb := buildModuleKeyboard()
		return h.editMessage(chatID, messageID, formatModule(module), &kb)
	}
}

// handleQuizAnswer applies the pressed option and edits the question
// message into the next question or the result.
func (h *Handler) handleQuizAnswer(cb *tgbotapi.CallbackQuery) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		answer, err := parseQuizAnswer(decodeCallback(cb.Data))
		if err != nil {
			h.logger.Debug("invalid quiz callback", zap.String("data", cb.Data))
			h.answerCallback(cb.ID, msgInvalidAnswer)
			return nil
		}

		res, err := h.quizService.Answer(ctx, answer.SessionID, answer.QuestionIndex, answer.OptionIndex)
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			h.answerCallback(cb.ID, msgQuizExpired)
			return nil
		case errors.Is(err, service.ErrInvalidOption):
			h.answerCallback(cb.ID, msgInvalidAnswer)
			return nil
		case err != nil:
			h.answerCallback(cb.ID, "")
			return fmt.Errorf("answer quiz question: %w", err)
		}

		if !res.Applied {
			h.answerCallback(cb.ID, msgAlreadyAnswered)
			return nil
		}
		h.answerCallback(cb.ID, "")

		feedback := formatAnswerFeedback(res.Correct, res.Answer)
		state := res.Session.State

		if state.Complete || res.Next == nil {
			if cq, ok := h.chats.Get(chatID); ok && cq.SessionID == answer.SessionID {
				h.chats.Delete(chatID)
			}
			kb := buildQuizResultKeyboard()
			return h.editMessage(chatID, cb.Message.MessageID, feedback+"\n\n"+formatQuizResult(state), &kb)
		}

		kb := buildQuizAnswerKeyboard(res.Next, answer.SessionID, state.CurrentQuestion)
		return h.editMessage(chatID, cb.Message.MessageID, feedback+"\n\n"+formatQuizQuestion(res.Next, state), &kb)
	}
}
