// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/finpath/internal/domain/entities"
)

const (
	msgInternalError   = "Something went wrong. Please try again later."
	msgQuizUnavailable = "Could not start the quiz, please try again later."
	msgQuizExpired     = "This quiz has expired. Send /quiz to start again."
	msgAlreadyAnswered = "This question has already been answered."
	msgInvalidAnswer   = "That answer is not available."
	msgModuleNotFound  = "This module is no longer available."
	msgNoQuestions     = "There are no quiz questions yet."
	msgUnknownCommand  = "Unknown command. Available commands:\n\n/lessons - browse the lessons\n/quiz - test your knowledge\n/help - show help"
	msgHelp            = "FinPath teaches financial literacy through short lessons and a quiz.\n\n/lessons - browse the lessons\n/quiz - start a new quiz\n/help - show this message"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func formatWelcome() string {
	return fmt.Sprintf(
		"%s\n\n%s",
		bold("Welcome to FinPath"),
		md("Learn financial literacy through interactive lessons and quizzes."),
	)
}

// formatModules lists every module with its lessons.
func formatModules(modules []entities.LessonModule) string {
	var sb strings.Builder
	sb.WriteString(bold("📚 Financial Lessons"))

	for _, m := range modules {
		sb.WriteString("\n\n")
		sb.WriteString(formatModule(m))
	}

	return sb.String()
}

func formatModule(m entities.LessonModule) string {
	var sb strings.Builder
	sb.WriteString(bold(m.Title))
	if m.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(italic(m.Description))
	}
	for _, l := range m.Lessons {
		sb.WriteString("\n")
		sb.WriteString(md("• "))
		sb.WriteString(bold(l.Title))
		if l.Description != "" {
			sb.WriteString(md(" - " + l.Description))
		}
	}
	return sb.String()
}

// formatQuizQuestion formats a quiz question.
func formatQuizQuestion(q *entities.Question, state entities.QuizState) string {
	return fmt.Sprintf(
		"%s\n\n%s",
		md(fmt.Sprintf("Question %d of %d", state.QuestionNumber(), state.Total)),
		bold(q.Question),
	)
}

// formatAnswerFeedback tells whether the previous answer was right.
func formatAnswerFeedback(correct bool, answer entities.Option) string {
	if correct {
		return md("✅ Correct!")
	}
	return md("❌ Incorrect. The correct answer: ") + bold(answer.Text)
}

// formatQuizResult formats quiz results.
func formatQuizResult(state entities.QuizState) string {
	percentage := state.Percentage()

	emoji, message := "📚", "Review the lessons and try again!"
	switch {
	case percentage >= 90:
		emoji, message = "🌟", "Excellent result!"
	case percentage >= 70:
		emoji, message = "👍", "Good result!"
	case percentage >= 50:
		emoji, message = "💪", "Not bad, keep going!"
	}

	progressBar := buildProgressBar(state.Score, state.Total, 10)

	return fmt.Sprintf(
		"%s %s\n\n%s %s\n%s\n\n%s",
		md(emoji),
		bold("Quiz Complete!"),
		md("Your score:"),
		bold(fmt.Sprintf("%d out of %d (%.0f%%)", state.Score, state.Total, percentage)),
		md(progressBar),
		md(message),
	)
}

func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return strings.Repeat("░", length)
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
