package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/finpath/internal/domain/entities"
)

// buildStartKeyboard builds the landing keyboard.
func buildStartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Start Learning", buildLessonsCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Test Your Knowledge", buildQuizStartCallback()),
		),
	)
}

// buildModulesKeyboard builds one button per module.
func buildModulesKeyboard(modules []entities.LessonModule) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(modules)+1)
	for _, m := range modules {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(m.Title, buildModuleCallback(m.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎯 Test Your Knowledge", buildQuizStartCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildModuleKeyboard builds the keyboard under a single module.
func buildModuleKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« All modules", buildLessonsCallback()),
		),
	)
}

// buildQuizAnswerKeyboard builds keyboard for quiz question.
func buildQuizAnswerKeyboard(q *entities.Question, sessionID string, questionIndex int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range q.Options {
		callbackData := buildQuizAnswerCallback(sessionID, questionIndex, i)
		button := tgbotapi.NewInlineKeyboardButtonData(option.Text, callbackData)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizResultKeyboard builds keyboard for quiz results screen.
func buildQuizResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", buildQuizStartCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Review the lessons", buildLessonsCallback()),
		),
	)
}
