package telegram

import (
	"errors"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz    = "quiz"
	actionLessons = "lessons"
	actionModule  = "module"
)

// Quiz sub-actions.
const (
	quizStart = "start"
)

var errInvalidCallback = errors.New("invalid callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// quizAnswer is the payload of an answer button.
type quizAnswer struct {
	SessionID     string
	QuestionIndex int
	OptionIndex   int
}

// buildQuizAnswerCallback builds callback data for answering a quiz question.
func buildQuizAnswerCallback(sessionID string, questionIndex, optionIndex int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			sessionID,
			strconv.Itoa(questionIndex),
			strconv.Itoa(optionIndex),
		},
	}.encode()
}

// parseQuizAnswer reads the params of a quiz answer callback.
func parseQuizAnswer(cd callbackData) (quizAnswer, error) {
	if cd.Action != actionQuiz || len(cd.Params) != 3 || cd.Params[0] == "" {
		return quizAnswer{}, errInvalidCallback
	}

	q, err1 := strconv.Atoi(cd.Params[1])
	opt, err2 := strconv.Atoi(cd.Params[2])
	if err1 != nil || err2 != nil || q < 0 || opt < 0 {
		return quizAnswer{}, errInvalidCallback
	}

	return quizAnswer{
		SessionID:     cd.Params[0],
		QuestionIndex: q,
		OptionIndex:   opt,
	}, nil
}

// buildQuizStartCallback builds callback data for starting a quiz session.
func buildQuizStartCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizStart},
	}.encode()
}

// buildLessonsCallback builds callback data for the module list.
func buildLessonsCallback() string {
	return actionLessons
}

// buildModuleCallback builds callback data for opening one module.
func buildModuleCallback(moduleID string) string {
	return callbackData{
		Action: actionModule,
		Params: []string{moduleID},
	}.encode()
}
