package handlers

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/finpath/internal/domain/entities"
	"github.com/aliskhannn/finpath/web"
)

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

type pageView struct {
	Title string
}

type lessonsView struct {
	Title   string
	Modules []entities.LessonModule
}

type questionView struct {
	Title    string
	Index    int
	Number   int
	Total    int
	Question *entities.Question
}

type resultView struct {
	Title string
	Score int
	Total int
}

type errorView struct {
	Title   string
	Message string
}

func newQuestionView(state entities.QuizState, q *entities.Question) questionView {
	return questionView{
		Title:    "Quiz",
		Index:    state.CurrentQuestion,
		Number:   state.QuestionNumber(),
		Total:    state.Total,
		Question: q,
	}
}

func newResultView(state entities.QuizState) resultView {
	return resultView{
		Title: "Quiz Complete",
		Score: state.Score,
		Total: state.Total,
	}
}

// renderQuiz renders whatever the state currently calls for.
func renderQuiz(c *gin.Context, state entities.QuizState, q *entities.Question) {
	if state.Complete || q == nil {
		c.HTML(http.StatusOK, "result.html", newResultView(state))
		return
	}
	c.HTML(http.StatusOK, "quiz.html", newQuestionView(state, q))
}

func renderError(c *gin.Context, status int, title, message string) {
	c.HTML(status, "error.html", errorView{Title: title, Message: message})
}
