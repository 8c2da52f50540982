package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/finpath/internal/service"
)

// QuizCookie carries the session ID of the attempt in progress.
const QuizCookie = "finpath_quiz"

// QuizHandler drives one quiz attempt per browser through a session cookie.
type QuizHandler struct {
	quiz   QuizService
	ttl    time.Duration
	secure bool
	logger *zap.Logger
}

func NewQuizHandler(quiz QuizService, ttl time.Duration, secure bool, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		quiz:   quiz,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

type answerForm struct {
	Question *int `form:"question" binding:"required,min=0"`
	Option   *int `form:"option" binding:"required,min=0"`
}

// Start begins a fresh attempt. Entering the page always resets progress.
func (h *QuizHandler) Start(c *gin.Context) {
	ctx := c.Request.Context()

	if prev, err := c.Cookie(QuizCookie); err == nil && prev != "" {
		if err := h.quiz.Abandon(ctx, prev); err != nil {
			h.logger.Warn("failed to abandon previous quiz session",
				zap.String("session_id", prev),
				zap.Error(err),
			)
		}
	}

	qs, err := h.quiz.Start(ctx)
	if err != nil {
		h.internalError(c, "failed to start quiz", err)
		return
	}

	_, q, err := h.quiz.Current(ctx, qs.ID)
	if err != nil {
		h.internalError(c, "failed to load quiz session", err)
		return
	}

	h.setSessionCookie(c, qs.ID)
	renderQuiz(c, qs.State, q)
}

// Answer applies the selected option and renders the next step.
func (h *QuizHandler) Answer(c *gin.Context) {
	sessionID, err := c.Cookie(QuizCookie)
	if err != nil || sessionID == "" {
		c.Redirect(http.StatusSeeOther, "/quiz")
		return
	}

	var form answerForm
	if err := c.ShouldBind(&form); err != nil {
		renderError(c, http.StatusBadRequest, "Invalid answer", "Please pick one of the offered answers.")
		return
	}

	res, err := h.quiz.Answer(c.Request.Context(), sessionID, *form.Question, *form.Option)
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.Redirect(http.StatusSeeOther, "/quiz")
		return
	case errors.Is(err, service.ErrInvalidOption):
		renderError(c, http.StatusBadRequest, "Invalid answer", "Please pick one of the offered answers.")
		return
	case err != nil:
		h.internalError(c, "failed to submit answer", err)
		return
	}

	renderQuiz(c, res.Session.State, res.Next)
}

func (h *QuizHandler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(QuizCookie, sessionID, int(h.ttl.Seconds()), "/", "", h.secure, true)
}

func (h *QuizHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	_ = c.Error(err)
	renderError(c, http.StatusInternalServerError, "Something went wrong", "Please try again in a moment.")
}
