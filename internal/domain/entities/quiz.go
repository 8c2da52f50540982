package entities

import (
	"time"
)

// QuizState is the progression of one quiz attempt.
// While Complete is false the state is InProgress(CurrentQuestion, Score);
// once Complete is true it is Complete(Score, Total) and never changes again.
type QuizState struct {
	CurrentQuestion int  `json:"current_question"` // zero-based index of the question being shown
	Score           int  `json:"score"`            // number of correct answers so far
	Total           int  `json:"total"`            // number of questions in the attempt
	Complete        bool `json:"complete"`         // terminal flag, results are shown
}

// NewQuizState returns the initial state for an attempt over total questions.
// An attempt without questions is complete from the start.
func NewQuizState(total int) QuizState {
	if total <= 0 {
		return QuizState{Complete: true}
	}
	return QuizState{Total: total}
}

// AnswerEvent is emitted when the user selects an option of the current question.
type AnswerEvent struct {
	IsCorrect bool
}

// Reduce applies ev to state and returns the next state.
// Complete states are terminal: the event is ignored and state is returned as is.
func Reduce(state QuizState, ev AnswerEvent) QuizState {
	if state.Complete || state.CurrentQuestion >= state.Total {
		return state
	}

	next := state
	if ev.IsCorrect {
		next.Score++
	}

	if state.CurrentQuestion+1 < state.Total {
		next.CurrentQuestion = state.CurrentQuestion + 1
		return next
	}

	next.Complete = true
	return next
}

// Submit is shorthand for Reduce(s, AnswerEvent{IsCorrect: isCorrect}).
func (s QuizState) Submit(isCorrect bool) QuizState {
	return Reduce(s, AnswerEvent{IsCorrect: isCorrect})
}

// QuestionNumber returns the one-based number of the current question.
func (s QuizState) QuestionNumber() int {
	return s.CurrentQuestion + 1
}

// Percentage returns the share of correct answers out of Total.
func (s QuizState) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Total) * 100
}

// QuizSession represents a single ephemeral quiz attempt.
type QuizSession struct {
	ID          string     `json:"id"`                     // opaque session ID
	State       QuizState  `json:"state"`                  // current progression
	StartedAt   time.Time  `json:"started_at"`             // timestamp when the attempt started
	UpdatedAt   time.Time  `json:"updated_at"`             // timestamp of the last applied answer
	CompletedAt *time.Time `json:"completed_at,omitempty"` // timestamp when the attempt was completed (nullable)
}

// NewQuizSession creates a new quiz session over total questions.
func NewQuizSession(id string, total int, now time.Time) *QuizSession {
	s := &QuizSession{
		ID:        id,
		State:     NewQuizState(total),
		StartedAt: now,
		UpdatedAt: now,
	}
	if s.State.Complete {
		s.CompletedAt = &now
	}
	return s
}

// Apply dispatches ev and records the transition time.
// It reports whether the state changed.
func (qs *QuizSession) Apply(ev AnswerEvent, now time.Time) bool {
	next := Reduce(qs.State, ev)
	if next == qs.State {
		return false
	}

	qs.State = next
	qs.UpdatedAt = now
	if next.Complete {
		qs.CompletedAt = &now
	}
	return true
}

// IsActive reports whether the session still accepts answers.
func (qs *QuizSession) IsActive() bool {
	return !qs.State.Complete
}
