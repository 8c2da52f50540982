package entities

// Question is a single quiz prompt with its selectable answers.
type Question struct {
	Question string   `json:"question" yaml:"question"`
	Options  []Option `json:"options" yaml:"options"` // multiple choice, in display order
}

// Option is one selectable answer of a Question.
type Option struct {
	Text      string `json:"text" yaml:"text"`
	IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
}

// CorrectCount returns how many options are marked as correct.
func (q Question) CorrectCount() int {
	n := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

// CorrectOption returns the index and value of the first correct option.
// The index is -1 when no option is marked as correct.
func (q Question) CorrectOption() (int, Option) {
	for i, o := range q.Options {
		if o.IsCorrect {
			return i, o
		}
	}
	return -1, Option{}
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]Option(nil), q.Options...)
	return out
}
