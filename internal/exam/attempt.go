// Package exam runs exam attempts and grades them.
package exam

import (
	"errors"
	"fmt"

	"github.com/scholarai/scholar/internal/model"
)

var (
	ErrNoQuestions     = errors.New("assessment has no questions")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrOutOfRange      = errors.New("question index out of range")
)

// Attempt is an exam in progress: the questions, the answers given so far
// and the question on screen.
type Attempt struct {
	questions []model.Question
	answers   map[string]string
	index     int
}

// NewAttempt starts an attempt at the first question with no answers.
func NewAttempt(questions []model.Question) (*Attempt, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Attempt{
		questions: model.CloneQuestions(questions),
		answers:   make(map[string]string),
	}, nil
}

// Resume restarts an attempt from a saved draft. Answers to questions that
// no longer exist are dropped and the index is clamped.
func Resume(questions []model.Question, d model.ExamDraft) (*Attempt, error) {
	a, err := NewAttempt(questions)
	if err != nil {
		return nil, err
	}
	for _, q := range a.questions {
		if v, ok := d.Answers[q.ID]; ok {
			a.answers[q.ID] = v
		}
	}
	a.index = min(max(d.Index, 0), len(a.questions)-1)
	return a, nil
}

// Len returns the number of questions.
func (a *Attempt) Len() int { return len(a.questions) }

// Index returns the position of the current question.
func (a *Attempt) Index() int { return a.index }

// Current returns the question on screen.
func (a *Attempt) Current() model.Question {
	return a.questions[a.index].Clone()
}

// Question returns the i-th question.
func (a *Attempt) Question(i int) model.Question {
	return a.questions[i].Clone()
}

// Answer records value as the answer to the question with id. Answering
// again replaces the previous answer.
func (a *Attempt) Answer(questionID, value string) error {
	for _, q := range a.questions {
		if q.ID == questionID {
			a.answers[questionID] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
}

// AnswerCurrent records value for the current question.
func (a *Attempt) AnswerCurrent(value string) {
	a.answers[a.questions[a.index].ID] = value
}

// AnswerFor returns the answer given to the question with id.
func (a *Attempt) AnswerFor(questionID string) (string, bool) {
	v, ok := a.answers[questionID]
	return v, ok
}

// Next moves forward and reports whether it moved.
func (a *Attempt) Next() bool {
	if a.IsLast() {
		return false
	}
	a.index++
	return true
}

// Prev moves back and reports whether it moved.
func (a *Attempt) Prev() bool {
	if a.index == 0 {
		return false
	}
	a.index--
	return true
}

// Jump moves to question i.
func (a *Attempt) Jump(i int) error {
	if i < 0 || i >= len(a.questions) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	a.index = i
	return nil
}

// IsLast reports whether the current question is the last one.
func (a *Attempt) IsLast() bool {
	return a.index == len(a.questions)-1
}

// Progress returns how many questions have a non-blank answer.
func (a *Attempt) Progress() (answered, total int) {
	for _, q := range a.questions {
		if v, ok := a.answers[q.ID]; ok && v != "" {
			answered++
		}
	}
	return answered, len(a.questions)
}

// Answers returns a copy of the answers keyed by question id.
func (a *Attempt) Answers() map[string]string {
	out := make(map[string]string, len(a.answers))
	for k, v := range a.answers {
		out[k] = v
	}
	return out
}

// Draft captures the attempt for Save & Exit.
func (a *Attempt) Draft() model.ExamDraft {
	return model.ExamDraft{Answers: a.Answers(), Index: a.index}
}
