// Package studio edits assessments. Every edit is an Intent applied by
// Reduce to a copy of the assessment.
package studio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/scholarai/scholar/internal/model"
)

var (
	ErrQuestionIndex     = errors.New("question index out of range")
	ErrOptionIndex       = errors.New("option index out of range")
	ErrNotChoice         = errors.New("question has no options")
	ErrNotShortAnswer    = errors.New("question is not short-answer")
	ErrNoSource          = errors.New("question has no source")
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidType       = errors.New("invalid question type")
	ErrInvalidPage       = errors.New("page must not be negative")
)

// BlankOptions is the number of options of a new multiple-choice question.
const BlankOptions = 4

// Intent is one edit of an assessment.
type Intent interface {
	apply(a *model.Assessment) error
}

// Reduce applies intent to a copy of a. On error it returns a unchanged.
func Reduce(a model.Assessment, intent Intent) (model.Assessment, error) {
	next := a.Clone()
	if err := intent.apply(&next); err != nil {
		return a, err
	}
	return next, nil
}

func question(a *model.Assessment, i int) (*model.Question, error) {
	if i < 0 || i >= len(a.Questions) {
		return nil, fmt.Errorf("%w: %d", ErrQuestionIndex, i)
	}
	return &a.Questions[i], nil
}

func source(a *model.Assessment, i int) (*model.Source, error) {
	q, err := question(a, i)
	if err != nil {
		return nil, err
	}
	if q.Source == nil {
		return nil, fmt.Errorf("question %d: %w", i, ErrNoSource)
	}
	return q.Source, nil
}

// resetAnswer gives q the blank options and answer of its type.
func resetAnswer(q *model.Question) {
	q.CorrectIndex = 0
	q.CorrectText = ""
	q.UserAnswer = ""
	switch q.Type {
	case model.QuestionMultipleChoice:
		q.Options = make([]string, BlankOptions)
	case model.QuestionTrueFalse:
		q.Options = append([]string(nil), model.TrueFalseOptions...)
	default:
		q.Options = nil
	}
}

// SetTitle renames the assessment.
type SetTitle struct{ Title string }

func (i SetTitle) apply(a *model.Assessment) error {
	t := strings.TrimSpace(i.Title)
	if t == "" {
		return ErrEmptyTitle
	}
	a.Title = t
	return nil
}

// SetDifficulty changes the difficulty label.
type SetDifficulty struct{ Difficulty model.Difficulty }

func (i SetDifficulty) apply(a *model.Assessment) error {
	switch i.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard, model.DifficultyNone:
		a.Difficulty = i.Difficulty
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidDifficulty, i.Difficulty)
}

// SetQuestionText changes the prompt of a question.
type SetQuestionText struct {
	Index int
	Text  string
}

func (i SetQuestionText) apply(a *model.Assessment) error {
	q, err := question(a, i.Index)
	if err != nil {
		return err
	}
	q.Text = i.Text
	return nil
}

// SetQuestionType changes the answer format and resets the answer.
type SetQuestionType struct {
	Index int
	Type  model.QuestionType
}

func (i SetQuestionType) apply(a *model.Assessment) error {
	q, err := question(a, i.Index)
	if err != nil {
		return err
	}
	switch i.Type {
	case model.QuestionMultipleChoice, model.QuestionTrueFalse, model.QuestionShortAnswer:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, i.Type)
	}
	q.Type = i.Type
	resetAnswer(q)
	return nil
}

// SetOption changes the text of one option of a choice question.
type SetOption struct {
	Index  int
	Option int
	Text   string
}

func (i SetOption) apply(a *model.Assessment) error {
	q, err := question(a, i.Index)
	if err != nil {
		return err
	}
	if !q.Type.IsChoice() {
		return fmt.Errorf("question %d: %w", i.Index, ErrNotChoice)
	}
	if i.Option < 0 || i.Option >= len(q.Options) {
		return fmt.Errorf("question %d: %w: %d", i.Index, ErrOptionIndex, i.Option)
	}
	q.Options[i.Option] = i.Text
	return nil
}

// SetCorrectOption marks the correct option of a choice question.
type SetCorrectOption struct {
	Index  int
	Option int
}

func (i SetCorrectOption) apply(a *model.Assessment) error {
	q, err := question(a, i.Index)
	if err != nil {
		return err
	}
	if !q.Type.IsChoice() {
		return fmt.Errorf("question %d: %w", i.Index, ErrNotChoice)
	}
	if i.Option < 0 || i.Option >= len(q.Options) {
		return fmt.Errorf("question %d: %w: %d", i.Index, ErrOptionIndex, i.Option)
	}
	q.CorrectIndex = i.Option
	return nil
}

// SetShortAnswer changes the expected answer of a short-answer question.
type SetShortAnswer struct {
	Index int
	Text  string
}

func (i SetShortAnswer) apply(a *model.Assessment) error {
	q, err := question(a, i.Index)
	if err != nil {
		return err
	}
	if q.Type != model.QuestionShortAnswer {
		return fmt.Errorf("question %d: %w", i.Index, ErrNotShortAnswer)
	}
	q.CorrectText = i.Text
	return nil
}

// AddQuestion appends a blank multiple-choice question.
type AddQuestion struct{}

func (AddQuestion) apply(a *model.Assessment) error {
	q := model.Question{ID: uuid.NewString(), Type: model.QuestionMultipleChoice}
	resetAnswer(&q)
	a.Questions = append(a.Questions, q)
	a.QuestionCount = len(a.Questions)
	return nil
}

// DeleteQuestion removes a question.
type DeleteQuestion struct{ Index int }

func (i DeleteQuestion) apply(a *model.Assessment) error {
	if _, err := question(a, i.Index); err != nil {
		return err
	}
	a.Questions = append(a.Questions[:i.Index], a.Questions[i.Index+1:]...)
	a.QuestionCount = len(a.Questions)
	a.SourceFiles = model.DeriveSourceFiles(a.Questions)
	return nil
}

// AddSource attaches an empty citation to a question.
type AddSource struct{ Index int }

func (i AddSource) apply(a *model.Assessment) error {
	q, err := question(a, i.Index)
	if err != nil {
		return err
	}
	q.Source = &model.Source{FileName: model.NoSourceFile}
	a.SourceFiles = model.DeriveSourceFiles(a.Questions)
	return nil
}

// RemoveSource drops the citation of a question.
type RemoveSource struct{ Index int }

func (i RemoveSource) apply(a *model.Assessment) error {
	q, err := question(a, i.Index)
	if err != nil {
		return err
	}
	q.Source = nil
	a.SourceFiles = model.DeriveSourceFiles(a.Questions)
	return nil
}

// SetSourceText changes the quoted passage of a citation.
type SetSourceText struct {
	Index int
	Text  string
}

func (i SetSourceText) apply(a *model.Assessment) error {
	s, err := source(a, i.Index)
	if err != nil {
		return err
	}
	s.Text = i.Text
	return nil
}

// SetSourceFile changes the cited document.
type SetSourceFile struct {
	Index    int
	FileName string
}

func (i SetSourceFile) apply(a *model.Assessment) error {
	s, err := source(a, i.Index)
	if err != nil {
		return err
	}
	s.FileName = strings.TrimSpace(i.FileName)
	if s.FileName == "" {
		s.FileName = model.NoSourceFile
	}
	a.SourceFiles = model.DeriveSourceFiles(a.Questions)
	return nil
}

// SetSourcePage changes the cited page.
type SetSourcePage struct {
	Index int
	Page  int
}

func (i SetSourcePage) apply(a *model.Assessment) error {
	if i.Page < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, i.Page)
	}
	s, err := source(a, i.Index)
	if err != nil {
		return err
	}
	s.Page = i.Page
	return nil
}
