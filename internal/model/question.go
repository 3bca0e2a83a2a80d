package model

import (
	"errors"
	"fmt"
	"strings"
)

// QuestionType is the answer format of a question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionShortAnswer    QuestionType = "short-answer"
)

// QuestionTypes lists the supported types in display order.
func QuestionTypes() []QuestionType {
	return []QuestionType{QuestionMultipleChoice, QuestionTrueFalse, QuestionShortAnswer}
}

// ParseQuestionType accepts both the hyphenated client form and the
// underscored wire form ("multiple_choice").
func ParseQuestionType(s string) (QuestionType, bool) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "multiple-choice", "mcq":
		return QuestionMultipleChoice, true
	case "true-false", "boolean":
		return QuestionTrueFalse, true
	case "short-answer":
		return QuestionShortAnswer, true
	}
	return "", false
}

// WireName returns the type as the assessment API spells it.
func (t QuestionType) WireName() string {
	return strings.ReplaceAll(string(t), "-", "_")
}

// Label returns a short display name.
func (t QuestionType) Label() string {
	switch t {
	case QuestionMultipleChoice:
		return "Multiple Choice"
	case QuestionTrueFalse:
		return "True / False"
	case QuestionShortAnswer:
		return "Short Answer"
	}
	return string(t)
}

// IsChoice reports whether answers are picked from Options.
func (t QuestionType) IsChoice() bool {
	return t == QuestionMultipleChoice || t == QuestionTrueFalse
}

// NoSourceFile is the placeholder file name of a source without a document.
const NoSourceFile = "None Selected"

// TrueFalseOptions are the fixed options of a true/false question.
var TrueFalseOptions = []string{"True", "False"}

// Source cites where a question came from.
type Source struct {
	Text     string
	Page     int
	FileName string
}

// Question is a single exam question. Choice questions are graded by
// CorrectIndex into Options; short-answer questions by CorrectText.
type Question struct {
	ID           string
	Type         QuestionType
	Text         string
	Options      []string
	CorrectIndex int
	CorrectText  string
	UserAnswer   string
	Source       *Source
}

// CorrectAnswerText returns the text a user answer is compared against.
func (q Question) CorrectAnswerText() string {
	if q.Type.IsChoice() {
		if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
			return q.Options[q.CorrectIndex]
		}
		return ""
	}
	return q.CorrectText
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	if q.Options != nil {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
	}
	if q.Source != nil {
		src := *q.Source
		q.Source = &src
	}
	return q
}

var (
	ErrNoOptions          = errors.New("choice question has no options")
	ErrCorrectOutOfRange  = errors.New("correct option index out of range")
	ErrShortAnswerOptions = errors.New("short-answer question must not have options")
)

// Validate checks the canonical schema invariants.
func (q Question) Validate() error {
	switch q.Type {
	case QuestionMultipleChoice, QuestionTrueFalse:
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s: %w", q.ID, ErrNoOptions)
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("question %s: %w", q.ID, ErrCorrectOutOfRange)
		}
	case QuestionShortAnswer:
		if len(q.Options) > 0 {
			return fmt.Errorf("question %s: %w", q.ID, ErrShortAnswerOptions)
		}
	default:
		return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	return nil
}

// CloneQuestions deep-copies a question slice.
func CloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// DeriveSourceFiles returns the distinct source file names of qs in
// first-seen order, skipping questions without a source and the
// NoSourceFile placeholder.
func DeriveSourceFiles(qs []Question) []string {
	seen := make(map[string]bool)
	files := []string{}
	for _, q := range qs {
		if q.Source == nil {
			continue
		}
		name := strings.TrimSpace(q.Source.FileName)
		if name == "" || name == NoSourceFile || seen[name] {
			continue
		}
		seen[name] = true
		files = append(files, name)
	}
	return files
}
