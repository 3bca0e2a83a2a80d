// Package generation submits assessment generation requests and waits for
// the server to finish them.
package generation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/model"
)

// Question count bounds accepted by the creation form.
const (
	MinQuestions     = 1
	MaxQuestions     = 50
	DefaultQuestions = 10
)

// ErrInvalidSelection is returned when a selection cannot be submitted.
var ErrInvalidSelection = errors.New("invalid generation selection")

// Selection is what the user picked on the creation form.
type Selection struct {
	Files      []model.LibraryFile
	Query      string
	Count      int
	Difficulty model.Difficulty
	Types      []model.QuestionType
}

// Validate checks that the selection can be turned into a request.
func (s Selection) Validate() error {
	if len(s.Files) == 0 {
		return fmt.Errorf("%w: select at least one document", ErrInvalidSelection)
	}
	for _, f := range s.Files {
		if f.ID == "" {
			return fmt.Errorf("%w: document %q has no id", ErrInvalidSelection, f.Name)
		}
	}
	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("%w: describe what the assessment should cover", ErrInvalidSelection)
	}
	if s.Count < MinQuestions || s.Count > MaxQuestions {
		return fmt.Errorf("%w: question count must be between %d and %d", ErrInvalidSelection, MinQuestions, MaxQuestions)
	}
	switch s.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSelection, s.Difficulty)
	}
	if len(s.Types) == 0 {
		return fmt.Errorf("%w: select at least one question type", ErrInvalidSelection)
	}
	return nil
}

// FileNames returns the names of the selected files.
func (s Selection) FileNames() []string {
	names := make([]string, len(s.Files))
	for i, f := range s.Files {
		names[i] = f.Name
	}
	return names
}

// BuildRequest turns a selection into the API payload. The API accepts a
// single document, so only the first selected file is sent.
func BuildRequest(s Selection) api.GenerateRequest {
	req := api.GenerateRequest{
		Query:         strings.TrimSpace(s.Query),
		NumQuestions:  s.Count,
		Difficulty:    string(s.Difficulty),
		QuestionTypes: make([]string, 0, len(s.Types)),
	}
	if len(s.Files) > 0 {
		req.DocumentID = s.Files[0].ID
	}
	for _, t := range s.Types {
		req.QuestionTypes = append(req.QuestionTypes, t.WireName())
	}
	return req
}
