package editor

import (
	"fmt"
	"strconv"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/studio"
)

type fieldKind int

const (
	fieldTitle fieldKind = iota
	fieldDifficulty
	fieldQuestionText
	fieldQuestionType
	fieldOption
	fieldShortAnswer
	fieldAddSource
	fieldSourceFile
	fieldSourcePage
	fieldSourceText
)

// field is one editable line of the editor.
type field struct {
	kind     fieldKind
	question int
	option   int
}

// textual reports whether the field is edited with a text input.
func (f field) textual() bool {
	switch f.kind {
	case fieldTitle, fieldQuestionText, fieldOption, fieldShortAnswer, fieldSourcePage, fieldSourceText:
		return true
	}
	return false
}

// fieldsOf flattens a into the editor's cursor positions.
func fieldsOf(a model.Assessment) []field {
	fs := []field{{kind: fieldTitle}, {kind: fieldDifficulty}}
	for i, q := range a.Questions {
		fs = append(fs, field{kind: fieldQuestionText, question: i}, field{kind: fieldQuestionType, question: i})
		if q.Type.IsChoice() {
			for j := range q.Options {
				fs = append(fs, field{kind: fieldOption, question: i, option: j})
			}
		} else {
			fs = append(fs, field{kind: fieldShortAnswer, question: i})
		}
		if q.Source == nil {
			fs = append(fs, field{kind: fieldAddSource, question: i})
		} else {
			fs = append(fs,
				field{kind: fieldSourceFile, question: i},
				field{kind: fieldSourcePage, question: i},
				field{kind: fieldSourceText, question: i},
			)
		}
	}
	return fs
}

// valueOf returns the current text of a textual field.
func valueOf(a model.Assessment, f field) string {
	if f.kind == fieldTitle {
		return a.Title
	}
	if f.question >= len(a.Questions) {
		return ""
	}
	q := a.Questions[f.question]
	switch f.kind {
	case fieldQuestionText:
		return q.Text
	case fieldOption:
		if f.option < len(q.Options) {
			return q.Options[f.option]
		}
	case fieldShortAnswer:
		return q.CorrectText
	case fieldSourcePage:
		if q.Source != nil {
			return strconv.Itoa(q.Source.Page)
		}
	case fieldSourceText:
		if q.Source != nil {
			return q.Source.Text
		}
	}
	return ""
}

// commit builds the intent that stores value into f.
func commit(f field, value string) (studio.Intent, error) {
	switch f.kind {
	case fieldTitle:
		return studio.SetTitle{Title: value}, nil
	case fieldQuestionText:
		return studio.SetQuestionText{Index: f.question, Text: value}, nil
	case fieldOption:
		return studio.SetOption{Index: f.question, Option: f.option, Text: value}, nil
	case fieldShortAnswer:
		return studio.SetShortAnswer{Index: f.question, Text: value}, nil
	case fieldSourceText:
		return studio.SetSourceText{Index: f.question, Text: value}, nil
	case fieldSourcePage:
		page, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("page %q is not a number", value)
		}
		return studio.SetSourcePage{Index: f.question, Page: page}, nil
	}
	return nil, fmt.Errorf("field is not editable as text")
}

func cycle[T comparable](values []T, cur T, step int) T {
	at := 0
	for i, v := range values {
		if v == cur {
			at = i
			break
		}
	}
	return values[(at+step+len(values))%len(values)]
}
