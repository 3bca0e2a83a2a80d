// Package export writes assessments as question papers and answer keys.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/scholarai/scholar/internal/model"
)

// Format is an output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Paper is the exported form of an assessment.
type Paper struct {
	Title       string     `yaml:"title" json:"title"`
	Difficulty  string     `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	SourceFiles []string   `yaml:"source_files,omitempty" json:"source_files,omitempty"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

// Question is one exported question. Answer and Source are only set in
// answer keys.
type Question struct {
	Number  int      `yaml:"number" json:"number"`
	Type    string   `yaml:"type" json:"type"`
	Text    string   `yaml:"text" json:"text"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
	Answer  string   `yaml:"answer,omitempty" json:"answer,omitempty"`
	Source  *Source  `yaml:"source,omitempty" json:"source,omitempty"`
}

// Source is an exported citation.
type Source struct {
	File string `yaml:"file,omitempty" json:"file,omitempty"`
	Page int    `yaml:"page,omitempty" json:"page,omitempty"`
	Text string `yaml:"text,omitempty" json:"text,omitempty"`
}

// Build converts a. With answers set it produces an answer key.
func Build(a model.Assessment, answers bool) Paper {
	p := Paper{
		Title:       a.Title,
		SourceFiles: a.SourceFiles,
		Questions:   make([]Question, 0, len(a.Questions)),
	}
	if a.Difficulty != model.DifficultyNone {
		p.Difficulty = string(a.Difficulty)
	}
	for i, q := range a.Questions {
		eq := Question{
			Number:  i + 1,
			Type:    string(q.Type),
			Text:    q.Text,
			Options: q.Options,
		}
		if answers {
			eq.Answer = q.CorrectAnswerText()
			if q.Source != nil {
				src := Source{Text: q.Source.Text, Page: q.Source.Page}
				if q.Source.FileName != model.NoSourceFile {
					src.File = q.Source.FileName
				}
				if src != (Source{}) {
					eq.Source = &src
				}
			}
		}
		p.Questions = append(p.Questions, eq)
	}
	return p
}

// Write encodes the paper or answer key of a to w.
func Write(w io.Writer, a model.Assessment, format Format, answers bool) error {
	p := Build(a, answers)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown export format %q", format)
}

// FileName suggests a file name such as "cell-biology-answers.yaml".
func FileName(a model.Assessment, format Format, answers bool) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(a.Title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "assessment"
	}
	suffix := "paper"
	if answers {
		suffix = "answers"
	}
	return fmt.Sprintf("%s-%s.%s", name, suffix, format)
}
