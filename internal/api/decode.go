package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/scholarai/scholar/internal/model"
)

// first returns the first of paths present in r.
func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// items returns the array at r, or at r.key when r is a wrapping object.
func items(r gjson.Result, key string) []gjson.Result {
	if r.IsArray() {
		return r.Array()
	}
	return r.Get(key).Array()
}

func (c *Client) decodeDocument(r gjson.Result) model.LibraryFile {
	f := model.LibraryFile{
		ID:        r.Get("id").String(),
		Name:      first(r, "file_name", "name").String(),
		Size:      model.FormatSize(first(r, "file_size", "size").Int()),
		Status:    MapDocumentStatus(r.Get("status").String()),
		PageCount: int(first(r, "page_count", "pageCount").Int()),
	}
	f.UploadedAt = c.now()
	if t, ok := parseTime(first(r, "created_at", "uploadedAt").String()); ok {
		f.UploadedAt = t
	}
	return f
}

func (c *Client) decodeAssessment(r gjson.Result) (model.Assessment, error) {
	a := model.Assessment{
		ID:            r.Get("id").String(),
		Title:         strings.TrimSpace(r.Get("title").String()),
		Status:        MapAssessmentStatus(r.Get("status").String()),
		Difficulty:    model.ParseDifficulty(r.Get("difficulty").String()),
		FailureReason: first(r, "error_message", "error").String(),
	}
	if a.Title == "" {
		if q := r.Get("query").String(); q != "" {
			a.Title = "Assessment: " + q
		} else {
			a.Title = "Untitled Assessment"
		}
	}
	a.CreatedAt = c.now()
	if t, ok := parseTime(first(r, "created_at", "createdAt").String()); ok {
		a.CreatedAt = t
	}

	qs := first(r, "questions", "content.questions").Array()
	for i, qr := range qs {
		q, err := decodeQuestion(qr, i)
		if err != nil {
			return model.Assessment{}, fmt.Errorf("assessment %s: %w", a.ID, err)
		}
		a.Questions = append(a.Questions, q)
	}

	if files := first(r, "source_files", "sourceFiles"); files.IsArray() {
		a.SourceFiles = []string{}
		for _, f := range files.Array() {
			a.SourceFiles = append(a.SourceFiles, f.String())
		}
	} else {
		a.SourceFiles = model.DeriveSourceFiles(a.Questions)
	}

	a.QuestionCount = len(a.Questions)
	if a.QuestionCount == 0 {
		a.QuestionCount = int(first(r, "question_count", "questionCount", "num_questions").Int())
	}
	if v := first(r, "best_score", "bestScore"); v.Exists() {
		a.BestScore = model.IntPtr(int(v.Int()))
	}
	if v := first(r, "last_score", "lastScore"); v.Exists() {
		a.LastScore = model.IntPtr(int(v.Int()))
	}
	return a, nil
}

func decodeQuestion(r gjson.Result, i int) (model.Question, error) {
	q := model.Question{
		ID:         r.Get("id").String(),
		Text:       first(r, "question", "text").String(),
		UserAnswer: first(r, "userAnswer", "user_answer").String(),
	}
	if q.ID == "" {
		q.ID = fmt.Sprintf("q%d", i+1)
	}
	for _, o := range r.Get("options").Array() {
		q.Options = append(q.Options, o.String())
	}

	t, ok := model.ParseQuestionType(r.Get("type").String())
	if !ok {
		t = model.QuestionShortAnswer
		if len(q.Options) > 0 {
			t = model.QuestionMultipleChoice
		}
	}
	q.Type = t

	answer := first(r, "correctAnswer", "correct_answer")
	switch q.Type {
	case model.QuestionTrueFalse:
		if len(q.Options) == 0 {
			q.Options = append([]string(nil), model.TrueFalseOptions...)
		}
		q.CorrectIndex = optionIndex(q.Options, answer)
	case model.QuestionMultipleChoice:
		q.CorrectIndex = optionIndex(q.Options, answer)
	case model.QuestionShortAnswer:
		q.CorrectText = answer.String()
		if answer.Type == gjson.Number {
			if idx := int(answer.Int()); idx >= 0 && idx < len(q.Options) {
				q.CorrectText = q.Options[idx]
			}
		}
		q.Options = nil
	}

	if src := r.Get("source"); src.IsObject() {
		q.Source = &model.Source{
			Text:     src.Get("text").String(),
			Page:     int(src.Get("page").Int()),
			FileName: first(src, "fileName", "file_name").String(),
		}
	} else if text := r.Get("source_text"); text.Exists() {
		q.Source = &model.Source{
			Text:     text.String(),
			Page:     int(r.Get("page_number").Int()),
			FileName: first(r, "file_name", "fileName").String(),
		}
	}

	if err := q.Validate(); err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// optionIndex resolves a correct answer given either as an index or as the
// option text.
func optionIndex(options []string, answer gjson.Result) int {
	if answer.Type == gjson.Number {
		return int(answer.Int())
	}
	want := strings.ToLower(strings.TrimSpace(answer.String()))
	for i, o := range options {
		if strings.ToLower(strings.TrimSpace(o)) == want {
			return i
		}
	}
	return -1
}
