package generating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/screen/screentest"
)

func pending(h *screentest.Harness) {
	a := model.Assessment{ID: "gen-1", Title: "Assessment: cells", Status: model.AssessmentPending, SourceFiles: []string{"bio.pdf"}}
	h.Env.State.UpsertAssessment(a)
	h.Env.State.SetCurrentAssessment(&a)
}

func TestReadyAssessmentOpensHub(t *testing.T) {
	h := screentest.New(t)
	h.SignIn(t)
	pending(h)
	h.API.PutAssessment(map[string]any{
		"id":     "gen-1",
		"title":  "Cell Biology",
		"status": "completed",
		"questions": []any{
			map[string]any{"id": "q1", "type": "short_answer", "question": "Unit of life?", "correctAnswer": "cell"},
		},
	})

	s := New(h.Env)
	_, cmd := screentest.Feed[resolvedMsg](t, s, s.Init())
	assert.Equal(t, model.PageAssessments, screentest.AwaitPage(t, cmd))

	got, ok := h.Env.State.Assessment("gen-1")
	require.True(t, ok)
	assert.Equal(t, "Cell Biology", got.Title)
	assert.Len(t, got.Questions, 1)
	assert.Equal(t, []string{"bio.pdf"}, got.SourceFiles)
}

func TestFailedGeneration(t *testing.T) {
	h := screentest.New(t)
	h.SignIn(t)
	pending(h)
	h.API.PutAssessment(map[string]any{"id": "gen-1", "status": "failed", "error_message": "document has no text"})

	s := New(h.Env)
	screentest.Feed[resolvedMsg](t, s, s.Init())
	assert.Equal(t, failed, s.state)
	assert.Contains(t, screentest.View(s, 100, 30), "document has no text")

	got, _ := h.Env.State.Assessment("gen-1")
	assert.Equal(t, model.AssessmentFailed, got.Status)

	_, cmd := screentest.Press(s, "enter")
	assert.Equal(t, model.PageExamStudio, screentest.AwaitPage(t, cmd))
}

func TestRotatingMessages(t *testing.T) {
	h := screentest.New(t)
	pending(h)
	s := New(h.Env)
	assert.Contains(t, screentest.View(s, 100, 30), Messages[0])

	for range Messages {
		s.Update(rotateMsg{})
	}
	assert.Equal(t, 0, s.message)
	s.Update(rotateMsg{})
	assert.Contains(t, screentest.View(s, 100, 30), Messages[1])
}

func TestNothingToWaitFor(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)
	assert.Nil(t, s.Init())
	_, cmd := screentest.Press(s, "enter")
	assert.Equal(t, model.PageExamStudio, screentest.AwaitPage(t, cmd))
}
