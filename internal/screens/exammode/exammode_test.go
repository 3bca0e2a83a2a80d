package exammode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/screen/screentest"
)

func sample() model.Assessment {
	return model.Assessment{
		ID:     "a1",
		Title:  "Cell Biology",
		Status: model.AssessmentNew,
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionMultipleChoice, Text: "Powerhouse?", Options: []string{"Nucleus", "Mitochondria"}, CorrectIndex: 1},
			{ID: "q2", Type: model.QuestionTrueFalse, Text: "Cells divide?", Options: model.TrueFalseOptions, CorrectIndex: 0},
			{ID: "q3", Type: model.QuestionShortAnswer, Text: "Gas released by photosynthesis?", CorrectText: "Oxygen"},
		},
	}
}

func start(t *testing.T) (*Screen, *screentest.Harness) {
	t.Helper()
	h := screentest.New(t)
	a := sample()
	h.Env.State.SetAssessments([]model.Assessment{a})
	h.Env.State.SetCurrentAssessment(&a)
	s := New(h.Env)
	require.NotNil(t, s.attempt)
	s.Init()
	return s, h
}

func TestAnswerAndSubmit(t *testing.T) {
	s, h := start(t)

	screentest.Press(s, "b", "tab", "a", "tab")
	assert.Equal(t, 2, s.attempt.Index())
	screentest.Type(s, " oxygen ")

	_, cmd := screentest.Press(s, "enter")
	assert.Nil(t, cmd)
	assert.True(t, s.confirming)
	assert.Contains(t, screentest.View(s, 120, 40), "Submit your answers?")

	_, cmd = screentest.Press(s, "y")
	assert.Equal(t, model.PageGradingReport, screentest.AwaitPage(t, cmd))

	got, ok := h.Env.State.Assessment("a1")
	require.True(t, ok)
	assert.Equal(t, model.AssessmentCompleted, got.Status)
	require.NotNil(t, got.LastScore)
	assert.Equal(t, 100, *got.LastScore)
	assert.Equal(t, model.PageGradingReport, h.Env.State.CurrentPage())
	require.NotEmpty(t, h.Env.State.Activities())
	assert.Equal(t, model.ActivityExamCompleted, h.Env.State.Activities()[0].Type)
}

func TestConfirmCountsUnanswered(t *testing.T) {
	s, _ := start(t)
	screentest.Press(s, "a", "ctrl+e")
	assert.Contains(t, screentest.View(s, 120, 40), "2 unanswered")

	screentest.Press(s, "n")
	assert.False(t, s.confirming)
}

func TestSaveAndResume(t *testing.T) {
	s, h := start(t)
	screentest.Press(s, "b", "tab")
	_, cmd := screentest.Press(s, "ctrl+s")
	assert.Equal(t, model.PageAssessments, screentest.AwaitPage(t, cmd))

	d, ok := h.Env.State.Draft("a1")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"q1": "Mitochondria"}, d.Answers)
	assert.Equal(t, 1, d.Index)

	again := New(h.Env)
	require.NotNil(t, again.attempt)
	assert.True(t, again.resumed)
	assert.Equal(t, 1, again.attempt.Index())
	screentest.Press(again, "shift+tab")
	assert.Equal(t, 1, again.choice.Chosen)
}

func TestJumpToUnanswered(t *testing.T) {
	s, _ := start(t)
	screentest.Press(s, "a", "tab", "tab")
	assert.Equal(t, 2, s.attempt.Index())
	screentest.Press(s, "ctrl+u")
	assert.Equal(t, 1, s.attempt.Index())
}

func TestShortAnswerKeepsText(t *testing.T) {
	s, _ := start(t)
	screentest.Press(s, "tab", "tab")
	screentest.Type(s, "Oxygen")
	screentest.Press(s, "shift+tab", "tab")
	assert.Equal(t, "Oxygen", s.answer.Value())
}

func TestNotReady(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)
	assert.False(t, s.CapturesInput())
	assert.Contains(t, screentest.View(s, 100, 30), "not ready")
	_, cmd := screentest.Press(s, "enter")
	assert.Equal(t, model.PageAssessments, screentest.AwaitPage(t, cmd))
}
