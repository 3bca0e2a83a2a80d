package studio

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen/screentest"
	"github.com/scholarai/scholar/internal/screens/editor"
)

func library() []model.LibraryFile {
	return []model.LibraryFile{
		{ID: "doc-1", Name: "bio.pdf", Status: model.FileStatusReady},
		{ID: "doc-2", Name: "draft.pdf", Status: model.FileStatusIndexing},
		{ID: "doc-3", Name: "chem.pdf", Status: model.FileStatusReady},
	}
}

func openCreate(t *testing.T) (*Screen, *screentest.Harness) {
	t.Helper()
	h := screentest.New(t)
	h.SignIn(t)
	h.Env.State.SetLibraryFiles(library())
	s := New(h.Env)
	screentest.Press(s, "enter")
	require.True(t, s.creating)
	return s, h
}

func TestOnlyReadyFilesAreOffered(t *testing.T) {
	s, _ := openCreate(t)
	require.Len(t, s.form.files, 2)
	assert.Equal(t, "chem.pdf", s.form.files[1].Name)
}

func TestValidationStaysLocal(t *testing.T) {
	s, h := openCreate(t)
	_, cmd := screentest.Press(s, "ctrl+g")
	assert.Nil(t, cmd)
	assert.Equal(t, "select at least one document", s.formErr)

	screentest.Press(s, "space", "tab")
	_, cmd = screentest.Press(s, "ctrl+g")
	assert.Nil(t, cmd)
	assert.Equal(t, "describe what the assessment should cover", s.formErr)
	assert.Zero(t, h.API.RequestCount())
}

func TestGenerateSendsFirstSelectedDocument(t *testing.T) {
	s, h := openCreate(t)

	screentest.Press(s, "space", "down", "space", "tab")
	screentest.Type(s, "photosynthesis")
	screentest.Press(s, "tab", "up", "up", "tab", "right", "tab", "right", "space")
	assert.Contains(t, screentest.View(s, 120, 60), "Only bio.pdf is used")

	sel := s.form.selection()
	require.Len(t, sel.Files, 2)
	assert.Equal(t, 12, sel.Count)
	assert.Equal(t, model.DifficultyHard, sel.Difficulty)
	assert.Equal(t, []model.QuestionType{model.QuestionMultipleChoice, model.QuestionTrueFalse}, sel.Types)

	_, cmd := screentest.Press(s, "tab", "enter")
	screentest.Feed[submittedMsg](t, s, cmd)
	require.Empty(t, s.alert)

	reqs := h.API.Requests()
	require.Len(t, reqs, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, "doc-1", body["document_id"])
	assert.Equal(t, float64(12), body["num_questions"])
	assert.Equal(t, []any{"multiple_choice", "true_false"}, body["question_types"])

	assert.Equal(t, model.PageLoading, h.Env.State.CurrentPage())
	cur := h.Env.State.CurrentAssessment()
	require.NotNil(t, cur)
	assert.Equal(t, []string{"bio.pdf", "chem.pdf"}, cur.SourceFiles)
	assert.Equal(t, model.AssessmentPending, cur.Status)
}

func TestGenerationFailureShowsAlert(t *testing.T) {
	s, h := openCreate(t)
	h.API.Fail(http.MethodPost, "/api/assessments", http.StatusServiceUnavailable, `{"detail":"model overloaded"}`)

	screentest.Press(s, "space", "tab")
	screentest.Type(s, "enzymes")
	_, cmd := screentest.Press(s, "ctrl+g")
	screentest.Feed[submittedMsg](t, s, cmd)

	assert.Equal(t, "Could not start the generation: model overloaded", s.alert)
	assert.Empty(t, h.Env.State.Assessments())
	assert.NotEqual(t, model.PageLoading, h.Env.State.CurrentPage())

	screentest.Press(s, "enter")
	assert.Empty(t, s.alert)
	assert.True(t, s.creating)
}

func TestEditOpensEditor(t *testing.T) {
	h := screentest.New(t)
	h.Env.State.SetAssessments([]model.Assessment{
		{ID: "p", Title: "Pending", Status: model.AssessmentPending},
		{ID: "a", Title: "Cells", Status: model.AssessmentNew, Questions: []model.Question{
			{ID: "q1", Type: model.QuestionShortAnswer, Text: "Unit of life?", CorrectText: "cell"},
		}},
	})
	s := New(h.Env)
	require.Len(t, s.menu.Items, 3)
	assert.True(t, s.menu.Items[1].Disabled)

	_, cmd := screentest.Press(s, "down", "enter")
	push := screentest.Await[router.PushScreenMsg](t, cmd)
	ed, ok := push.Screen.(*editor.Screen)
	require.True(t, ok)
	assert.Equal(t, "a", ed.Assessment().ID)
}

func TestEscapeLeavesForm(t *testing.T) {
	s, _ := openCreate(t)
	screentest.Press(s, "esc")
	assert.False(t, s.creating)
	assert.False(t, s.CapturesInput())
}
