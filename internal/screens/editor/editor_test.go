package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen/screentest"
)

func sample() model.Assessment {
	return model.Assessment{
		ID:            "as-1",
		Title:         "Cell Biology",
		Status:        model.AssessmentNew,
		Difficulty:    model.DifficultyMedium,
		QuestionCount: 2,
		SourceFiles:   []string{"bio.pdf"},
		Questions: []model.Question{
			{
				ID: "q1", Type: model.QuestionMultipleChoice, Text: "Powerhouse of the cell?",
				Options: []string{"Nucleus", "Mitochondria", "Ribosome"}, CorrectIndex: 0,
				Source: &model.Source{FileName: "bio.pdf", Page: 4, Text: "Mitochondria produce ATP."},
			},
			{ID: "q2", Type: model.QuestionShortAnswer, Text: "Gas released by photosynthesis?", CorrectText: "Oxygen"},
		},
	}
}

func newEditor(t *testing.T) (*Screen, *screentest.Harness) {
	t.Helper()
	h := screentest.New(t)
	h.Env.State.SetAssessments([]model.Assessment{sample()})
	return New(h.Env, sample()), h
}

// moveTo puts the cursor on the first field matching kind and question.
func moveTo(t *testing.T, s *Screen, kind fieldKind, question int) {
	t.Helper()
	for i, f := range s.fields {
		if f.kind == kind && f.question == question {
			s.cursor = i
			return
		}
	}
	t.Fatalf("no field %v for question %d", kind, question)
}

func TestFieldLayout(t *testing.T) {
	s, _ := newEditor(t)
	require.Len(t, s.fields, 14)
	assert.Equal(t, field{kind: fieldOption, question: 0, option: 2}, s.fields[6])
	assert.Equal(t, field{kind: fieldAddSource, question: 1}, s.fields[13])
}

func TestEditTitle(t *testing.T) {
	s, h := newEditor(t)
	screentest.Press(s, "enter")
	require.True(t, s.editing)
	assert.Equal(t, "Cell Biology", s.input.Value())

	s.input.SetValue("Cell Biology II")
	screentest.Press(s, "enter")

	assert.False(t, s.editing)
	assert.Equal(t, "Cell Biology II", s.Assessment().Title)
	assert.True(t, s.editor.Dirty())

	stored, _ := h.Env.State.Assessment("as-1")
	assert.Equal(t, "Cell Biology", stored.Title)
}

func TestEmptyTitleRejected(t *testing.T) {
	s, _ := newEditor(t)
	screentest.Press(s, "enter")
	s.input.SetValue("   ")
	screentest.Press(s, "enter")
	assert.Equal(t, "Cell Biology", s.Assessment().Title)
	assert.NotEmpty(t, s.err)
}

func TestCancelEdit(t *testing.T) {
	s, _ := newEditor(t)
	screentest.Press(s, "enter")
	s.input.SetValue("Something else")
	screentest.Press(s, "esc")
	assert.False(t, s.editing)
	assert.Equal(t, "Cell Biology", s.Assessment().Title)
}

func TestMarkCorrectOption(t *testing.T) {
	s, _ := newEditor(t)
	s.cursor = 5
	screentest.Press(s, "c")
	assert.Equal(t, 1, s.Assessment().Questions[0].CorrectIndex)
}

func TestChangeTypeResetsAnswer(t *testing.T) {
	s, _ := newEditor(t)
	moveTo(t, s, fieldQuestionType, 0)
	screentest.Press(s, "right")

	q := s.Assessment().Questions[0]
	assert.Equal(t, model.QuestionTrueFalse, q.Type)
	assert.Equal(t, []string{"True", "False"}, q.Options)
	assert.Len(t, s.fields, 13)
}

func TestCycleDifficulty(t *testing.T) {
	s, _ := newEditor(t)
	s.cursor = 1
	screentest.Press(s, "right")
	assert.Equal(t, model.DifficultyHard, s.Assessment().Difficulty)
	screentest.Press(s, "right")
	assert.Equal(t, model.DifficultyEasy, s.Assessment().Difficulty)
}

func TestAddAndDeleteQuestion(t *testing.T) {
	s, _ := newEditor(t)
	screentest.Press(s, "a")
	a := s.Assessment()
	require.Len(t, a.Questions, 3)
	assert.Equal(t, 3, a.QuestionCount)
	assert.Equal(t, field{kind: fieldQuestionText, question: 2}, s.current())

	moveTo(t, s, fieldQuestionText, 0)
	screentest.Press(s, "x")
	a = s.Assessment()
	require.Len(t, a.Questions, 2)
	assert.Equal(t, "q2", a.Questions[0].ID)
	assert.Empty(t, a.SourceFiles)
}

func TestSources(t *testing.T) {
	s, h := newEditor(t)
	h.Env.State.SetLibraryFiles([]model.LibraryFile{{ID: "d1", Name: "bio.pdf"}, {ID: "d2", Name: "chem.pdf"}})

	moveTo(t, s, fieldAddSource, 1)
	screentest.Press(s, "enter")
	require.NotNil(t, s.Assessment().Questions[1].Source)
	assert.Equal(t, model.NoSourceFile, s.Assessment().Questions[1].Source.FileName)

	moveTo(t, s, fieldSourceFile, 1)
	screentest.Press(s, "right", "right")
	assert.Equal(t, "chem.pdf", s.Assessment().Questions[1].Source.FileName)
	assert.Equal(t, []string{"bio.pdf", "chem.pdf"}, s.Assessment().SourceFiles)

	moveTo(t, s, fieldSourcePage, 1)
	screentest.Press(s, "enter")
	s.input.SetValue("12")
	screentest.Press(s, "enter")
	assert.Equal(t, 12, s.Assessment().Questions[1].Source.Page)

	moveTo(t, s, fieldSourceText, 0)
	screentest.Press(s, "r")
	assert.Nil(t, s.Assessment().Questions[0].Source)
	assert.Equal(t, []string{"chem.pdf"}, s.Assessment().SourceFiles)
}

func TestSave(t *testing.T) {
	s, h := newEditor(t)
	s.cursor = 1
	screentest.Press(s, "left", "ctrl+s")

	assert.False(t, s.editor.Dirty())
	assert.Equal(t, "Saved.", s.status)
	stored, ok := h.Env.State.Assessment("as-1")
	require.True(t, ok)
	assert.Equal(t, model.DifficultyEasy, stored.Difficulty)
	assert.True(t, stored.LocalEdits)
	cur := h.Env.State.CurrentAssessment()
	require.NotNil(t, cur)
	assert.Equal(t, "as-1", cur.ID)
}

func TestEscapeGuardsUnsavedChanges(t *testing.T) {
	s, _ := newEditor(t)
	_, cmd := screentest.Press(s, "esc")
	screentest.Await[router.PopScreenMsg](t, cmd)

	s.cursor = 1
	screentest.Press(s, "right")
	_, cmd = screentest.Press(s, "esc")
	assert.Nil(t, cmd)
	assert.Contains(t, screentest.View(s, 120, 60), "unsaved changes")

	_, cmd = screentest.Press(s, "esc")
	screentest.Await[router.PopScreenMsg](t, cmd)
}

func TestViewWindowsAroundCursor(t *testing.T) {
	s, _ := newEditor(t)
	s.cursor = len(s.fields) - 1
	view := screentest.View(s, 100, 14)
	assert.Contains(t, view, "add a citation")
	assert.NotContains(t, view, "Difficulty")
}
