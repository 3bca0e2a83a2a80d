package studio_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/studio"
)

func sample() model.Assessment {
	return model.Assessment{
		ID:            "a1",
		Title:         "Cell Biology",
		Status:        model.AssessmentNew,
		Difficulty:    model.DifficultyMedium,
		QuestionCount: 3,
		SourceFiles:   []string{"bio.pdf", "chem.pdf"},
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionMultipleChoice, Text: "Powerhouse?", Options: []string{"Nucleus", "Mitochondria"}, CorrectIndex: 1,
				Source: &model.Source{Text: "The mitochondria...", Page: 3, FileName: "bio.pdf"}},
			{ID: "q2", Type: model.QuestionTrueFalse, Text: "Water is H2O.", Options: []string{"True", "False"},
				Source: &model.Source{Text: "H2O", Page: 1, FileName: "chem.pdf"}},
			{ID: "q3", Type: model.QuestionShortAnswer, Text: "Name the gas.", CorrectText: "Oxygen"},
		},
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	a := sample()
	intents := []studio.Intent{
		studio.SetTitle{Title: "Renamed"},
		studio.SetQuestionText{Index: 0, Text: "changed"},
		studio.SetOption{Index: 0, Option: 0, Text: "Golgi"},
		studio.SetQuestionType{Index: 1, Type: model.QuestionShortAnswer},
		studio.SetSourceText{Index: 0, Text: "changed"},
		studio.DeleteQuestion{Index: 0},
		studio.AddQuestion{},
	}
	for _, in := range intents {
		_, err := studio.Reduce(a, in)
		require.NoError(t, err)
	}
	assert.Equal(t, sample(), a)
}

func TestSetQuestionTypeResetsAnswer(t *testing.T) {
	tests := []struct {
		typ     model.QuestionType
		options []string
	}{
		{model.QuestionMultipleChoice, []string{"", "", "", ""}},
		{model.QuestionTrueFalse, []string{"True", "False"}},
		{model.QuestionShortAnswer, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			next, err := studio.Reduce(sample(), studio.SetQuestionType{Index: 0, Type: tt.typ})
			require.NoError(t, err)
			q := next.Questions[0]
			assert.Equal(t, tt.typ, q.Type)
			assert.Equal(t, tt.options, q.Options)
			assert.Zero(t, q.CorrectIndex)
			assert.Empty(t, q.CorrectText)
			assert.NoError(t, q.Validate())
		})
	}
}

func TestSetQuestionTypeRejectsUnknown(t *testing.T) {
	_, err := studio.Reduce(sample(), studio.SetQuestionType{Index: 0, Type: "essay"})
	assert.ErrorIs(t, err, studio.ErrInvalidType)
}

func TestOptionEdits(t *testing.T) {
	next, err := studio.Reduce(sample(), studio.SetOption{Index: 0, Option: 0, Text: "Golgi"})
	require.NoError(t, err)
	assert.Equal(t, "Golgi", next.Questions[0].Options[0])

	next, err = studio.Reduce(next, studio.SetCorrectOption{Index: 0, Option: 0})
	require.NoError(t, err)
	assert.Equal(t, "Golgi", next.Questions[0].CorrectAnswerText())

	_, err = studio.Reduce(next, studio.SetCorrectOption{Index: 0, Option: 2})
	assert.ErrorIs(t, err, studio.ErrOptionIndex)
	_, err = studio.Reduce(next, studio.SetOption{Index: 2, Option: 0, Text: "x"})
	assert.ErrorIs(t, err, studio.ErrNotChoice)
	_, err = studio.Reduce(next, studio.SetShortAnswer{Index: 0, Text: "x"})
	assert.ErrorIs(t, err, studio.ErrNotShortAnswer)

	next, err = studio.Reduce(next, studio.SetShortAnswer{Index: 2, Text: "O2"})
	require.NoError(t, err)
	assert.Equal(t, "O2", next.Questions[2].CorrectAnswerText())
}

func TestAddAndDeleteKeepCountInSync(t *testing.T) {
	next, err := studio.Reduce(sample(), studio.AddQuestion{})
	require.NoError(t, err)
	require.Len(t, next.Questions, 4)
	assert.Equal(t, 4, next.QuestionCount)
	added := next.Questions[3]
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, model.QuestionMultipleChoice, added.Type)
	assert.Len(t, added.Options, studio.BlankOptions)

	next, err = studio.Reduce(next, studio.DeleteQuestion{Index: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, next.QuestionCount)
	assert.Equal(t, "q2", next.Questions[0].ID)
	assert.Equal(t, []string{"chem.pdf"}, next.SourceFiles)

	_, err = studio.Reduce(next, studio.DeleteQuestion{Index: 7})
	assert.ErrorIs(t, err, studio.ErrQuestionIndex)
}

func TestSourceEditsRederiveFiles(t *testing.T) {
	a := sample()
	next, err := studio.Reduce(a, studio.AddSource{Index: 2})
	require.NoError(t, err)
	assert.Equal(t, model.NoSourceFile, next.Questions[2].Source.FileName)
	assert.Equal(t, []string{"bio.pdf", "chem.pdf"}, next.SourceFiles)

	next, err = studio.Reduce(next, studio.SetSourceFile{Index: 2, FileName: "physics.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bio.pdf", "chem.pdf", "physics.pdf"}, next.SourceFiles)

	next, err = studio.Reduce(next, studio.SetSourcePage{Index: 2, Page: 12})
	require.NoError(t, err)
	assert.Equal(t, 12, next.Questions[2].Source.Page)
	_, err = studio.Reduce(next, studio.SetSourcePage{Index: 2, Page: -1})
	assert.ErrorIs(t, err, studio.ErrInvalidPage)

	next, err = studio.Reduce(next, studio.RemoveSource{Index: 0})
	require.NoError(t, err)
	assert.Nil(t, next.Questions[0].Source)
	assert.Equal(t, []string{"chem.pdf", "physics.pdf"}, next.SourceFiles)

	_, err = studio.Reduce(next, studio.SetSourceText{Index: 0, Text: "x"})
	assert.ErrorIs(t, err, studio.ErrNoSource)
}

func TestTitleAndDifficulty(t *testing.T) {
	_, err := studio.Reduce(sample(), studio.SetTitle{Title: "   "})
	assert.ErrorIs(t, err, studio.ErrEmptyTitle)

	next, err := studio.Reduce(sample(), studio.SetDifficulty{Difficulty: model.DifficultyHard})
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyHard, next.Difficulty)

	_, err = studio.Reduce(sample(), studio.SetDifficulty{Difficulty: "brutal"})
	assert.ErrorIs(t, err, studio.ErrInvalidDifficulty)
}

func TestEditorSave(t *testing.T) {
	c, err := appstate.New(appstate.Deps{OnLogin: func(context.Context, *appstate.Container) {}})
	require.NoError(t, err)
	defer c.Close()
	c.SetAssessments([]model.Assessment{sample()})

	ed := studio.NewEditor(sample())
	assert.False(t, ed.Dirty())
	require.NoError(t, ed.Apply(studio.SetTitle{Title: "Edited"}))
	assert.Error(t, ed.Apply(studio.DeleteQuestion{Index: 9}))
	assert.True(t, ed.Dirty())

	stored, _ := c.Assessment("a1")
	assert.Equal(t, "Cell Biology", stored.Title)

	require.NoError(t, ed.Save(c))
	assert.False(t, ed.Dirty())

	stored, _ = c.Assessment("a1")
	assert.Equal(t, "Edited", stored.Title)
	assert.True(t, stored.LocalEdits)
	assert.Len(t, c.Assessments(), 1)
	assert.Equal(t, "a1", c.CurrentAssessment().ID)
}

func TestSaveRejectsInvalidQuestion(t *testing.T) {
	c, err := appstate.New(appstate.Deps{OnLogin: func(context.Context, *appstate.Container) {}})
	require.NoError(t, err)
	defer c.Close()

	a := sample()
	a.Questions[0].CorrectIndex = 5
	_, err = studio.Save(c, a)
	assert.ErrorIs(t, err, model.ErrCorrectOutOfRange)
	assert.Empty(t, c.Assessments())
}
