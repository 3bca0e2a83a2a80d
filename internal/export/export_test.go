package export_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/scholarai/scholar/internal/export"
	"github.com/scholarai/scholar/internal/model"
)

func assessment() model.Assessment {
	return model.Assessment{
		ID:          "a1",
		Title:       "Cell Biology: Basics!",
		Difficulty:  model.DifficultyEasy,
		SourceFiles: []string{"bio.pdf"},
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionMultipleChoice, Text: "Powerhouse?", Options: []string{"Nucleus", "Mitochondria"}, CorrectIndex: 1,
				Source: &model.Source{Text: "The mitochondria", Page: 4, FileName: "bio.pdf"}},
			{ID: "q2", Type: model.QuestionShortAnswer, Text: "Gas?", CorrectText: "Oxygen",
				Source: &model.Source{FileName: model.NoSourceFile}},
		},
	}
}

func TestPaperHasNoAnswers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, assessment(), export.FormatYAML, false))

	var p export.Paper
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &p))
	assert.Equal(t, "Cell Biology: Basics!", p.Title)
	assert.Equal(t, "easy", p.Difficulty)
	require.Len(t, p.Questions, 2)
	assert.Equal(t, 1, p.Questions[0].Number)
	assert.Equal(t, []string{"Nucleus", "Mitochondria"}, p.Questions[0].Options)
	assert.Empty(t, p.Questions[0].Answer)
	assert.Nil(t, p.Questions[0].Source)
	assert.NotContains(t, buf.String(), "Oxygen")
}

func TestAnswerKey(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, assessment(), export.FormatJSON, true))

	var p export.Paper
	require.NoError(t, json.Unmarshal(buf.Bytes(), &p))
	assert.Equal(t, "Mitochondria", p.Questions[0].Answer)
	assert.Equal(t, &export.Source{File: "bio.pdf", Page: 4, Text: "The mitochondria"}, p.Questions[0].Source)
	assert.Equal(t, "Oxygen", p.Questions[1].Answer)
	assert.Nil(t, p.Questions[1].Source)
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, export.FormatYAML, f)
	f, err = export.ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, export.FormatJSON, f)
	_, err = export.ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "cell-biology-basics-answers.yaml", export.FileName(assessment(), export.FormatYAML, true))
	assert.Equal(t, "cell-biology-basics-paper.json", export.FileName(assessment(), export.FormatJSON, false))
	assert.Equal(t, "assessment-paper.yaml", export.FileName(model.Assessment{Title: "!!"}, export.FormatYAML, false))
}
