package appstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/model"
)

func TestMergeAssessments(t *testing.T) {
	taken := model.Assessment{
		ID:        "taken",
		Status:    model.AssessmentCompleted,
		Questions: []model.Question{{ID: "q1", UserAnswer: "x"}},
		BestScore: model.IntPtr(80),
		Attempts:  model.Attempts{Scores: []int{80}},
	}
	pending := model.Assessment{ID: "pending", Status: model.AssessmentPending}
	optimistic := model.Assessment{ID: "local-only", Status: model.AssessmentPending}

	remote := []model.Assessment{
		{ID: "taken", Status: model.AssessmentNew, Questions: []model.Question{{ID: "q1"}}},
		{ID: "pending", Status: model.AssessmentNew, Questions: []model.Question{{ID: "q9"}}, QuestionCount: 1},
		{ID: "fresh", Status: model.AssessmentProcessing},
	}

	merged := appstate.MergeAssessments([]model.Assessment{optimistic, taken, pending}, remote)
	require.Len(t, merged, 4)

	assert.Equal(t, "local-only", merged[0].ID)

	assert.Equal(t, model.AssessmentCompleted, merged[1].Status)
	assert.Equal(t, "x", merged[1].Questions[0].UserAnswer)
	assert.Equal(t, 80, *merged[1].BestScore)
	assert.Equal(t, []int{80}, merged[1].Attempts.Scores)

	assert.Equal(t, model.AssessmentNew, merged[2].Status)
	assert.Equal(t, "q9", merged[2].Questions[0].ID)

	assert.Equal(t, "fresh", merged[3].ID)
}
