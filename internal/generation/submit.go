package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/model"
)

// Generator starts generations.
type Generator interface {
	Generate(ctx context.Context, req api.GenerateRequest) (string, error)
}

// Fetcher reads one assessment.
type Fetcher interface {
	GetAssessment(ctx context.Context, id string) (model.Assessment, error)
}

// TitleFor is the placeholder title of a generation until the server names it.
func TitleFor(query string) string {
	return "Assessment: " + strings.TrimSpace(query)
}

// Submit validates sel, posts it and records an optimistic pending
// assessment in c, then navigates to the loading page. It returns the
// placeholder assessment. Nothing is recorded when the post fails.
func Submit(ctx context.Context, gen Generator, c *appstate.Container, sel Selection) (model.Assessment, error) {
	if err := sel.Validate(); err != nil {
		return model.Assessment{}, err
	}

	id, err := gen.Generate(ctx, BuildRequest(sel))
	if err != nil {
		return model.Assessment{}, fmt.Errorf("generate assessment: %w", err)
	}

	a := model.Assessment{
		ID:            id,
		Title:         TitleFor(sel.Query),
		CreatedAt:     time.Now(),
		Status:        model.AssessmentPending,
		SourceFiles:   sel.FileNames(),
		QuestionCount: sel.Count,
		Difficulty:    sel.Difficulty,
		Questions:     []model.Question{},
	}
	c.UpsertAssessment(a)
	c.SetCurrentAssessment(&a)
	c.AddActivity(model.ActivityExamCreated, "Created "+a.Title)
	_ = c.SetCurrentPage(ctx, model.PageLoading)
	return a, nil
}
