package exam

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/model"
)

// Result is a graded attempt.
type Result struct {
	Questions []model.Question
	Correct   int
	Total     int
	Score     int
}

// IsCorrect compares the user's answer with the correct answer ignoring case
// and surrounding space. Blank answers are never correct.
func IsCorrect(q model.Question) bool {
	got := strings.TrimSpace(q.UserAnswer)
	if got == "" {
		return false
	}
	return strings.EqualFold(got, strings.TrimSpace(q.CorrectAnswerText()))
}

// Grade copies questions with the given answers filled in and scores them as
// a rounded percentage.
func Grade(questions []model.Question, answers map[string]string) Result {
	res := Result{
		Questions: model.CloneQuestions(questions),
		Total:     len(questions),
	}
	for i := range res.Questions {
		q := &res.Questions[i]
		q.UserAnswer = answers[q.ID]
		if IsCorrect(*q) {
			res.Correct++
		}
	}
	if res.Total > 0 {
		res.Score = int(math.Round(float64(res.Correct) / float64(res.Total) * 100))
	}
	return res
}

// Submit grades att against a and returns the completed assessment with the
// attempt appended to its history.
func Submit(a model.Assessment, att *Attempt) (model.Assessment, Result) {
	res := Grade(a.Questions, att.Answers())

	next := a.Clone()
	next.Questions = model.CloneQuestions(res.Questions)
	next.Status = model.AssessmentCompleted
	next.LastScore = model.IntPtr(res.Score)
	if next.BestScore == nil || res.Score > *next.BestScore {
		next.BestScore = model.IntPtr(res.Score)
	}
	next.Attempts.Attempts = append(next.Attempts.Attempts, model.CloneQuestions(res.Questions))
	next.Attempts.Scores = append(next.Attempts.Scores, res.Score)
	return next, res
}

// Finish submits the attempt, stores the result in c, logs an exam-completed
// activity and opens the grading report.
func Finish(ctx context.Context, c *appstate.Container, a model.Assessment, att *Attempt) (model.Assessment, Result) {
	next, res := Submit(a, att)
	c.UpsertAssessment(next)
	c.SetCurrentAssessment(&next)
	c.ClearDraft(a.ID)
	c.AddActivity(model.ActivityExamCompleted, fmt.Sprintf("Completed %s with %d%%", next.Title, res.Score))
	_ = c.SetCurrentPage(ctx, model.PageGradingReport)
	return next, res
}

// SaveAndExit keeps the attempt as a local draft and returns to the
// assessments hub.
func SaveAndExit(ctx context.Context, c *appstate.Container, assessmentID string, att *Attempt) {
	c.SaveDraft(assessmentID, att.Draft())
	_ = c.SetCurrentPage(ctx, model.PageAssessments)
}

// Band classifies a score for display.
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// BandFor returns the band of score: 90 and up is good, 70 and up fair.
func BandFor(score int) Band {
	switch {
	case score >= 90:
		return BandGood
	case score >= 70:
		return BandFair
	}
	return BandPoor
}
