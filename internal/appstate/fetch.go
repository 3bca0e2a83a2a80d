package appstate

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/scholarai/scholar/internal/model"
)

// LoadUserData is the default login effect: it refreshes the library and the
// assessments concurrently.
func LoadUserData(ctx context.Context, c *Container) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.FetchLibraryFiles(gctx)
		return nil
	})
	g.Go(func() error {
		c.FetchAssessments(gctx)
		return nil
	})
	_ = g.Wait()
}

// hasSession reports whether a token is available, logging when it is not.
func (c *Container) hasSession(ctx context.Context, what string) bool {
	if c.deps.Tokens == nil {
		c.log.Infow("skipping fetch without token source", "what", what)
		return false
	}
	if _, err := c.deps.Tokens.AccessToken(ctx); err != nil {
		c.log.Infow("skipping fetch without session", "what", what, "error", err)
		return false
	}
	return true
}

// FetchLibraryFiles replaces the library with the server's list. Failures
// are logged and leave the library untouched.
func (c *Container) FetchLibraryFiles(ctx context.Context) {
	c.check()
	if c.deps.Library == nil || !c.hasSession(ctx, "library") {
		return
	}
	files, err := c.deps.Library.ListDocuments(ctx)
	if err != nil {
		c.log.Warnw("fetch library failed", "error", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	c.SetLibraryFiles(files)
	c.log.Debugw("library fetched", "count", len(files))
}

// FetchAssessments merges the server's assessments into the local
// collection. Failures are logged and leave the collection untouched.
func (c *Container) FetchAssessments(ctx context.Context) {
	c.check()
	if c.deps.Assessments == nil || !c.hasSession(ctx, "assessments") {
		return
	}
	remote, err := c.deps.Assessments.ListAssessments(ctx)
	if err != nil {
		c.log.Warnw("fetch assessments failed", "error", err)
		return
	}
	if ctx.Err() != nil {
		return
	}
	c.UpdateAssessments(func(local []model.Assessment) []model.Assessment {
		return MergeAssessments(local, remote)
	})
	c.log.Debugw("assessments fetched", "count", len(remote))
}

// MergeAssessments combines a remote listing with local state. Remote order
// wins; local-only entries (e.g. generations the server has not listed yet)
// stay in front. Local attempts and scores are always kept, and taken or
// edited assessments keep their local questions.
func MergeAssessments(local, remote []model.Assessment) []model.Assessment {
	byID := make(map[string]model.Assessment, len(local))
	for _, a := range local {
		byID[a.ID] = a
	}
	seen := make(map[string]bool, len(remote))

	merged := make([]model.Assessment, 0, len(remote))
	for _, r := range remote {
		seen[r.ID] = true
		l, ok := byID[r.ID]
		if !ok {
			merged = append(merged, r)
			continue
		}
		if l.Status == model.AssessmentCompleted || l.LocalEdits || (len(r.Questions) == 0 && len(l.Questions) > 0) {
			r.Status = l.Status
			r.Title = l.Title
			r.Difficulty = l.Difficulty
			r.Questions = l.Questions
			r.QuestionCount = l.QuestionCount
			r.SourceFiles = l.SourceFiles
			r.LocalEdits = l.LocalEdits
		}
		r.Attempts = l.Attempts
		if l.BestScore != nil {
			r.BestScore = l.BestScore
		}
		if l.LastScore != nil {
			r.LastScore = l.LastScore
		}
		merged = append(merged, r)
	}

	var localOnly []model.Assessment
	for _, l := range local {
		if !seen[l.ID] {
			localOnly = append(localOnly, l)
		}
	}
	return append(localOnly, merged...)
}
