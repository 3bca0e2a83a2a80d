package api

import (
	"strings"

	"github.com/scholarai/scholar/internal/model"
)

// MapDocumentStatus translates a backend document status into the library's
// vocabulary.
func MapDocumentStatus(s string) model.FileStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return model.FileStatusIndexing
	case "ready", "completed":
		return model.FileStatusReady
	case "failed", "error":
		return model.FileStatusFailed
	default:
		return model.FileStatusProcessing
	}
}

// MapAssessmentStatus translates a backend assessment status. A finished
// generation is "new" to the client until the user takes it.
func MapAssessmentStatus(s string) model.AssessmentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "":
		return model.AssessmentPending
	case "completed", "ready", "new", "done":
		return model.AssessmentNew
	case "failed", "error":
		return model.AssessmentFailed
	default:
		return model.AssessmentProcessing
	}
}
