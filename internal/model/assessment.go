package model

import (
	"strings"
	"time"
)

// AssessmentStatus is the lifecycle state of an assessment.
type AssessmentStatus string

const (
	AssessmentNew        AssessmentStatus = "new"
	AssessmentPending    AssessmentStatus = "pending"
	AssessmentProcessing AssessmentStatus = "processing"
	AssessmentCompleted  AssessmentStatus = "completed"
	AssessmentFailed     AssessmentStatus = "failed"
)

// Difficulty of an assessment.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyNone   Difficulty = "none"
)

// Difficulties lists the selectable difficulties.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty maps free text to a Difficulty; unknown values are DifficultyNone.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyMedium:
		return DifficultyMedium
	case DifficultyHard:
		return DifficultyHard
	}
	return DifficultyNone
}

// Attempts is the history of submitted exam attempts.
type Attempts struct {
	Attempts [][]Question
	Scores   []int
}

// Assessment is a generated exam.
type Assessment struct {
	ID            string
	Title         string
	CreatedAt     time.Time
	Status        AssessmentStatus
	SourceFiles   []string
	QuestionCount int
	Difficulty    Difficulty
	Questions     []Question
	BestScore     *int
	LastScore     *int
	Attempts      Attempts

	// LocalEdits marks an assessment changed in the editing studio; remote
	// refreshes keep its local questions.
	LocalEdits bool

	// FailureReason is the server's explanation when Status is failed.
	FailureReason string
}

// Ready reports whether the assessment can be taken.
func (a Assessment) Ready() bool {
	return (a.Status == AssessmentNew || a.Status == AssessmentCompleted) && len(a.Questions) > 0
}

// Clone returns a deep copy of a.
func (a Assessment) Clone() Assessment {
	if a.SourceFiles != nil {
		sf := make([]string, len(a.SourceFiles))
		copy(sf, a.SourceFiles)
		a.SourceFiles = sf
	}
	a.Questions = CloneQuestions(a.Questions)
	if a.BestScore != nil {
		v := *a.BestScore
		a.BestScore = &v
	}
	if a.LastScore != nil {
		v := *a.LastScore
		a.LastScore = &v
	}
	if a.Attempts.Attempts != nil {
		atts := make([][]Question, len(a.Attempts.Attempts))
		for i, qs := range a.Attempts.Attempts {
			atts[i] = CloneQuestions(qs)
		}
		a.Attempts.Attempts = atts
	}
	if a.Attempts.Scores != nil {
		sc := make([]int, len(a.Attempts.Scores))
		copy(sc, a.Attempts.Scores)
		a.Attempts.Scores = sc
	}
	return a
}

// CloneAssessments deep-copies a slice of assessments.
func CloneAssessments(as []Assessment) []Assessment {
	if as == nil {
		return nil
	}
	out := make([]Assessment, len(as))
	for i, a := range as {
		out[i] = a.Clone()
	}
	return out
}

// ExamDraft is an unfinished exam attempt kept locally by Save & Exit.
type ExamDraft struct {
	Answers map[string]string
	Index   int
}

// Clone returns a deep copy of d.
func (d ExamDraft) Clone() ExamDraft {
	answers := make(map[string]string, len(d.Answers))
	for k, v := range d.Answers {
		answers[k] = v
	}
	d.Answers = answers
	return d
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
