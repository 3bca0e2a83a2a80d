package exam

import (
	"math"

	"github.com/scholarai/scholar/internal/model"
)

// Stats are the headline numbers shown on the dashboard and profile.
type Stats struct {
	Files          int
	ReadyFiles     int
	Assessments    int
	Completed      int
	AverageScore   int
	TotalQuestions int
}

// Summarize computes Stats. The average is over completed assessments,
// counting a missing last score as zero.
func Summarize(files []model.LibraryFile, as []model.Assessment) Stats {
	st := Stats{Files: len(files), Assessments: len(as)}
	for _, f := range files {
		if f.IsReady() {
			st.ReadyFiles++
		}
	}
	sum := 0
	for _, a := range as {
		st.TotalQuestions += a.QuestionCount
		if a.Status != model.AssessmentCompleted {
			continue
		}
		st.Completed++
		if a.LastScore != nil {
			sum += *a.LastScore
		}
	}
	if st.Completed > 0 {
		st.AverageScore = int(math.Round(float64(sum) / float64(st.Completed)))
	}
	return st
}
