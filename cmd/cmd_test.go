package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/apitest"
	"github.com/scholarai/scholar/internal/auth"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/store"
)

func sampleAssessment() model.Assessment {
	return model.Assessment{
		ID:    "a1",
		Title: "Cell Biology",
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionMultipleChoice, Text: "Powerhouse?", Options: []string{"Nucleus", "Mitochondria"}, CorrectIndex: 1},
			{ID: "q2", Type: model.QuestionTrueFalse, Text: "Cells divide?", Options: model.TrueFalseOptions, CorrectIndex: 0},
			{ID: "q3", Type: model.QuestionShortAnswer, Text: "Gas released by photosynthesis?", CorrectText: "Oxygen"},
		},
	}
}

func TestPractice(t *testing.T) {
	var out bytes.Buffer
	res, err := practice(strings.NewReader("b\n2\noxygen\n"), &out, sampleAssessment())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 67, res.Score)
	assert.Contains(t, out.String(), "── Question 3/3 ──")
	assert.Contains(t, out.String(), "✗ Wrong. Answer: True")
}

func TestPracticeStopsWhenInputEnds(t *testing.T) {
	var out bytes.Buffer
	res, err := practice(strings.NewReader("\n"), &out, sampleAssessment())
	require.NoError(t, err)
	assert.Zero(t, res.Correct)
	assert.Contains(t, out.String(), "(skipped)")
	assert.Contains(t, out.String(), "(input closed)")
}

func TestResolveAnswer(t *testing.T) {
	q := sampleAssessment().Questions[0]
	assert.Equal(t, "Mitochondria", resolveAnswer(q, "B"))
	assert.Equal(t, "Nucleus", resolveAnswer(q, "1"))
	assert.Equal(t, "nucleus", resolveAnswer(q, "nucleus"))
	assert.Equal(t, "Z", resolveAnswer(q, "Z"))
	assert.Equal(t, "b", resolveAnswer(sampleAssessment().Questions[2], "b"))
}

// execute runs the root command against fake backends with a signed-in
// session cached in a temporary database.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	fakeAuth := apitest.NewAuth(t)
	fakeAPI := apitest.NewAPI(t)
	fakeAPI.AddDocument(map[string]any{"id": "doc-1", "file_name": "bio.pdf", "file_size": 2 * 1024 * 1024, "page_count": 3, "status": "completed"})

	db := filepath.Join(t.TempDir(), "scholar.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	fakeAuth.AddUser("ada@example.com", "engine", "Ada Lovelace")
	gw := auth.New(auth.Options{BaseURL: fakeAuth.URL(), APIKey: fakeAuth.APIKey, Cache: st.Sessions()})
	_, err = gw.SignIn(context.Background(), auth.Credentials{Email: "ada@example.com", Password: "engine"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--db", db,
		"--auth-url", fakeAuth.URL(),
		"--auth-key", fakeAuth.APIKey,
		"--api-url", fakeAPI.URL(),
	}, args...))
	err = rootCmd.Execute()
	return out.String(), err
}

func TestDocsList(t *testing.T) {
	out, err := execute(t, "docs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "doc-1")
	assert.Contains(t, out, "bio.pdf")
	assert.Contains(t, out, "1 documents, 2.0 of 500 MB used")
}

func TestStats(t *testing.T) {
	out, err := execute(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ada@example.com")
	assert.Contains(t, out, "1 (1 ready)")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "scholar (devel)\n", out)
}
