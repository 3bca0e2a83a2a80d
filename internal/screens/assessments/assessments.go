// Package assessments is the hub listing every generated assessment.
package assessments

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/scholarai/scholar/internal/export"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/screens/editor"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

// Filter narrows the list by status.
type Filter int

const (
	FilterAll Filter = iota
	FilterNew
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterNew:
		return "New"
	case FilterCompleted:
		return "Completed"
	}
	return "All"
}

func (f Filter) match(a model.Assessment) bool {
	switch f {
	case FilterNew:
		return a.Status != model.AssessmentCompleted
	case FilterCompleted:
		return a.Status == model.AssessmentCompleted
	}
	return true
}

type exportedMsg struct {
	path string
	err  error
}

type refreshedMsg struct{}

// Screen lists assessments and starts exams, reports, edits and exports.
type Screen struct {
	env    screen.Env
	filter Filter
	cursor int
	dir    string

	notice string
	alert  string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the hub. Exports are written to the working directory.
func New(env screen.Env) *Screen {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &Screen{env: env, dir: dir}
}

func (s *Screen) Title() string { return "Assessments" }

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) visible() []model.Assessment {
	var out []model.Assessment
	for _, a := range s.env.State.Assessments() {
		if s.filter.match(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Screen) counts() map[Filter]int {
	n := make(map[Filter]int)
	for _, a := range s.env.State.Assessments() {
		for _, f := range []Filter{FilterAll, FilterNew, FilterCompleted} {
			if f.match(a) {
				n[f]++
			}
		}
	}
	return n
}

func (s *Screen) clampCursor() {
	s.cursor = min(max(s.cursor, 0), max(len(s.visible())-1, 0))
}

func (s *Screen) selected() (model.Assessment, bool) {
	list := s.visible()
	if s.cursor >= len(list) {
		return model.Assessment{}, false
	}
	return list[s.cursor], true
}

func (s *Screen) exportTo(a model.Assessment, answers bool) tea.Cmd {
	path := filepath.Join(s.dir, export.FileName(a, export.FormatYAML, answers))
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{err: err}
		}
		if err := export.Write(f, a, export.FormatYAML, answers); err != nil {
			f.Close()
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path, err: f.Close()}
	}
}

func (s *Screen) refresh() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		env.State.FetchAssessments(env.Ctx)
		return refreshedMsg{}
	}
}

// open starts the exam for a, or shows the generation progress of a pending one.
func (s *Screen) open(a model.Assessment) tea.Cmd {
	switch a.Status {
	case model.AssessmentPending, model.AssessmentProcessing:
		s.env.State.SetCurrentAssessment(&a)
		return router.Navigate(model.PageLoading)
	case model.AssessmentFailed:
		reason := a.FailureReason
		if reason == "" {
			reason = "the server could not generate it"
		}
		s.alert = fmt.Sprintf("%s failed: %s", a.Title, reason)
		return nil
	}
	if !a.Ready() {
		s.alert = a.Title + " has no questions yet."
		return nil
	}
	s.env.State.SetCurrentAssessment(&a)
	return router.Navigate(model.PageExamMode)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportedMsg:
		if msg.err != nil {
			s.env.Log.Warnw("export failed", "error", msg.err)
			s.alert = "Export failed: " + msg.err.Error()
			return s, nil
		}
		s.notice = "Saved " + msg.path
		return s, nil

	case refreshedMsg:
		s.notice = "Assessments refreshed."
		s.clampCursor()
		return s, nil

	case screen.StateChangedMsg:
		s.clampCursor()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if s.alert != "" {
		if key == "enter" || key == "esc" {
			s.alert = ""
		}
		return s, nil
	}

	switch key {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
		return s, nil
	case "down", "j":
		s.cursor = min(s.cursor+1, max(len(s.visible())-1, 0))
		return s, nil
	case "tab", "right", "l":
		s.filter = (s.filter + 1) % 3
		s.cursor = 0
		return s, nil
	case "shift+tab", "left", "h":
		s.filter = (s.filter + 2) % 3
		s.cursor = 0
		return s, nil
	case "r":
		return s, s.refresh()
	case "n":
		return s, router.Navigate(model.PageExamStudio)
	}

	a, ok := s.selected()
	if !ok {
		return s, nil
	}
	s.notice = ""
	switch key {
	case "enter":
		return s, s.open(a)
	case "v":
		if a.Status != model.AssessmentCompleted || a.LastScore == nil {
			s.alert = "Take the exam first to see its results."
			return s, nil
		}
		s.env.State.SetCurrentAssessment(&a)
		return s, router.Navigate(model.PageGradingReport)
	case "e":
		if len(a.Questions) == 0 {
			s.alert = a.Title + " has no questions to edit."
			return s, nil
		}
		return s, router.Push(editor.New(s.env, a))
	case "x", "X":
		if len(a.Questions) == 0 {
			s.alert = a.Title + " has no questions to export."
			return s, nil
		}
		return s, s.exportTo(a, key == "X")
	}
	return s, nil
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.alert != "" {
		return []layout.KeyHint{{Key: "Enter", Description: "Dismiss"}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filter"},
		{Key: "Enter", Description: "Start"},
		{Key: "v", Description: "Results"},
		{Key: "e", Description: "Edit"},
		{Key: "x/X", Description: "Export paper/key"},
		{Key: "r", Description: "Refresh"},
	}
}

func statusBadge(a model.Assessment) string {
	switch a.Status {
	case model.AssessmentCompleted:
		return components.Badge("completed", theme.Success)
	case model.AssessmentFailed:
		return components.Badge("failed", theme.Error)
	case model.AssessmentPending, model.AssessmentProcessing:
		return components.Badge("generating", theme.Accent)
	}
	return components.Badge("new", theme.Primary)
}

func (s *Screen) renderTabs() string {
	n := s.counts()
	var tabs []string
	for _, f := range []Filter{FilterAll, FilterNew, FilterCompleted} {
		label := fmt.Sprintf(" %s (%d) ", f, n[f])
		if f == s.filter {
			tabs = append(tabs, theme.ButtonActive.Render(label))
		} else {
			tabs = append(tabs, theme.ButtonInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (s *Screen) renderList(width int) string {
	list := s.visible()
	if len(list) == 0 {
		if s.filter == FilterAll {
			return theme.Hint.Render("No assessments yet. Press n to create one in the studio.")
		}
		return theme.Hint.Render("Nothing here.")
	}
	var rows []string
	for i, a := range list {
		title := a.Title
		if i == s.cursor {
			title = theme.Selected.Render("▸ " + title)
		} else {
			title = theme.Unselected.Render("  " + title)
		}
		meta := []string{fmt.Sprintf("%d questions", max(a.QuestionCount, len(a.Questions)))}
		if a.Difficulty != model.DifficultyNone && a.Difficulty != "" {
			meta = append(meta, string(a.Difficulty))
		}
		if !a.CreatedAt.IsZero() {
			meta = append(meta, humanize.Time(a.CreatedAt))
		}
		row := title + "  " + statusBadge(a)
		if a.LastScore != nil {
			row += "  " + theme.ScoreStyle(*a.LastScore).Render(fmt.Sprintf("%d%%", *a.LastScore))
		}
		if _, ok := s.env.State.Draft(a.ID); ok {
			row += "  " + theme.WarningText.Render("in progress")
		}
		rows = append(rows, row+"  "+theme.Hint.Render(strings.Join(meta, " · ")))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(rows, "\n"))
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	sections := []string{
		s.renderTabs(),
		components.Card(s.filter.String(), s.renderList(cw-4), cw),
	}
	if s.alert != "" {
		sections = append(sections, components.AlertBox(s.alert, cw))
	} else if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	return components.Page("Assessments", "Take exams, review results and export papers", width, sections...)
}
