// Package library is the document library screen.
package library

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/scholarai/scholar/internal/api"
	doclib "github.com/scholarai/scholar/internal/library"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

type mode int

const (
	modeList mode = iota
	modeUpload
	modeConfirmDelete
)

type uploadedMsg struct {
	file model.LibraryFile
	err  error
}

type deletedMsg struct {
	name string
	err  error
}

type refreshedMsg struct{}

// Screen lists the user's documents and uploads or deletes them.
type Screen struct {
	env    screen.Env
	mode   mode
	cursor int
	path   components.TextInput
	target model.LibraryFile

	uploading int
	notice    string
	alert     string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the library screen.
func New(env screen.Env) *Screen {
	return &Screen{
		env: env,
		path: components.NewTextInput(components.InputOptions{
			Label: "Path to a PDF", Placeholder: "~/notes/chapter1.pdf", Width: 60,
		}),
	}
}

func (s *Screen) Title() string { return "Library" }

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) CapturesInput() bool { return s.mode == modeUpload }

func (s *Screen) files() []model.LibraryFile { return s.env.State.LibraryFiles() }

func (s *Screen) clampCursor() {
	s.cursor = min(max(s.cursor, 0), max(len(s.files())-1, 0))
}

func (s *Screen) upload(path string) tea.Cmd {
	s.uploading++
	s.notice = ""
	env := s.env
	return func() tea.Msg {
		f, err := doclib.UploadFile(env.Ctx, env.API, env.State, expandHome(path))
		return uploadedMsg{file: f, err: err}
	}
}

func (s *Screen) remove(f model.LibraryFile) tea.Cmd {
	env := s.env
	return func() tea.Msg {
		return deletedMsg{name: f.Name, err: doclib.Delete(env.Ctx, env.API, env.State, f.ID)}
	}
}

func (s *Screen) refresh() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		env.State.FetchLibraryFiles(env.Ctx)
		return refreshedMsg{}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadedMsg:
		s.uploading--
		if msg.err != nil {
			s.env.Log.Warnw("upload failed", "error", msg.err)
			s.alert = "Upload failed: " + api.UserMessage(msg.err)
			return s, nil
		}
		s.notice = fmt.Sprintf("Uploaded %s.", msg.file.Name)
		return s, nil

	case deletedMsg:
		if msg.err != nil {
			s.env.Log.Warnw("delete failed", "file", msg.name, "error", msg.err)
			s.alert = "Could not delete " + msg.name + ": " + api.UserMessage(msg.err)
			return s, nil
		}
		s.notice = fmt.Sprintf("Deleted %s.", msg.name)
		s.clampCursor()
		return s, nil

	case refreshedMsg:
		s.notice = "Library refreshed."
		s.clampCursor()
		return s, nil

	case screen.StateChangedMsg:
		s.clampCursor()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.mode == modeUpload {
		var cmd tea.Cmd
		s.path, cmd = s.path.Update(msg)
		return s, cmd
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

	switch s.mode {
	case modeUpload:
		switch key {
		case "esc":
			s.mode = modeList
			s.path.Blur()
			return s, nil
		case "enter":
			path := strings.TrimSpace(s.path.Value())
			if path == "" {
				return s, nil
			}
			s.mode = modeList
			s.path.Blur()
			s.path.SetValue("")
			return s, s.upload(path)
		}
		var cmd tea.Cmd
		s.path, cmd = s.path.Update(msg)
		return s, cmd

	case modeConfirmDelete:
		switch key {
		case "y":
			s.mode = modeList
			return s, s.remove(s.target)
		case "n", "esc":
			s.mode = modeList
		}
		return s, nil
	}

	files := s.files()
	switch key {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, max(len(files)-1, 0))
	case "u":
		s.mode = modeUpload
		s.notice = ""
		return s, s.path.Focus()
	case "d", "delete":
		if s.cursor < len(files) {
			s.target = files[s.cursor]
			s.mode = modeConfirmDelete
		}
	case "r":
		return s, s.refresh()
	}
	return s, nil
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.alert != "":
		return []layout.KeyHint{{Key: "Enter", Description: "Dismiss"}}
	case s.mode == modeUpload:
		return []layout.KeyHint{{Key: "Enter", Description: "Upload"}, {Key: "Esc", Description: "Cancel"}}
	case s.mode == modeConfirmDelete:
		return []layout.KeyHint{{Key: "y", Description: "Delete"}, {Key: "n", Description: "Keep"}}
	}
	return []layout.KeyHint{
		{Key: "u", Description: "Upload"},
		{Key: "d", Description: "Delete"},
		{Key: "r", Description: "Refresh"},
		{Key: "1-5", Description: "Jump"},
	}
}

func statusBadge(st model.FileStatus) string {
	switch st {
	case model.FileStatusReady:
		return components.Badge("ready", theme.Success)
	case model.FileStatusFailed:
		return components.Badge("failed", theme.Error)
	case model.FileStatusIndexing, model.FileStatusProcessing:
		return components.Badge(string(st), theme.Accent)
	}
	return components.Badge(string(st), theme.Warning)
}

func (s *Screen) renderFiles(width int) string {
	files := s.files()
	if len(files) == 0 {
		return theme.Hint.Render("Your library is empty. Press u to upload a PDF.")
	}
	var rows []string
	for i, f := range files {
		name := f.Name
		if i == s.cursor {
			name = theme.Selected.Render("▸ " + name)
		} else {
			name = theme.Unselected.Render("  " + name)
		}
		meta := []string{f.Size}
		if f.PageCount > 0 {
			meta = append(meta, fmt.Sprintf("%d pages", f.PageCount))
		}
		if !f.UploadedAt.IsZero() {
			meta = append(meta, humanize.Time(f.UploadedAt))
		}
		rows = append(rows, name+"  "+statusBadge(f.Status)+"  "+theme.Hint.Render(strings.Join(meta, " · ")))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(rows, "\n"))
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	files := s.files()
	subtitle := fmt.Sprintf("%d documents · %d ready · %.1f MB used",
		len(files), len(doclib.ReadyFiles(files)), doclib.StorageUsedMB(files))

	sections := []string{components.Card("Documents", s.renderFiles(cw-4), cw)}
	switch s.mode {
	case modeUpload:
		sections = append(sections, components.Card("Upload", s.path.View(), cw))
	case modeConfirmDelete:
		sections = append(sections, components.ConfirmBox(
			fmt.Sprintf("Delete %s? Exams already generated from it are kept.", s.target.Name), cw))
	}
	if s.uploading > 0 {
		sections = append(sections, theme.Hint.Render("Uploading..."))
	}
	if s.alert != "" {
		sections = append(sections, components.AlertBox(s.alert, cw))
	} else if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	return components.Page("Library", subtitle, width, sections...)
}
