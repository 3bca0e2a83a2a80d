// Package signin is the combined sign-in / sign-up screen.
package signin

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/auth"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/components"
	"github.com/scholarai/scholar/internal/ui/layout"
	"github.com/scholarai/scholar/internal/ui/theme"
)

// Mode selects between signing in and creating an account.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

type resultMsg struct {
	mode Mode
	err  error
}

// Screen collects credentials and talks to the auth gateway.
type Screen struct {
	env    screen.Env
	mode   Mode
	form   components.Form
	busy   bool
	err    string
	notice string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)

// New creates the screen in sign-in mode.
func New(env screen.Env) *Screen {
	s := &Screen{env: env}
	s.setMode(ModeSignIn)
	return s
}

func (s *Screen) setMode(m Mode) {
	s.mode = m
	s.err = ""
	var fields []components.TextInput
	if m == ModeSignUp {
		fields = append(fields, components.NewTextInput(components.InputOptions{
			Label: "Full name", Placeholder: "Ada Lovelace", CharLimit: 80, Width: 40,
		}))
	}
	fields = append(fields,
		components.NewTextInput(components.InputOptions{
			Label: "Email", Placeholder: "you@example.com", CharLimit: 120, Width: 40,
		}),
		components.NewTextInput(components.InputOptions{
			Label: "Password", Password: true, CharLimit: 72, Width: 40,
		}),
	)
	s.form = components.NewForm(fields...)
}

func (s *Screen) Title() string {
	if s.mode == ModeSignUp {
		return "Create Account"
	}
	return "Sign In"
}

func (s *Screen) Init() tea.Cmd { return s.form.Init() }

func (s *Screen) CapturesInput() bool { return true }

func (s *Screen) credentials() (auth.Credentials, string) {
	n := len(s.form.Fields)
	creds := auth.Credentials{
		Email:    s.form.TrimmedValue(n - 2),
		Password: s.form.Value(n - 1),
	}
	name := ""
	if s.mode == ModeSignUp {
		name = s.form.TrimmedValue(0)
	}
	return creds, name
}

func (s *Screen) submit() tea.Cmd {
	creds, name := s.credentials()
	switch {
	case creds.Email == "" || creds.Password == "":
		s.err = "Email and password are required."
		return nil
	case s.mode == ModeSignUp && name == "":
		s.err = "Please enter your full name."
		return nil
	}

	s.busy = true
	s.err = ""
	s.notice = ""
	env, mode := s.env, s.mode
	return func() tea.Msg {
		var err error
		if mode == ModeSignUp {
			_, err = env.Auth.SignUp(env.Ctx, creds, name)
		} else {
			_, err = env.Auth.SignIn(env.Ctx, creds)
		}
		return resultMsg{mode: mode, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		s.busy = false
		switch {
		case errors.Is(msg.err, auth.ErrConfirmationRequired):
			s.notice = "Account created. Check your email to confirm it, then sign in."
			s.setMode(ModeSignIn)
			return s, s.form.Init()
		case msg.err != nil:
			s.env.Log.Infow("authentication failed", "mode", msg.mode, "error", msg.err)
			s.err = auth.UserMessage(msg.err)
			return s, nil
		}
		return s, router.Navigate(model.PageBootstrap)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+t":
			if s.mode == ModeSignIn {
				s.setMode(ModeSignUp)
			} else {
				s.setMode(ModeSignIn)
			}
			s.notice = ""
			return s, s.form.Init()
		case "ctrl+f":
			return s, router.Navigate(model.PageForgotPassword)
		case "esc":
			return s, router.Navigate(model.PageLanding)
		case "enter":
			if !s.form.IsLast() {
				return s, s.form.FocusField(s.form.Focused() + 1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *Screen) KeyHints() []layout.KeyHint {
	toggle := "Create account"
	if s.mode == ModeSignUp {
		toggle = "Have an account"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+T", Description: toggle},
		{Key: "Ctrl+F", Description: "Forgot password"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) View(width, height int) string {
	subtitle := "Welcome back. Sign in to continue."
	if s.mode == ModeSignUp {
		subtitle = "Create an account to start generating exams."
	}

	body := []string{s.form.View()}
	switch {
	case s.busy:
		body = append(body, "", theme.Hint.Render("Contacting the sign-in service..."))
	case s.err != "":
		body = append(body, "", theme.ErrorText.Render(s.err))
	}
	if s.notice != "" {
		body = append(body, "", lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}

	return components.Page(s.Title(), subtitle, width,
		components.Card("", strings.Join(body, "\n"), min(components.ContentWidth(width), 60)))
}
