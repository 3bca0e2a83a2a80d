// Package recovery is the forgot-password screen: it sends a one-time code
// to the account's email and exchanges the code for a session.
package recovery

import (
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

// CodeLength is the number of digits in a recovery code.
const CodeLength = 6

type step int

const (
	stepEmail step = iota
	stepCode
)

type sentMsg struct{ err error }

type verifiedMsg struct {
	session *auth.Session
	err     error
}

// Screen walks through the two recovery steps.
type Screen struct {
	env   screen.Env
	step  step
	email components.TextInput
	code  components.TextInput
	busy  bool
	err   string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the recovery screen on the email step.
func New(env screen.Env) *Screen {
	s := &Screen{
		env: env,
		email: components.NewTextInput(components.InputOptions{
			Label: "Email", Placeholder: "you@example.com", CharLimit: 120, Width: 40,
		}),
		code: components.NewTextInput(components.InputOptions{
			Label: "Recovery code", Placeholder: "123456", NumericOnly: true, CharLimit: CodeLength, Width: 12,
		}),
	}
	s.email.Focus()
	return s
}

func (s *Screen) Title() string { return "Forgot Password" }

func (s *Screen) Init() tea.Cmd { return s.email.Focus() }

func (s *Screen) CapturesInput() bool { return true }

func (s *Screen) sendCode() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	if email == "" {
		s.err = "Enter the email address of your account."
		return nil
	}
	s.busy = true
	s.err = ""
	env := s.env
	return func() tea.Msg {
		return sentMsg{err: env.Auth.ResetPasswordForEmail(env.Ctx, email)}
	}
}

func (s *Screen) verify() tea.Cmd {
	code := strings.TrimSpace(s.code.Value())
	if len(code) != CodeLength {
		s.err = "The code has 6 digits."
		return nil
	}
	s.busy = true
	s.err = ""
	env, email := s.env, strings.TrimSpace(s.email.Value())
	return func() tea.Msg {
		sess, err := env.Auth.VerifyOTP(env.Ctx, email, code)
		return verifiedMsg{session: sess, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sentMsg:
		s.busy = false
		if msg.err != nil {
			s.err = auth.UserMessage(msg.err)
			return s, nil
		}
		s.step = stepCode
		s.email.Blur()
		return s, s.code.Focus()

	case verifiedMsg:
		s.busy = false
		if msg.err == nil && msg.session == nil {
			s.err = "The code was accepted but no session was returned."
			return s, nil
		}
		if msg.err != nil {
			s.err = auth.UserMessage(msg.err)
			return s, nil
		}
		u, err := msg.session.ToUser()
		if err != nil {
			s.env.Log.Warnw("recovery session without user", "error", err)
			s.err = "Could not load your account. Please sign in instead."
			return s, nil
		}
		s.env.State.SetCurrentUser(&u)
		return s, router.Navigate(model.PageResetPassword)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "esc":
			if s.step == stepCode {
				s.step = stepEmail
				s.err = ""
				s.code.Blur()
				return s, s.email.Focus()
			}
			return s, router.Navigate(model.PageAuth)
		case "enter":
			if s.step == stepEmail {
				return s, s.sendCode()
			}
			return s, s.verify()
		}
	}

	var cmd tea.Cmd
	if s.step == stepEmail {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.code, cmd = s.code.Update(msg)
	}
	return s, cmd
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) View(width, height int) string {
	var body []string
	switch s.step {
	case stepEmail:
		body = append(body,
			theme.Body.Render("We will email you a six-digit recovery code."),
			"",
			s.email.View(),
		)
	case stepCode:
		body = append(body,
			theme.Body.Render("Enter the code sent to ")+
				lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.TrimSpace(s.email.Value())),
			"",
			s.code.View(),
		)
	}
	if s.busy {
		body = append(body, "", theme.Hint.Render("Please wait..."))
	} else if s.err != "" {
		body = append(body, "", theme.ErrorText.Render(s.err))
	}
	return components.Page(s.Title(), "", width,
		components.Card("", strings.Join(body, "\n"), min(components.ContentWidth(width), 60)))
}
