// Package screentest wires screens to in-process fakes of the auth gateway
// and the assessment API.
package screentest

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/apitest"
	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/auth"
	"github.com/scholarai/scholar/internal/generation"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/store"
)

// Password is the password of the account created by SignIn.
const Password = "correct horse"

// Harness is a screen.Env backed by fakes.
type Harness struct {
	Env     screen.Env
	API     *apitest.API
	Auth    *apitest.Auth
	Gateway *auth.Client
	Pages   *store.MemoryPages
}

// New builds a harness. The container does not fetch on login.
func New(t testing.TB) *Harness {
	t.Helper()
	fakeAuth := apitest.NewAuth(t)
	fakeAPI := apitest.NewAPI(t)

	gw := auth.New(auth.Options{BaseURL: fakeAuth.URL(), APIKey: fakeAuth.APIKey})
	client := api.New(api.Options{BaseURL: fakeAPI.URL(), Prefix: "/api", Tokens: gw})
	pages := &store.MemoryPages{}

	c, err := appstate.New(appstate.Deps{
		Pages:       pages,
		Tokens:      gw,
		Library:     client,
		Assessments: client,
		OnLogin:     func(context.Context, *appstate.Container) {},
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return &Harness{
		Env: screen.Env{
			Ctx:   context.Background(),
			State: c,
			Auth:  gw,
			API:   client,
			Poller: generation.NewPoller(generation.PollOptions{
				Fetcher:  client,
				Interval: 10 * time.Millisecond,
				Timeout:  2 * time.Second,
			}),
			Pages: pages,
			Log:   zap.NewNop().Sugar(),
		},
		API:     fakeAPI,
		Auth:    fakeAuth,
		Gateway: gw,
		Pages:   pages,
	}
}

// SignIn registers Ada Lovelace, signs her in and installs the user.
func (h *Harness) SignIn(t testing.TB) model.User {
	t.Helper()
	h.Auth.AddUser("ada@example.com", Password, "Ada Lovelace")
	sess, err := h.Gateway.SignIn(context.Background(), auth.Credentials{Email: "ada@example.com", Password: Password})
	require.NoError(t, err)
	u, err := sess.ToUser()
	require.NoError(t, err)
	h.Env.State.SetCurrentUser(&u)
	return u
}

// Key builds a key press from its string form, e.g. "enter", "ctrl+s", "x".
func Key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "shift+tab":
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	if len(k) > 5 && k[:5] == "ctrl+" {
		return tea.KeyPressMsg{Code: rune(k[5]), Mod: tea.ModCtrl}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

// Press sends each key to s in order and returns the last command.
func Press(s screen.Screen, keys ...string) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		s, cmd = s.Update(Key(k))
	}
	return s, cmd
}

// Type sends text to s one rune at a time.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

// Await runs cmd, including everything it batches, and returns the first
// message of type T. It fails the test after five seconds.
func Await[T any](t testing.TB, cmd tea.Cmd) T {
	t.Helper()
	var zero T
	if cmd == nil {
		t.Fatalf("no command to await %T from", zero)
		return zero
	}

	ch := make(chan tea.Msg, 64)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, c := range batch {
					run(c)
				}
				return
			}
			select {
			case ch <- msg:
			default:
			}
		}()
	}
	run(cmd)

	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg := <-ch:
			if v, ok := msg.(T); ok {
				return v
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

// AwaitPage returns the page cmd navigates to.
func AwaitPage(t testing.TB, cmd tea.Cmd) model.Page {
	t.Helper()
	return Await[router.NavigateMsg](t, cmd).Page
}

// Feed runs cmd until a message of type T arrives and delivers it to s.
func Feed[T any](t testing.TB, s screen.Screen, cmd tea.Cmd) (screen.Screen, tea.Cmd) {
	t.Helper()
	return s.Update(Await[T](t, cmd))
}

// View renders s and strips the styling.
func View(s screen.Screen, width, height int) string {
	return ansi.Strip(s.View(width, height))
}
