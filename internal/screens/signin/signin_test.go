package signin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/screen/screentest"
)

func fill(s *Screen, values ...string) *Screen {
	for i, v := range values {
		screentest.Type(s, v)
		if i < len(values)-1 {
			screentest.Press(s, "tab")
		}
	}
	return s
}

func TestSignInNavigatesToBootstrap(t *testing.T) {
	h := screentest.New(t)
	h.Auth.AddUser("ada@example.com", screentest.Password, "Ada Lovelace")

	s := fill(New(h.Env), "ada@example.com", screentest.Password)
	_, cmd := screentest.Press(s, "enter")
	require.True(t, s.busy)

	_, cmd = screentest.Feed[resultMsg](t, s, cmd)
	assert.Equal(t, model.PageBootstrap, screentest.AwaitPage(t, cmd))
	assert.Empty(t, s.err)

	sess, err := h.Gateway.Session(h.Env.Ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
}

func TestWrongPasswordShowsGatewayMessage(t *testing.T) {
	h := screentest.New(t)
	h.Auth.AddUser("ada@example.com", screentest.Password, "Ada Lovelace")

	s := fill(New(h.Env), "ada@example.com", "wrong")
	_, cmd := screentest.Press(s, "enter")
	screentest.Feed[resultMsg](t, s, cmd)

	assert.False(t, s.busy)
	assert.NotEmpty(t, s.err)
	assert.Contains(t, screentest.View(s, 100, 30), s.err)
}

func TestEnterMovesToNextFieldFirst(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)
	screentest.Type(s, "ada@example.com")
	screentest.Press(s, "enter")
	assert.Equal(t, 1, s.form.Focused())
	assert.Equal(t, 0, h.Auth.Calls("/token"))
}

func TestMissingFields(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)
	screentest.Press(s, "tab")
	_, cmd := screentest.Press(s, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "Email and password are required.", s.err)
}

func TestSignUp(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)
	screentest.Press(s, "ctrl+t")
	require.Equal(t, ModeSignUp, s.mode)
	require.Len(t, s.form.Fields, 3)

	fill(s, "Grace Hopper", "grace@example.com", screentest.Password)
	_, cmd := screentest.Press(s, "enter")
	_, cmd = screentest.Feed[resultMsg](t, s, cmd)
	assert.Equal(t, model.PageBootstrap, screentest.AwaitPage(t, cmd))

	sess, err := h.Gateway.Session(h.Env.Ctx)
	require.NoError(t, err)
	u, err := sess.ToUser()
	require.NoError(t, err)
	assert.Equal(t, "GH", u.Avatar)
}

func TestSignUpNeedingConfirmation(t *testing.T) {
	h := screentest.New(t)
	h.Auth.AutoConfirm = false
	s := New(h.Env)
	screentest.Press(s, "ctrl+t")
	fill(s, "Grace Hopper", "grace@example.com", screentest.Password)

	_, cmd := screentest.Press(s, "enter")
	screentest.Feed[resultMsg](t, s, cmd)
	assert.Equal(t, ModeSignIn, s.mode)
	assert.Contains(t, s.notice, "Check your email")
}

func TestShortcuts(t *testing.T) {
	h := screentest.New(t)
	_, cmd := screentest.Press(New(h.Env), "ctrl+f")
	assert.Equal(t, model.PageForgotPassword, screentest.AwaitPage(t, cmd))

	_, cmd = screentest.Press(New(h.Env), "esc")
	assert.Equal(t, model.PageLanding, screentest.AwaitPage(t, cmd))
}
