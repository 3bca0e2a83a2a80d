package recovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/apitest"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/screen/screentest"
)

func TestRecoveryFlow(t *testing.T) {
	h := screentest.New(t)
	h.Auth.AddUser("ada@example.com", "old password", "Ada Lovelace")

	s := New(h.Env)
	screentest.Type(s, "ada@example.com")
	_, cmd := screentest.Press(s, "enter")
	screentest.Feed[sentMsg](t, s, cmd)
	require.Equal(t, stepCode, s.step)
	assert.Equal(t, 1, h.Auth.Calls("/recover"))

	screentest.Type(s, apitest.RecoveryCode)
	_, cmd = screentest.Press(s, "enter")
	_, cmd = screentest.Feed[verifiedMsg](t, s, cmd)

	assert.Equal(t, model.PageResetPassword, screentest.AwaitPage(t, cmd))
	u := h.Env.State.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestWrongCode(t *testing.T) {
	h := screentest.New(t)
	h.Auth.AddUser("ada@example.com", "old password", "Ada Lovelace")

	s := New(h.Env)
	screentest.Type(s, "ada@example.com")
	_, cmd := screentest.Press(s, "enter")
	screentest.Feed[sentMsg](t, s, cmd)

	screentest.Type(s, "000000")
	_, cmd = screentest.Press(s, "enter")
	screentest.Feed[verifiedMsg](t, s, cmd)

	assert.Equal(t, "Token has expired or is invalid", s.err)
	assert.Nil(t, h.Env.State.CurrentUser())
}

func TestCodeMustHaveSixDigits(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)
	s.step = stepCode
	s.email.SetValue("ada@example.com")
	s.code.Focus()

	screentest.Type(s, "12a3")
	assert.Equal(t, "123", s.code.Value())
	_, cmd := screentest.Press(s, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, "The code has 6 digits.", s.err)
}

func TestEscape(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)
	s.step = stepCode
	screentest.Press(s, "esc")
	assert.Equal(t, stepEmail, s.step)

	_, cmd := screentest.Press(s, "esc")
	assert.Equal(t, model.PageAuth, screentest.AwaitPage(t, cmd))
}
