package splash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/screen/screentest"
)

func TestSignedOutGoesToLanding(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)

	_, cmd := screentest.Feed[doneMsg](t, s, s.Init())
	assert.Equal(t, model.PageLanding, screentest.AwaitPage(t, cmd))
	assert.Nil(t, h.Env.State.CurrentUser())
}

func TestRestoresSavedPage(t *testing.T) {
	h := screentest.New(t)
	h.SignIn(t)
	h.Env.State.SetCurrentUser(nil)
	_ = h.Pages.SavePage(h.Env.Ctx, model.PageLibrary)

	s := New(h.Env)
	_, cmd := screentest.Feed[doneMsg](t, s, s.Init())

	assert.Equal(t, model.PageLibrary, screentest.AwaitPage(t, cmd))
	if u := h.Env.State.CurrentUser(); assert.NotNil(t, u) {
		assert.Equal(t, "AL", u.Avatar)
	}
}

func TestViewShowsSpinner(t *testing.T) {
	h := screentest.New(t)
	assert.Contains(t, screentest.View(New(h.Env), 80, 24), "Restoring your session")
}
