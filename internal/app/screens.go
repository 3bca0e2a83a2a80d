package app

import (
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/screens/assessments"
	"github.com/scholarai/scholar/internal/screens/dashboard"
	"github.com/scholarai/scholar/internal/screens/exammode"
	"github.com/scholarai/scholar/internal/screens/generating"
	"github.com/scholarai/scholar/internal/screens/landing"
	"github.com/scholarai/scholar/internal/screens/library"
	"github.com/scholarai/scholar/internal/screens/profile"
	"github.com/scholarai/scholar/internal/screens/recovery"
	"github.com/scholarai/scholar/internal/screens/report"
	"github.com/scholarai/scholar/internal/screens/resetpass"
	"github.com/scholarai/scholar/internal/screens/signin"
	"github.com/scholarai/scholar/internal/screens/splash"
	"github.com/scholarai/scholar/internal/screens/studio"
)

// public pages are reachable without a signed-in user.
var public = map[model.Page]bool{
	model.PageLanding:        true,
	model.PageAuth:           true,
	model.PageForgotPassword: true,
	model.PageBootstrap:      true,
}

// guard redirects pages that need a user to the landing page when nobody is
// signed in.
func (m *AppModel) guard(p model.Page) model.Page {
	if !p.Valid() {
		return model.PageLanding
	}
	if !public[p] && !m.signedIn() {
		return model.PageLanding
	}
	return p
}

func (m *AppModel) screenFor(p model.Page) screen.Screen {
	env := m.env
	switch p {
	case model.PageBootstrap:
		return splash.New(env)
	case model.PageAuth:
		return signin.New(env)
	case model.PageForgotPassword:
		return recovery.New(env)
	case model.PageResetPassword:
		return resetpass.New(env)
	case model.PageDashboard:
		return dashboard.New(env)
	case model.PageLibrary:
		return library.New(env)
	case model.PageExamStudio:
		return studio.New(env)
	case model.PageLoading:
		return generating.New(env)
	case model.PageAssessments:
		return assessments.New(env)
	case model.PageExamMode:
		return exammode.New(env)
	case model.PageGradingReport:
		return report.New(env)
	case model.PageProfile:
		return profile.New(env)
	}
	return landing.New()
}
