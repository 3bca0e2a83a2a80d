// Package bootstrap restores the session on startup and after password
// recovery, and decides which page to open.
package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/auth"
	"github.com/scholarai/scholar/internal/logging"
	"github.com/scholarai/scholar/internal/model"
)

// SessionSource is the part of the auth gateway the bootstrap needs.
type SessionSource interface {
	Session(ctx context.Context) (*auth.Session, error)
}

// PageReader reads the last persisted page.
type PageReader interface {
	LastPage(ctx context.Context) (model.Page, bool, error)
}

// Result is the outcome of a bootstrap run.
type Result struct {
	// Target is the page the client navigated to.
	Target model.Page
	// User is the installed user, nil when nobody is signed in.
	User *model.User
	// Err is the gateway or reconstruction error that sent the user to the
	// landing page, if any. It has already been logged.
	Err error
}

// Run queries the gateway for a session, installs the user and navigates to
// the restored page. Running it again with the same session yields the same
// target and does not re-trigger the login effect.
func Run(ctx context.Context, sessions SessionSource, c *appstate.Container, pages PageReader, log *zap.SugaredLogger) Result {
	log = logging.OrNop(log)

	s, err := sessions.Session(ctx)
	if err != nil {
		log.Warnw("session lookup failed", "error", err)
		return land(ctx, c, log, err)
	}
	if s == nil {
		return land(ctx, c, log, nil)
	}

	u, err := s.ToUser()
	if err != nil {
		log.Warnw("cannot rebuild user from session", "user", s.User.ID, "error", err)
		return land(ctx, c, log, err)
	}

	if cur := c.CurrentUser(); cur == nil || *cur != u {
		c.SetCurrentUser(&u)
	}

	target := model.PageDashboard
	if pages != nil {
		saved, ok, err := pages.LastPage(ctx)
		switch {
		case err != nil:
			log.Warnw("read saved page failed", "error", err)
		case ok && saved.Restorable():
			target = saved
		}
	}

	navigate(ctx, c, log, target)
	return Result{Target: target, User: &u}
}

func land(ctx context.Context, c *appstate.Container, log *zap.SugaredLogger, err error) Result {
	if c.CurrentUser() != nil {
		c.SetCurrentUser(nil)
	}
	navigate(ctx, c, log, model.PageLanding)
	return Result{Target: model.PageLanding, Err: err}
}

func navigate(ctx context.Context, c *appstate.Container, log *zap.SugaredLogger, page model.Page) {
	if err := c.SetCurrentPage(ctx, page); err != nil {
		log.Warnw("persist bootstrap target failed", "page", page, "error", err)
	}
}
