package bootstrap

import (
	"context"

	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/logging"
	"github.com/scholarai/scholar/internal/model"
)

// SessionEnder ends the gateway session.
type SessionEnder interface {
	SignOut(ctx context.Context) error
}

// PageClearer forgets the persisted page.
type PageClearer interface {
	ClearPage(ctx context.Context) error
}

// Logout signs out, clears the container and forgets the saved page, leaving
// the client on the landing page. Local state is cleared even when the sign
// out fails; that error is returned.
func Logout(ctx context.Context, sessions SessionEnder, c *appstate.Container, pages PageClearer, log *zap.SugaredLogger) error {
	log = logging.OrNop(log)

	err := sessions.SignOut(ctx)
	if err != nil {
		log.Warnw("sign out failed", "error", err)
	}
	c.Reset()
	navigate(ctx, c, log, model.PageLanding)
	if pages != nil {
		if cerr := pages.ClearPage(ctx); cerr != nil {
			log.Warnw("clear saved page failed", "error", cerr)
		}
	}
	return err
}
