package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/auth"
	"github.com/scholarai/scholar/internal/config"
	"github.com/scholarai/scholar/internal/generation"
	"github.com/scholarai/scholar/internal/logging"
	"github.com/scholarai/scholar/internal/store"
)

// errNotSignedIn is returned by commands that need a cached session.
var errNotSignedIn = errors.New("not signed in: run scholar and sign in first")

// services are the long-lived dependencies shared by the TUI and the
// non-interactive commands.
type services struct {
	cfg     config.Config
	store   *store.Store
	log     *zap.SugaredLogger
	gateway *auth.Client
	api     *api.Client
}

// openServices resolves the configuration and opens the store, the logger
// and both HTTP clients. Callers must Close the result.
func openServices(cmd *cobra.Command) (*services, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	log, err := logging.New(logging.Config{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		st.Close()
		return nil, err
	}
	log.Infow("starting", "version", version, "db", dbPath, "api", cfg.API.BaseURL)

	gw := auth.New(auth.Options{
		BaseURL: cfg.Auth.URL,
		APIKey:  cfg.Auth.Key,
		Cache:   st.Sessions(),
		Logger:  log,
	})
	client := api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Prefix:  cfg.API.Prefix,
		Timeout: cfg.API.RequestTimeout,
		Tokens:  gw,
		Logger:  log,
	})
	return &services{cfg: cfg, store: st, log: log, gateway: gw, api: client}, nil
}

// resolveDBPath returns the configured database path, or the default XDG
// path when none is set.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func (s *services) poller() *generation.Poller {
	return generation.NewPoller(generation.PollOptions{
		Fetcher:     s.api,
		Interval:    s.cfg.Poll.Interval,
		MaxInterval: s.cfg.Poll.MaxInterval,
		Multiplier:  s.cfg.Poll.Multiplier,
		Timeout:     s.cfg.Poll.Timeout,
		Logger:      s.log,
	})
}

// container builds the state container around pages. The login effect
// loads the user's documents and assessments unless onLogin overrides it.
func (s *services) container(pages store.PageStore, onLogin appstate.Effect) (*appstate.Container, error) {
	return appstate.New(appstate.Deps{
		Pages:       pages,
		Tokens:      s.gateway,
		Library:     s.api,
		Assessments: s.api,
		Logger:      s.log,
		OnLogin:     onLogin,
	})
}

// requireSession fails with errNotSignedIn when no session is cached.
func (s *services) requireSession(ctx context.Context) (*auth.Session, error) {
	sess, err := s.gateway.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, errNotSignedIn
	}
	return sess, nil
}

func (s *services) Close() error {
	_ = s.log.Sync()
	return s.store.Close()
}
