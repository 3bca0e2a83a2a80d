package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/scholarai/scholar/internal/model"
)

const (
	keySavedPage   = "saved-page"
	keyAuthSession = "auth-session"
)

// PageStore persists the last visited page across restarts.
type PageStore interface {
	// SavePage records page as the last visited page.
	SavePage(ctx context.Context, page model.Page) error

	// LastPage returns the last saved page. ok is false when nothing was
	// saved or the stored value is not a known page.
	LastPage(ctx context.Context) (page model.Page, ok bool, err error)

	// ClearPage forgets the saved page.
	ClearPage(ctx context.Context) error
}

// SessionStore persists the auth gateway's opaque session blob.
type SessionStore interface {
	SaveSession(ctx context.Context, data []byte) error

	// LoadSession returns nil data when no session is stored.
	LoadSession(ctx context.Context) ([]byte, error)

	ClearSession(ctx context.Context) error
}

type kv struct {
	db *sql.DB
}

func (k kv) get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := k.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, true, nil
}

func (k kv) set(ctx context.Context, key, value string) error {
	_, err := k.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (k kv) delete(ctx context.Context, key string) error {
	if _, err := k.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

type pageRepo struct {
	kv kv
}

func (r *pageRepo) SavePage(ctx context.Context, page model.Page) error {
	return r.kv.set(ctx, keySavedPage, string(page))
}

func (r *pageRepo) LastPage(ctx context.Context) (model.Page, bool, error) {
	v, ok, err := r.kv.get(ctx, keySavedPage)
	if err != nil || !ok {
		return "", false, err
	}
	p, ok := model.ParsePage(v)
	return p, ok, nil
}

func (r *pageRepo) ClearPage(ctx context.Context) error {
	return r.kv.delete(ctx, keySavedPage)
}

type sessionRepo struct {
	kv kv
}

func (r *sessionRepo) SaveSession(ctx context.Context, data []byte) error {
	return r.kv.set(ctx, keyAuthSession, string(data))
}

func (r *sessionRepo) LoadSession(ctx context.Context) ([]byte, error) {
	v, ok, err := r.kv.get(ctx, keyAuthSession)
	if err != nil || !ok {
		return nil, err
	}
	return []byte(v), nil
}

func (r *sessionRepo) ClearSession(ctx context.Context) error {
	return r.kv.delete(ctx, keyAuthSession)
}
