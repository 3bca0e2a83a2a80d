package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/scholarai/scholar/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", filepath.Base(t.Name()))
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestFileBackedStore.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileBackedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scholar.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestLastPageTracksMostRecentSave(t *testing.T) {
	s := openTestStore(t)
	pages := s.Pages()
	ctx := context.Background()

	if _, ok, err := pages.LastPage(ctx); err != nil || ok {
		t.Fatalf("expected no saved page, got ok=%v err=%v", ok, err)
	}

	for _, p := range []model.Page{model.PageLibrary, model.PageExamStudio, model.PageProfile} {
		if err := pages.SavePage(ctx, p); err != nil {
			t.Fatalf("SavePage(%s): %v", p, err)
		}
	}

	got, ok, err := pages.LastPage(ctx)
	if err != nil || !ok {
		t.Fatalf("LastPage: ok=%v err=%v", ok, err)
	}
	if got != model.PageProfile {
		t.Errorf("LastPage = %q, want %q", got, model.PageProfile)
	}

	if err := pages.ClearPage(ctx); err != nil {
		t.Fatalf("ClearPage: %v", err)
	}
	if _, ok, _ := pages.LastPage(ctx); ok {
		t.Error("expected page to be cleared")
	}
}

func TestLastPageIgnoresUnknownValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.DB().Exec(`INSERT INTO kv (key, value) VALUES ('saved-page', 'settings')`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok, err := s.Pages().LastPage(ctx); err != nil || ok {
		t.Errorf("expected unknown page to be ignored, got ok=%v err=%v", ok, err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	sessions := s.Sessions()
	ctx := context.Background()

	data, err := sessions.LoadSession(ctx)
	if err != nil || data != nil {
		t.Fatalf("expected empty session, got %q err=%v", data, err)
	}

	if err := sessions.SaveSession(ctx, []byte(`{"access_token":"a"}`)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := sessions.SaveSession(ctx, []byte(`{"access_token":"b"}`)); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	data, err = sessions.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if string(data) != `{"access_token":"b"}` {
		t.Errorf("LoadSession = %s", data)
	}

	if err := sessions.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if data, _ := sessions.LoadSession(ctx); data != nil {
		t.Errorf("expected cleared session, got %s", data)
	}
}
