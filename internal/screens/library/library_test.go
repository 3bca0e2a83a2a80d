package library

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/apitest"
	"github.com/scholarai/scholar/internal/screen/screentest"
)

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, apitest.PDF(3), 0o600))
	return path
}

func TestUpload(t *testing.T) {
	h := screentest.New(t)
	h.SignIn(t)
	s := New(h.Env)

	screentest.Press(s, "u")
	require.True(t, s.CapturesInput())
	screentest.Type(s, writePDF(t, "cells.pdf"))
	_, cmd := screentest.Press(s, "enter")
	require.False(t, s.CapturesInput())

	screentest.Feed[uploadedMsg](t, s, cmd)
	assert.Empty(t, s.alert)
	assert.Equal(t, "Uploaded cells.pdf.", s.notice)

	files := h.Env.State.LibraryFiles()
	require.Len(t, files, 1)
	assert.Equal(t, "cells.pdf", files[0].Name)
	assert.Equal(t, 3, files[0].PageCount)
	assert.Len(t, h.API.Documents(), 1)
}

func TestUploadFailureShowsAlert(t *testing.T) {
	h := screentest.New(t)
	h.SignIn(t)
	h.API.Fail(http.MethodPost, "/api/documents", http.StatusInternalServerError, `{"detail":"storage full"}`)
	s := New(h.Env)

	screentest.Press(s, "u")
	screentest.Type(s, writePDF(t, "cells.pdf"))
	_, cmd := screentest.Press(s, "enter")
	screentest.Feed[uploadedMsg](t, s, cmd)

	assert.Equal(t, "Upload failed: storage full", s.alert)
	assert.Empty(t, h.Env.State.LibraryFiles())

	screentest.Press(s, "enter")
	assert.Empty(t, s.alert)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	h := screentest.New(t)
	h.SignIn(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	s := New(h.Env)

	screentest.Press(s, "u")
	screentest.Type(s, path)
	_, cmd := screentest.Press(s, "enter")
	screentest.Feed[uploadedMsg](t, s, cmd)

	assert.Contains(t, s.alert, "Upload failed")
	assert.Zero(t, h.API.RequestCount())
}

func TestDeleteAfterConfirmation(t *testing.T) {
	h := screentest.New(t)
	h.SignIn(t)
	h.API.AddDocument(map[string]any{"id": "doc-1", "file_name": "bio.pdf", "file_size": 1024, "status": "completed"})
	h.API.AddDocument(map[string]any{"id": "doc-2", "file_name": "chem.pdf", "file_size": 2048, "status": "completed"})
	s := New(h.Env)

	_, cmd := screentest.Press(s, "r")
	screentest.Feed[refreshedMsg](t, s, cmd)
	require.Len(t, h.Env.State.LibraryFiles(), 2)

	screentest.Press(s, "down", "d")
	require.Equal(t, modeConfirmDelete, s.mode)
	assert.Contains(t, screentest.View(s, 120, 40), "Delete chem.pdf?")

	screentest.Press(s, "n")
	assert.Equal(t, modeList, s.mode)
	assert.Len(t, h.Env.State.LibraryFiles(), 2)

	_, cmd = screentest.Press(s, "d", "y")
	screentest.Feed[deletedMsg](t, s, cmd)

	files := h.Env.State.LibraryFiles()
	require.Len(t, files, 1)
	assert.Equal(t, "doc-1", files[0].ID)
	assert.Len(t, h.API.Documents(), 1)
	assert.Equal(t, 0, s.cursor)
}

func TestEmptyLibrary(t *testing.T) {
	h := screentest.New(t)
	s := New(h.Env)
	screentest.Press(s, "d")
	assert.Equal(t, modeList, s.mode)
	assert.Contains(t, screentest.View(s, 100, 30), "Your library is empty")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes.pdf"), expandHome("~/notes.pdf"))
	assert.Equal(t, "/tmp/notes.pdf", expandHome("/tmp/notes.pdf"))
}
