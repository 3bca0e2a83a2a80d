package library_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/apitest"
	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/library"
	"github.com/scholarai/scholar/internal/model"
)

type staticToken string

func (s staticToken) AccessToken(context.Context) (string, error) { return string(s), nil }

func setup(t *testing.T) (*apitest.API, *api.Client, *appstate.Container) {
	t.Helper()
	fake := apitest.NewAPI(t)
	client := api.New(api.Options{BaseURL: fake.URL(), Prefix: "/api", Tokens: staticToken("tok")})
	c, err := appstate.New(appstate.Deps{OnLogin: func(context.Context, *appstate.Container) {}})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return fake, client, c
}

func TestPageCount(t *testing.T) {
	n, err := library.PageCount(apitest.PDF(3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = library.PageCount([]byte("definitely not a pdf"))
	assert.ErrorIs(t, err, library.ErrNotPDF)
}

func TestUploadReplacesPendingEntry(t *testing.T) {
	fake, client, c := setup(t)
	c.SetLibraryFiles([]model.LibraryFile{{ID: "d0", Name: "old.pdf", Status: model.FileStatusReady}})

	got, err := library.Upload(context.Background(), client, c, "notes.pdf", apitest.PDF(2))
	require.NoError(t, err)

	assert.Equal(t, "notes.pdf", got.Name)
	assert.Equal(t, model.FileStatusIndexing, got.Status)
	assert.Equal(t, 2, got.PageCount)

	files := c.LibraryFiles()
	require.Len(t, files, 2)
	assert.Equal(t, got.ID, files[0].ID)
	assert.Equal(t, "d0", files[1].ID)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "notes.pdf", reqs[0].FileName)
	assert.Equal(t, apitest.PDF(2), reqs[0].FileContent)

	acts := c.Activities()
	require.Len(t, acts, 1)
	assert.Equal(t, model.ActivityFileUploaded, acts[0].Type)
}

func TestUploadFailureRemovesPendingEntry(t *testing.T) {
	fake, client, c := setup(t)
	fake.Fail(http.MethodPost, "/api/documents", http.StatusInternalServerError, `{"detail":"storage full"}`)

	_, err := library.Upload(context.Background(), client, c, "notes.pdf", apitest.PDF(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage full")
	assert.Empty(t, c.LibraryFiles())
	assert.Empty(t, c.Activities())
}

func TestUploadRejectsBadInput(t *testing.T) {
	fake, client, c := setup(t)
	ctx := context.Background()

	_, err := library.Upload(ctx, client, c, "notes.pdf", nil)
	assert.ErrorIs(t, err, library.ErrEmpty)
	_, err = library.Upload(ctx, client, c, "notes.txt", apitest.PDF(1))
	assert.ErrorIs(t, err, library.ErrNotPDF)
	_, err = library.Upload(ctx, client, c, "fake.pdf", []byte("hello"))
	assert.ErrorIs(t, err, library.ErrNotPDF)
	_, err = library.Upload(ctx, client, c, "big.pdf", make([]byte, library.MaxUploadBytes+1))
	assert.ErrorIs(t, err, library.ErrTooLarge)

	assert.Zero(t, fake.RequestCount())
}

// gate blocks uploads until released.
type gate struct {
	started chan struct{}
	release chan struct{}
}

func (g gate) UploadDocument(ctx context.Context, name string, _ io.Reader) (model.LibraryFile, error) {
	close(g.started)
	<-g.release
	return model.LibraryFile{ID: "srv-1", Name: name, Status: model.FileStatusIndexing}, nil
}

func (g gate) DeleteDocument(context.Context, string) error { return nil }

func TestUploadShowsIndexingEntryWhileRunning(t *testing.T) {
	_, _, c := setup(t)
	g := gate{started: make(chan struct{}), release: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		_, err := library.Upload(context.Background(), g, c, "notes.pdf", apitest.PDF(1))
		done <- err
	}()

	<-g.started
	files := c.LibraryFiles()
	require.Len(t, files, 1)
	assert.Equal(t, model.FileStatusIndexing, files[0].Status)
	assert.NotEqual(t, "srv-1", files[0].ID)

	close(g.release)
	require.NoError(t, <-done)
	files = c.LibraryFiles()
	require.Len(t, files, 1)
	assert.Equal(t, "srv-1", files[0].ID)
}

type refreshing struct {
	c *appstate.Container
}

func (r refreshing) UploadDocument(_ context.Context, name string, _ io.Reader) (model.LibraryFile, error) {
	r.c.SetLibraryFiles([]model.LibraryFile{
		{ID: "srv-1", Name: name, Status: model.FileStatusIndexing},
		{ID: "d0", Name: "old.pdf", Status: model.FileStatusReady},
	})
	return model.LibraryFile{ID: "srv-1", Name: name, Status: model.FileStatusIndexing}, nil
}

func (refreshing) DeleteDocument(context.Context, string) error { return nil }

func TestUploadOverlappingRefreshKeepsOneEntry(t *testing.T) {
	_, _, c := setup(t)

	got, err := library.Upload(context.Background(), refreshing{c: c}, c, "notes.pdf", apitest.PDF(1))
	require.NoError(t, err)
	assert.Equal(t, "srv-1", got.ID)

	files := c.LibraryFiles()
	require.Len(t, files, 2)
	assert.Equal(t, "srv-1", files[0].ID)
	assert.Equal(t, 1, files[0].PageCount)
	assert.Equal(t, "d0", files[1].ID)
}

func TestUploadFile(t *testing.T) {
	_, client, c := setup(t)
	path := filepath.Join(t.TempDir(), "chapter.pdf")
	require.NoError(t, os.WriteFile(path, apitest.PDF(4), 0o600))

	got, err := library.UploadFile(context.Background(), client, c, path)
	require.NoError(t, err)
	assert.Equal(t, "chapter.pdf", got.Name)
	assert.Equal(t, 4, got.PageCount)

	_, err = library.UploadFile(context.Background(), client, c, filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeleteIsRemoteFirst(t *testing.T) {
	fake, client, c := setup(t)
	fake.AddDocument(map[string]any{"id": "d1", "file_name": "a.pdf", "status": "completed"})
	c.SetLibraryFiles([]model.LibraryFile{{ID: "d1"}, {ID: "d2"}})

	require.NoError(t, library.Delete(context.Background(), client, c, "d1"))
	assert.Empty(t, fake.Documents())
	require.Len(t, c.LibraryFiles(), 1)

	err := library.Delete(context.Background(), client, c, "d2")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.Len(t, c.LibraryFiles(), 1)
}

type failing struct{ bad string }

func (f failing) UploadDocument(context.Context, string, io.Reader) (model.LibraryFile, error) {
	return model.LibraryFile{}, errors.New("unused")
}

func (f failing) DeleteDocument(_ context.Context, id string) error {
	if id == f.bad {
		return errors.New("locked")
	}
	return nil
}

func TestPurge(t *testing.T) {
	_, _, c := setup(t)
	c.SetLibraryFiles([]model.LibraryFile{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}})

	n, err := library.Purge(context.Background(), failing{bad: "d2"}, c)
	assert.Equal(t, 2, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")

	files := c.LibraryFiles()
	require.Len(t, files, 1)
	assert.Equal(t, "d2", files[0].ID)
}

func TestStorageAccounting(t *testing.T) {
	files := []model.LibraryFile{
		{Size: "2.5 MB", Status: model.FileStatusReady},
		{Size: "1.0 MB", Status: model.FileStatusIndexing},
		{Size: "bogus"},
	}
	assert.InDelta(t, 3.5, library.StorageUsedMB(files), 0.001)
	assert.Len(t, library.ReadyFiles(files), 1)
}
