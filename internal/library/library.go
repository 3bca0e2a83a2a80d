// Package library manages the user's document library: uploads, deletions
// and storage accounting.
package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/model"
)

const (
	// MaxUploadBytes is the largest accepted upload.
	MaxUploadBytes = 50 << 20
	// QuotaMB is the storage shown as available on the profile page.
	QuotaMB = 500

	localPrefix = "local-"
)

var (
	ErrTooLarge = errors.New("file exceeds the 50 MB upload limit")
	ErrEmpty    = errors.New("file is empty")
)

// Service is the part of the assessment API the library uses.
type Service interface {
	UploadDocument(ctx context.Context, name string, content io.Reader) (model.LibraryFile, error)
	DeleteDocument(ctx context.Context, id string) error
}

// UploadFile reads path and uploads it.
func UploadFile(ctx context.Context, svc Service, c *appstate.Container, path string) (model.LibraryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.LibraryFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Upload(ctx, svc, c, filepath.Base(path), data)
}

// Upload sends a PDF to the library. An indexing entry is shown while the
// upload runs; it is replaced by the server's entry on success and removed
// on failure.
func Upload(ctx context.Context, svc Service, c *appstate.Container, name string, data []byte) (model.LibraryFile, error) {
	switch {
	case len(data) == 0:
		return model.LibraryFile{}, ErrEmpty
	case len(data) > MaxUploadBytes:
		return model.LibraryFile{}, ErrTooLarge
	case !strings.EqualFold(filepath.Ext(name), ".pdf"):
		return model.LibraryFile{}, fmt.Errorf("%s: %w", name, ErrNotPDF)
	}
	pages, err := PageCount(data)
	if err != nil {
		return model.LibraryFile{}, fmt.Errorf("%s: %w", name, err)
	}

	pending := model.LibraryFile{
		ID:         localPrefix + uuid.NewString(),
		Name:       name,
		Size:       model.FormatSize(int64(len(data))),
		UploadedAt: time.Now(),
		Status:     model.FileStatusIndexing,
		PageCount:  pages,
	}
	c.UpdateLibraryFiles(func(files []model.LibraryFile) []model.LibraryFile {
		return append([]model.LibraryFile{pending}, files...)
	})

	got, err := svc.UploadDocument(ctx, name, bytes.NewReader(data))
	if err != nil {
		c.UpdateLibraryFiles(func(files []model.LibraryFile) []model.LibraryFile {
			return without(files, pending.ID)
		})
		return model.LibraryFile{}, fmt.Errorf("upload %s: %w", name, err)
	}

	if got.Name == "" {
		got.Name = pending.Name
	}
	if got.Size == "" || model.SizeMB(got.Size) == 0 {
		got.Size = pending.Size
	}
	if got.PageCount == 0 {
		got.PageCount = pending.PageCount
	}
	if got.UploadedAt.IsZero() {
		got.UploadedAt = pending.UploadedAt
	}
	if got.ID == "" {
		got.ID = pending.ID
	}
	// A refresh that lands mid-upload may already list the server row.
	c.UpdateLibraryFiles(func(files []model.LibraryFile) []model.LibraryFile {
		out := make([]model.LibraryFile, 0, len(files)+1)
		placed := false
		for _, f := range files {
			if f.ID != pending.ID && f.ID != got.ID {
				out = append(out, f)
				continue
			}
			if !placed {
				out = append(out, got)
				placed = true
			}
		}
		if !placed {
			out = append([]model.LibraryFile{got}, out...)
		}
		return out
	})
	c.AddActivity(model.ActivityFileUploaded, "Uploaded "+got.Name)
	return got, nil
}

// Delete removes a document on the server and then locally. Entries of
// uploads still in flight only exist locally.
func Delete(ctx context.Context, svc Service, c *appstate.Container, id string) error {
	if !strings.HasPrefix(id, localPrefix) {
		if err := svc.DeleteDocument(ctx, id); err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
	}
	c.UpdateLibraryFiles(func(files []model.LibraryFile) []model.LibraryFile {
		return without(files, id)
	})
	return nil
}

// Purge deletes every document. Documents the server refused to delete stay
// in the library; their errors are joined.
func Purge(ctx context.Context, svc Service, c *appstate.Container) (int, error) {
	var errs []error
	deleted := 0
	for _, f := range c.LibraryFiles() {
		if err := Delete(ctx, svc, c, f.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}

// StorageUsedMB sums the sizes of files in megabytes.
func StorageUsedMB(files []model.LibraryFile) float64 {
	var total float64
	for _, f := range files {
		total += model.SizeMB(f.Size)
	}
	return total
}

// ReadyFiles returns the files that can be used for generation.
func ReadyFiles(files []model.LibraryFile) []model.LibraryFile {
	var out []model.LibraryFile
	for _, f := range files {
		if f.IsReady() {
			out = append(out, f)
		}
	}
	return out
}

func without(files []model.LibraryFile, id string) []model.LibraryFile {
	out := files[:0]
	for _, f := range files {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}
