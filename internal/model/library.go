package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FileStatus is the processing state of an uploaded document.
type FileStatus string

const (
	FileStatusPending    FileStatus = "pending"
	FileStatusFailed     FileStatus = "failed"
	FileStatusReady      FileStatus = "ready"
	FileStatusIndexing   FileStatus = "indexing"
	FileStatusProcessing FileStatus = "processing"
)

// LibraryFile is a document in the user's library.
type LibraryFile struct {
	ID         string
	Name       string
	Size       string
	UploadedAt time.Time
	Status     FileStatus
	PageCount  int
}

// IsReady reports whether the file can be used as a generation source.
func (f LibraryFile) IsReady() bool {
	return f.Status == FileStatusReady
}

// FormatSize renders a byte count as the megabyte display string used by the
// library, e.g. "2.4 MB".
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}

// SizeMB parses a display size back into megabytes. Unparseable sizes count
// as zero.
func SizeMB(size string) float64 {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(size), "MB"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// CloneFiles returns a copy of files.
func CloneFiles(files []LibraryFile) []LibraryFile {
	if files == nil {
		return nil
	}
	out := make([]LibraryFile, len(files))
	copy(out, files)
	return out
}
