package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/scholarai/scholar/internal/model"
)

// ListDocuments returns the user's library.
func (c *Client) ListDocuments(ctx context.Context) ([]model.LibraryFile, error) {
	const endpoint = "GET /documents"
	data, err := c.Do(ctx, http.MethodGet, "/documents", nil)
	if err != nil {
		return nil, err
	}
	if err := validate(endpoint, "documentList", data); err != nil {
		return nil, err
	}

	rows := items(gjson.ParseBytes(data), "documents")
	files := make([]model.LibraryFile, 0, len(rows))
	for _, r := range rows {
		files = append(files, c.decodeDocument(r))
	}
	return files, nil
}

// UploadDocument sends a file to the library. Fields the server leaves out
// of its answer are zero in the returned file.
func (c *Client) UploadDocument(ctx context.Context, name string, content io.Reader) (model.LibraryFile, error) {
	const endpoint = "POST /documents"
	data, err := c.Do(ctx, http.MethodPost, "/documents", &Multipart{
		Field:    "file",
		FileName: name,
		Content:  content,
	})
	if err != nil {
		return model.LibraryFile{}, err
	}
	if err := validate(endpoint, "upload", data); err != nil {
		return model.LibraryFile{}, err
	}

	res := gjson.ParseBytes(data)
	if doc := res.Get("document"); doc.IsObject() {
		return c.decodeDocument(doc), nil
	}
	return model.LibraryFile{
		ID:         res.Get("doc_id").String(),
		Name:       name,
		Status:     model.FileStatusIndexing,
		UploadedAt: c.now(),
	}, nil
}

// DeleteDocument removes a document from the library.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete document: empty id")
	}
	_, err := c.Do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil)
	return err
}
