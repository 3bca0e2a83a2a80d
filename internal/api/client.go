// Package api is the client of the assessment API: documents, assessment
// generation and retrieval.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/logging"
)

// TokenSource supplies a fresh access token for every request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Multipart is a request body sent as multipart/form-data with a single
// file part.
type Multipart struct {
	Field    string
	FileName string
	Content  io.Reader
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Prefix is prepended to every endpoint path, e.g. "/api".
	Prefix string
	// Timeout bounds each request. Zero means no client-side limit.
	Timeout time.Duration
	Tokens  TokenSource

	HTTPClient *http.Client
	Logger     *zap.SugaredLogger
	// Now overrides the clock used for missing timestamps.
	Now func() time.Time
}

// Client calls the assessment API with the signed-in user's token.
type Client struct {
	baseURL string
	prefix  string
	timeout time.Duration
	tokens  TokenSource
	http    *http.Client
	log     *zap.SugaredLogger
	now     func() time.Time
}

// New creates an API client.
func New(opts Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		prefix:  opts.Prefix,
		timeout: opts.Timeout,
		tokens:  opts.Tokens,
		http:    opts.HTTPClient,
		log:     logging.OrNop(opts.Logger),
		now:     opts.Now,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Do sends a request to prefix+path and returns the response body of a 2xx
// response. body may be nil, a *Multipart, or any JSON-encodable value.
func (c *Client) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c.tokens == nil {
		return nil, ErrNotAuthenticated
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil || token == "" {
		c.log.Debugw("request without session", "method", method, "path", path, "error", err)
		return nil, ErrNotAuthenticated
	}

	bodyReader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+c.prefix+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response of %s %s: %w", method, path, err)
	}
	c.log.Debugw("api request", "method", method, "path", path, "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, data)
	}
	return data, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		field := b.Field
		if field == "" {
			field = "file"
		}
		part, err := w.CreateFormFile(field, b.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, b.Content); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", b.FileName, err)
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("close multipart body: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("marshalling request: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// decodeError builds an *Error from the FastAPI-style {"detail": ...} body.
func decodeError(status int, data []byte) *Error {
	msg := fmt.Sprintf("request failed with status %d", status)
	if gjson.ValidBytes(data) {
		detail := gjson.GetBytes(data, "detail")
		switch {
		case detail.Type == gjson.String && detail.String() != "":
			msg = detail.String()
		case detail.IsObject() || detail.IsArray():
			var buf bytes.Buffer
			if err := json.Compact(&buf, []byte(detail.Raw)); err == nil {
				msg = buf.String()
			}
		}
	}
	return &Error{Status: status, Message: msg}
}
