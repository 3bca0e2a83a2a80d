// Package apitest provides in-memory fakes of the assessment API and the
// auth gateway served over httptest.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Request is a recorded call to a fake server.
type Request struct {
	Method      string
	Path        string
	Auth        string
	ContentType string
	Body        []byte
	// FileName and FileContent are set for multipart uploads.
	FileName    string
	FileContent []byte
}

type failure struct {
	status int
	body   string
}

// API is a fake assessment API. Documents and assessments are raw JSON
// objects so tests can exercise every wire alias.
type API struct {
	Server *httptest.Server
	// Token, when set, is the only bearer token accepted.
	Token string

	mu          sync.Mutex
	documents   []map[string]any
	assessments []map[string]any
	requests    []Request
	failures    map[string]failure
	generated   []string
}

// NewAPI starts a fake API mounted under /api. It is closed when the test ends.
func NewAPI(t testing.TB) *API {
	t.Helper()
	a := &API{failures: make(map[string]failure)}

	r := chi.NewRouter()
	r.Use(a.record, a.authorize, a.injectFailures)
	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", a.listDocuments)
		r.Post("/documents", a.uploadDocument)
		r.Delete("/documents/{id}", a.deleteDocument)
		r.Get("/assessments", a.listAssessments)
		r.Post("/assessments", a.createAssessment)
		r.Get("/assessments/{id}", a.getAssessment)
	})

	a.Server = httptest.NewServer(r)
	t.Cleanup(a.Server.Close)
	return a
}

// URL returns the server's base URL.
func (a *API) URL() string { return a.Server.URL }

// AddDocument appends a document row as the list endpoint returns it.
func (a *API) AddDocument(doc map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.documents = append(a.documents, doc)
}

// PutAssessment inserts or replaces the assessment with doc["id"].
func (a *API) PutAssessment(doc map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, existing := range a.assessments {
		if existing["id"] == doc["id"] {
			a.assessments[i] = doc
			return
		}
	}
	a.assessments = append(a.assessments, doc)
}

// Fail makes every request matching method and path (e.g. "GET /api/documents")
// answer with status and body until cleared with status 0.
func (a *API) Fail(method, path string, status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(a.failures, key)
		return
	}
	a.failures[key] = failure{status: status, body: body}
}

// Requests returns a copy of all recorded requests.
func (a *API) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Request, len(a.requests))
	copy(out, a.requests)
	return out
}

// RequestCount returns the number of requests received.
func (a *API) RequestCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

// Generated returns the ids handed out by POST /assessments.
func (a *API) Generated() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.generated...)
}

// Documents returns the current document rows.
func (a *API) Documents() []map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]map[string]any(nil), a.documents...)
}

func (a *API) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			Auth:        r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
		}
		mediaType, params, _ := mime.ParseMediaType(rec.ContentType)
		if mediaType == "multipart/form-data" {
			mr := multipart.NewReader(r.Body, params["boundary"])
			for {
				part, err := mr.NextPart()
				if err != nil {
					break
				}
				if part.FormName() == "file" {
					rec.FileName = part.FileName()
					rec.FileContent, _ = io.ReadAll(part)
				}
			}
		} else if r.Body != nil {
			rec.Body, _ = io.ReadAll(r.Body)
		}

		a.mu.Lock()
		a.requests = append(a.requests, rec)
		a.mu.Unlock()

		ctx := r.Context()
		next.ServeHTTP(w, r.WithContext(withRequest(ctx, rec)))
	})
}

func (a *API) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || (a.Token != "" && auth != "Bearer "+a.Token) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid authentication credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		f, ok := a.failures[r.Method+" "+r.URL.Path]
		a.mu.Unlock()
		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) listDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Documents())
}

func (a *API) uploadDocument(w http.ResponseWriter, r *http.Request) {
	rec := requestFrom(r.Context())
	if rec.FileName == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "file"}, "msg": "Field required"}},
		})
		return
	}
	doc := map[string]any{
		"id":        uuid.NewString(),
		"name":      rec.FileName,
		"status":    "pending",
		"size":      len(rec.FileContent),
		"pageCount": 0,
	}
	a.AddDocument(map[string]any{
		"id":         doc["id"],
		"file_name":  rec.FileName,
		"file_size":  len(rec.FileContent),
		"page_count": 0,
		"status":     "pending",
	})
	writeJSON(w, http.StatusOK, map[string]any{"document": doc})
}

func (a *API) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, d := range a.documents {
		if d["id"] == id {
			a.documents = append(a.documents[:i], a.documents[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Document not found"})
}

func (a *API) listAssessments(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	out := append([]map[string]any(nil), a.assessments...)
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createAssessment(w http.ResponseWriter, r *http.Request) {
	rec := requestFrom(r.Context())
	var req struct {
		DocumentID string `json:"document_id"`
		Query      string `json:"query"`
	}
	if err := json.Unmarshal(rec.Body, &req); err != nil || req.DocumentID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "document_id is required"})
		return
	}
	id := uuid.NewString()
	a.PutAssessment(map[string]any{
		"id":     id,
		"title":  fmt.Sprintf("Assessment: %s", req.Query),
		"status": "pending",
	})
	a.mu.Lock()
	a.generated = append(a.generated, id)
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, id)
}

func (a *API) getAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, doc := range a.assessments {
		if doc["id"] == id {
			writeJSON(w, http.StatusOK, doc)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Assessment not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
