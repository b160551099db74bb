package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const newWorldDoc = "# __Whitebeard War Saga__\n\n## Marineford\n\n### __Marineford__\n\nAce is rescued.\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "NewWorld.md"), []byte(newWorldDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not markdown"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return NewServer(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := get(t, newTestServer(t), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestServer_ListDocs(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/docs")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Documents []docInfo `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Documents) != 1 || body.Documents[0].Name != "NewWorld.md" {
		t.Errorf("expected only NewWorld.md, got %+v", body.Documents)
	}
}

func TestServer_DocTree(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/docs/NewWorld.md/tree")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		MainSagas []struct {
			Title    string `json:"title"`
			Category string `json:"category"`
			Sagas    []struct {
				Title string `json:"title"`
				Arcs  []struct {
					Title   string `json:"title"`
					Summary string `json:"summary"`
				} `json:"arcs"`
			} `json:"sagas"`
		} `json:"main_sagas"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.MainSagas) != 1 {
		t.Fatalf("expected 1 main saga, got %d", len(body.MainSagas))
	}
	m := body.MainSagas[0]
	if m.Title != "Whitebeard War Saga" || m.Category != "new_world" {
		t.Errorf("unexpected main saga %+v", m)
	}
	if len(m.Sagas) != 1 || len(m.Sagas[0].Arcs) != 1 || m.Sagas[0].Arcs[0].Summary != "Ace is rescued." {
		t.Errorf("unexpected sagas %+v", m.Sagas)
	}
}

func TestServer_DocHTML(t *testing.T) {
	rec := get(t, newTestServer(t), "/docs/NewWorld.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	html := rec.Body.String()
	for _, want := range []string{"<title>NewWorld</title>", "<h2>Marineford</h2>", "<strong>Whitebeard War Saga</strong>", "<p>Ace is rescued.</p>"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in html:\n%s", want, html)
		}
	}
}

func TestServer_RejectsUnknownDocs(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/docs/Missing.md",
		"/docs/notes.txt",
		"/docs/..md",
		"/api/docs/..%2Fsecret.md/tree",
	} {
		rec := get(t, s, path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestRequestLogger_RecordsStatusAndSize(t *testing.T) {
	var logs bytes.Buffer
	s := NewServer(t.TempDir(), slog.New(slog.NewJSONHandler(&logs, nil)))

	rec := get(t, s, "/docs/Missing.md")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var entry struct {
		Msg       string `json:"msg"`
		Path      string `json:"path"`
		Status    int    `json:"status"`
		Bytes     int    `json:"bytes"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", logs.String(), err)
	}
	if entry.Msg != "request" || entry.Path != "/docs/Missing.md" || entry.Status != http.StatusNotFound {
		t.Errorf("unexpected log entry %+v", entry)
	}
	if entry.Bytes != rec.Body.Len() {
		t.Errorf("expected bytes=%d, got %d", rec.Body.Len(), entry.Bytes)
	}
	if entry.RequestID == "" {
		t.Error("expected a request id")
	}
}
