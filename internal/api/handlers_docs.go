package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/sagadocs/internal/render"
)

var errBadName = errors.New("invalid document name")

type docInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// handleListDocs lists the markdown files in the output directory.
func (s *Server) handleListDocs(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		jsonError(w, "failed to read docs directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	docs := []docInfo{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		docs = append(docs, docInfo{Name: e.Name(), Size: info.Size(), Modified: info.ModTime().UTC()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDocTree parses a document back into its saga tree.
func (s *Server) handleDocTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := s.resolveDoc(name)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		jsonError(w, "failed to open document", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	mains, err := render.ReadMarkdown(f)
	if err != nil {
		jsonError(w, "failed to parse document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":       name,
		"main_sagas": mains,
	})
}

// handleDocHTML renders a document to HTML.
func (s *Server) handleDocHTML(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := s.resolveDoc(name)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	src, err := os.ReadFile(path)
	if err != nil {
		jsonError(w, "failed to read document", http.StatusInternalServerError)
		return
	}

	var body bytes.Buffer
	if err := s.md.Convert(src, &body); err != nil {
		s.log.Error("markdown render failed", "doc", name, "error", err)
		jsonError(w, "failed to render document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>\n%s</body></html>\n",
		html.EscapeString(strings.TrimSuffix(name, ".md")), body.Bytes())
}

// resolveDoc maps a URL name onto a markdown file inside the docs directory.
func (s *Server) resolveDoc(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") || filepath.Ext(name) != ".md" {
		return "", errBadName
	}
	path := filepath.Join(s.docsDir, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("document %s not found", name)
	}
	return path, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
