package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
)

// Server previews the generated markdown documents over HTTP.
type Server struct {
	router  chi.Router
	docsDir string
	md      goldmark.Markdown
	log     *slog.Logger
}

// NewServer creates and configures the preview server for docsDir.
func NewServer(docsDir string, log *slog.Logger) *Server {
	s := &Server{
		docsDir: docsDir,
		md:      goldmark.New(),
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Get("/api/docs", s.handleListDocs)
	r.Get("/api/docs/{name}/tree", s.handleDocTree)
	r.Get("/docs/{name}", s.handleDocHTML)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
