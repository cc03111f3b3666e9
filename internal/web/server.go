// Package web provides a simple read-only web view over the intake state.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/metalagman/credo/internal/draft"
	"github.com/metalagman/credo/internal/ledger"
)

// Server renders the current draft and the execution history. It is a viewer
// only; all mutations go through the CLI.
type Server struct {
	drafts *draft.Store
	store  *ledger.Store
}

// NewServer creates a new web server.
func NewServer(drafts *draft.Store, store *ledger.Store) (*Server, error) {
	return &Server{drafts: drafts, store: store}, nil
}

//go:embed templates/*.html
var templatesFS embed.FS

// Routes returns the router for the web view.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /executions/{id}", s.handleExport)
	return mux
}

type indexData struct {
	Draft   draft.Draft
	History []ledger.HistoryEntry
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	d, err := s.drafts.Load()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	history, err := s.store.History(r.Context(), 20)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := tmpl.Execute(w, indexData{Draft: d, History: history}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid execution id", http.StatusBadRequest)
		return
	}
	payload, ok, err := s.store.Export(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(payload))
}
