package hostd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/classmate-dev/classmate"
)

// Options bundles the components a Server exposes.
type Options struct {
	Session   *classmate.Session
	Trigger   *classmate.Trigger
	Completer *classmate.Completer
	Workspace *classmate.Workspace
	Logger    *log.Logger
}

// Server is the editor-host daemon.
type Server struct {
	session   *classmate.Session
	trigger   *classmate.Trigger
	completer *classmate.Completer
	workspace *classmate.Workspace
	hub       *Hub
	logger    *log.Logger
}

// New assembles a server. A nil logger falls back to the standard logger.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		session:   opts.Session,
		trigger:   opts.Trigger,
		completer: opts.Completer,
		workspace: opts.Workspace,
		hub:       NewHub(logger),
		logger:    logger,
	}
}

// Router builds the HTTP route table. Exposed separately so tests can drive
// the handlers through httptest without a listener.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/index", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/index/rebuild", s.handleRebuild).Methods(http.MethodPost)
	r.HandleFunc("/api/names", s.handleListNames).Methods(http.MethodGet)
	r.HandleFunc("/api/names", s.handleAddNames).Methods(http.MethodPost)
	r.HandleFunc("/api/generate", s.handleGenerate).Methods(http.MethodPost)
	r.HandleFunc("/api/completions", s.handleCompletions).Methods(http.MethodPost)
	r.HandleFunc("/api/changes", s.handleChanges).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.hub.HandleWebSocket)
	return r
}

// Serve starts the hub and the HTTP server on addr, shutting both down when
// ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.logger.Printf("[hostd] listening on http://%s", listener.Addr())

	go s.hub.Run()

	srv := &http.Server{Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listener) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// NotifyIndexEvent broadcasts an index topic event to connected editors. The
// watcher feeds its invalidations through here.
func (s *Server) NotifyIndexEvent(eventType string, data interface{}) {
	s.hub.BroadcastRaw("index", eventType, data)
}

type indexSummary struct {
	Generation uint64              `json:"generation"`
	Records    int                 `json:"records"`
	Classes    []string            `json:"classes"`
	IDs        []string            `json:"ids"`
	Stats      classmate.ScanStats `json:"stats"`
}

func (s *Server) summarize(snap *classmate.Snapshot) indexSummary {
	return indexSummary{
		Generation: s.session.Index().Generation(),
		Records:    snap.Len(),
		Classes:    snap.ClassNames(),
		IDs:        snap.IDNames(),
		Stats:      snap.Stats(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session.Index().Snapshot(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.summarize(snap))
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session.Index().Scan(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summary := s.summarize(snap)
	s.NotifyIndexEvent("rebuilt", summary)
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListNames(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{
		"names": s.session.Generator().UsedNames(),
	})
}

func (s *Server) handleAddNames(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.session.Generator().AddUsedNames(req.Names...)
	s.writeJSON(w, http.StatusOK, map[string]int{"count": len(s.session.Generator().UsedNames())})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prefix string `json:"prefix"`
		Kind   string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !classmate.ValidPrefix(req.Prefix) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid prefix %q", req.Prefix))
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid kind %q", req.Kind))
		return
	}

	name, err := s.session.GenerateName(r.Context(), req.Prefix)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    name,
		"snippet": classmate.AttributeSnippet(kind, name),
	})
}

func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		Line    int    `json:"line"`
		Column  int    `json:"column"`
		Context string `json:"context"` // css | markup, default by extension
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc, err := s.workspace.Load(r.Context(), req.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown document %q", req.Path))
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	offset, err := doc.OffsetAt(req.Line, req.Column)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	docContext := req.Context
	if docContext == "" {
		if strings.EqualFold(filepath.Ext(req.Path), ".css") {
			docContext = "css"
		} else {
			docContext = "markup"
		}
	}

	var cands []classmate.Candidate
	switch docContext {
	case "css":
		cands, err = s.completer.StylesheetCandidates(r.Context(), doc, offset)
	case "markup":
		cands, err = s.completer.MarkupCandidates(r.Context(), doc, offset)
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid context %q", docContext))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cands == nil {
		cands = []classmate.Candidate{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]classmate.Candidate{"candidates": cands})
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path   string `json:"path"`
		Offset int    `json:"offset"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	doc, err := s.workspace.Load(r.Context(), req.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown document %q", req.Path))
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	edits, err := s.trigger.HandleChange(r.Context(), classmate.Change{
		Doc:    doc,
		Offset: req.Offset,
		Text:   req.Text,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if edits == nil {
		// Dropped or no insertion site; an empty batch, not an error.
		edits = []classmate.Edit{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]classmate.Edit{"edits": edits})
}

func parseKind(raw string) (classmate.Kind, bool) {
	switch raw {
	case "", "class":
		return classmate.KindClass, true
	case "id":
		return classmate.KindID, true
	}
	return "", false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("[hostd] encode error: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
