package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/ritzau/ontology-explorer/pkg/config"
	"github.com/ritzau/ontology-explorer/pkg/ingest"
	"github.com/ritzau/ontology-explorer/pkg/logging"
	"github.com/ritzau/ontology-explorer/pkg/metrics"
	"github.com/ritzau/ontology-explorer/pkg/pubsub"
	"github.com/ritzau/ontology-explorer/pkg/session"
	"github.com/ritzau/ontology-explorer/pkg/tree"
	"github.com/ritzau/ontology-explorer/pkg/view"
)

// ErrorResponse is the body of every non-2xx API reply
type ErrorResponse struct {
	Error  string   `json:"error"`
	Reason string   `json:"reason,omitempty"`
	ID     string   `json:"id,omitempty"`
	Cycle  []string `json:"cycle,omitempty"`
}

// ToggleResponse wraps a snapshot with whether the toggle changed anything
type ToggleResponse struct {
	Changed bool           `json:"changed"`
	View    *view.Snapshot `json:"view"`
}

// Server represents the web server
type Server struct {
	router    *mux.Router
	session   *session.Session
	loader    *ingest.Loader
	source    string
	publisher *pubsub.SSEPublisher
	metrics   *metrics.Collector
}

// NewServer creates a server over sess. source is the path reloads read
// from; empty means the built-in sample.
func NewServer(sess *session.Session, loader *ingest.Loader, source string, pub *pubsub.SSEPublisher, m *metrics.Collector) *Server {
	s := &Server{
		router:    mux.NewRouter().UseEncodedPath(),
		session:   sess,
		loader:    loader,
		source:    source,
		publisher: pub,
		metrics:   m,
	}
	s.setupRoutes()
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

func (s *Server) setupRoutes() {
	s.router.Use(s.instrument)

	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/view", s.subscribe(pubsub.TopicView)).Methods("GET")
	s.router.HandleFunc("/api/subscribe/forest", s.subscribe(pubsub.TopicForest)).Methods("GET")

	s.router.HandleFunc("/api/view", s.handleView).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}", s.handleNode).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}/path", s.handlePath).Methods("GET")
	s.router.HandleFunc("/api/nodes/{id}/toggle", s.handleToggle).Methods("POST")
	s.router.HandleFunc("/api/nodes/{id}/expand-path", s.handleExpandPath).Methods("POST")
	s.router.HandleFunc("/api/expand-all", s.handleExpandAll).Methods("POST")
	s.router.HandleFunc("/api/collapse-all", s.handleCollapseAll).Methods("POST")
	s.router.HandleFunc("/api/filter", s.handleFilter).Methods("POST")
	s.router.HandleFunc("/api/reveal", s.handleReveal).Methods("POST")
	s.router.HandleFunc("/api/reload", s.handleReload).Methods("POST")
	s.router.HandleFunc("/api/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/stats", s.handleStats).Methods("GET")

	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
}

// instrument records request counts and latency by route template, so
// /api/nodes/{id} is one series regardless of id
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.metrics.ObserveHTTP(r.Method, route, rec.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) subscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Set SSE headers
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		// Initial comment establishes the connection (Safari)
		fmt.Fprintf(w, ": connected\n\n")
		flush(w)

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		// Ends when the client goes away or the publisher shuts down
		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.WarnContext(r.Context(), "failed to write SSE event", "topic", topic, "error", err)
				return
			}
			flush(w)
		}
	}
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var malformed *tree.MalformedInputError
	if errors.As(err, &malformed) {
		resp.Reason = malformed.Reason
		resp.ID = malformed.ID
		resp.Cycle = malformed.Cycle
	}
	writeJSON(w, status, resp)
}

// nodeID extracts the {id} route variable. Routes match on the escaped path
// so IRIs with an encoded slash stay in one segment.
func nodeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid node id: %w", err))
		return "", false
	}
	return id, true
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	node, ok := s.session.Node(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("node %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	path := s.session.Path(id)
	if path == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("node %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, path)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	if _, ok := s.session.Node(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("node %q not found", id))
		return
	}
	snap, changed := s.session.Toggle(id)
	writeJSON(w, http.StatusOK, ToggleResponse{Changed: changed, View: snap})
}

func (s *Server) handleExpandPath(w http.ResponseWriter, r *http.Request) {
	id, ok := nodeID(w, r)
	if !ok {
		return
	}
	snap, found := s.session.ExpandPath(id)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("node %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleExpandAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.ExpandAll())
}

func (s *Server) handleCollapseAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.CollapseAll())
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Filter(r.URL.Query().Get("q")))
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Reveal(r.URL.Query().Get("q")))
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Reload(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, snap)
	case tree.IsMalformed(err):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

// Reload reads the configured source again and replaces the forest. A failed
// reload leaves the current forest in place.
func (s *Server) Reload(ctx context.Context) (*view.Snapshot, error) {
	doc, err := s.loader.Load(ctx, s.source)
	if err != nil {
		logging.ErrorContext(ctx, "reload failed", "source", s.source, "error", err)
		s.metrics.Load(metrics.ResultError, 0, 0)
		s.publishFailure(err)
		return nil, err
	}
	snap, err := s.session.Load(doc)
	if err != nil {
		logging.ErrorContext(ctx, "reload rejected", "source", s.source, "error", err)
		return nil, err
	}
	return snap, nil
}

// publishFailure reports read and decode errors, which never reach the session
func (s *Server) publishFailure(err error) {
	status := pubsub.ForestStatus{Source: s.source, Error: err.Error()}
	if pubErr := s.publisher.Publish(pubsub.TopicForest, pubsub.EventReloadFailed, status); pubErr != nil {
		logging.Warn("failed to publish reload failure", "error", pubErr)
	}
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	visible, _ := strconv.ParseBool(q.Get("visible"))

	switch mode := q.Get("mode"); mode {
	case "", config.ModeForest:
		writeJSON(w, http.StatusOK, s.session.Graph(visible))
	case config.ModeTriples:
		writeJSON(w, http.StatusOK, s.session.TripleGraph())
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown graph mode %q", mode))
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Stats())
}

// Start serves on port until ctx is cancelled
func (s *Server) Start(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("starting web server", "url", "http://localhost"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.publisher.Close(); err != nil {
			logging.Warn("failed to close publisher", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	}
}
