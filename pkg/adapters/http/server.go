// Package http exposes the monitor/replay feed over HTTP: external
// collaborators push fully-formed trees in, and live viewers follow the
// current document over SSE.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/session"
)

// Server wires an editor session to the monitor feed endpoints. It also
// implements ports.Canvas so every accepted state transition is broadcast
// to SSE subscribers.
type Server struct {
	session *session.Session
	streams *StreamManager
	metrics *metrics
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a structured logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a monitor server bound to the given session and
// registers itself as the session's canvas broadcaster.
func NewServer(sess *session.Session, opts ...Option) *Server {
	s := &Server{
		session: sess,
		streams: NewStreamManager(),
		metrics: newMetrics(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	sess.AttachCanvas(s)
	return s
}

// Handler returns the HTTP handler for the monitor API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/v1/tree", s.handleTreeReceived)
	r.Get("/v1/document", s.handleGetDocument)
	r.Get("/v1/validity", s.handleGetValidity)
	r.Get("/events", s.handleEvents)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleTreeReceived accepts a fully-formed external document and hands
// it to the session: clear, adopt, relayout, reset history.
func (s *Server) handleTreeReceived(w http.ResponseWriter, r *http.Request) {
	var dto TreeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		s.metrics.feedFailures.Inc()
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("TreeReceived: Invalid request body", "err", err)
		return
	}

	tree, models, err := mapTreeToDomain(dto)
	if err != nil {
		s.metrics.feedFailures.Inc()
		http.Error(w, fmt.Sprintf("Invalid tree payload: %v", err), http.StatusBadRequest)
		s.logger.Warn("TreeReceived: Invalid tree payload", "err", err)
		return
	}

	s.session.TreeReceived(tree, models)
	s.metrics.treesReceived.Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "adopted",
		"nodes":  tree.Len(),
	})
}

// handleGetDocument returns the current document in feed shape.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	tree, models := s.session.Document()
	dto := mapTreeFromDomain(tree, models)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		s.logger.Error("GetDocument response encode failed", "err", err)
	}
}

// handleGetValidity reports the validity gates driving the shell's save
// and auto-arrange affordances.
func (s *Server) handleGetValidity(w http.ResponseWriter, r *http.Request) {
	resp := map[string]bool{
		"valid":    s.session.IsValid(),
		"can_save": s.session.CanSave(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleEvents streams the document to a live viewer over SSE.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- ports.Canvas --

// Clear is a no-op for the broadcast canvas; subscribers only care about
// the rebuilt state that follows.
func (s *Server) Clear() {}

// Rebuild broadcasts the freshly adopted document to all subscribers.
func (s *Server) Rebuild(tree *domain.Tree) {
	dto := mapTreeFromDomain(tree, nil)
	data, err := json.Marshal(dto)
	if err != nil {
		s.logger.Error("Broadcast encode failed", "err", err)
		return
	}
	s.streams.Broadcast(string(data))
	s.metrics.eventsBroadcast.Inc()
}

// SetPositions is a no-op; positions travel inside the Rebuild payload.
func (s *Server) SetPositions(map[domain.NodeID]domain.Position) {}

// -- Metrics --

type metrics struct {
	registry        *prometheus.Registry
	treesReceived   prometheus.Counter
	feedFailures    prometheus.Counter
	eventsBroadcast prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		treesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_monitor_trees_received_total",
			Help: "Trees adopted from the monitor feed.",
		}),
		feedFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_monitor_feed_failures_total",
			Help: "Feed payloads rejected before adoption.",
		}),
		eventsBroadcast: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_monitor_events_broadcast_total",
			Help: "Document states broadcast to SSE subscribers.",
		}),
	}
	m.registry.MustRegister(m.treesReceived, m.feedFailures, m.eventsBroadcast)
	return m
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
		}
	}
}
