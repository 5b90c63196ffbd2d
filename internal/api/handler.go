// Package api provides an HTTP API over the session manager.
// It exposes REST endpoints for editing sessions and SSE for change streams.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zjrosen/wordstack/internal/command"
	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/pubsub"
	"github.com/zjrosen/wordstack/internal/session"
)

const (
	defaultHeartbeat = 30 * time.Second
	maxBodyBytes     = 1 << 20
)

// Sessions is the subset of session.Manager the handler uses.
type Sessions interface {
	Create(ctx context.Context) (*session.Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) []session.Summary
	Len(ctx context.Context) int
	State(ctx context.Context, id string) (session.State, error)
	Apply(ctx context.Context, id string, cmd command.Command) (session.Result, error)
	Subscribe(ctx context.Context, id string) <-chan pubsub.Event[session.Event]
}

// Handler provides HTTP endpoints for session operations.
type Handler struct {
	sessions  Sessions
	heartbeat time.Duration
}

// HandlerConfig configures the API handler.
type HandlerConfig struct {
	// Sessions owns every editing session (required).
	Sessions Sessions
	// Heartbeat is the SSE keep-alive interval. Zero means 30s.
	Heartbeat time.Duration
}

// NewHandler creates a new API handler wrapping the given session manager.
func NewHandler(sessions Sessions) *Handler {
	return NewHandlerWithConfig(HandlerConfig{Sessions: sessions})
}

// NewHandlerWithConfig creates a new API handler with full configuration.
func NewHandlerWithConfig(cfg HandlerConfig) *Handler {
	heartbeat := cfg.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &Handler{sessions: cfg.Sessions, heartbeat: heartbeat}
}

// Routes returns an http.Handler with all API routes registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	// Session CRUD
	mux.HandleFunc("POST /sessions", h.Create)
	mux.HandleFunc("GET /sessions", h.List)
	mux.HandleFunc("GET /sessions/{id}", h.Get)
	mux.HandleFunc("DELETE /sessions/{id}", h.Delete)

	// Editing
	mux.HandleFunc("POST /sessions/{id}/insert", h.Insert)
	mux.HandleFunc("POST /sessions/{id}/delete", h.DeleteWords)
	mux.HandleFunc("POST /sessions/{id}/undo", h.Undo)
	mux.HandleFunc("POST /sessions/{id}/redo", h.Redo)
	mux.HandleFunc("GET /sessions/{id}/stacks", h.Stacks)

	// Event streaming
	mux.HandleFunc("GET /sessions/{id}/events", h.StreamSessionEvents)

	// Health check
	mux.HandleFunc("GET /health", h.Health)

	return logRequests(mux)
}

// === Request/Response Types ===

// CreateSessionResponse is the response body for creating a session.
type CreateSessionResponse struct {
	ID string `json:"id"`
}

// ListSessionsResponse is the response body for listing sessions.
type ListSessionsResponse struct {
	Sessions []session.Summary `json:"sessions"`
	Total    int               `json:"total"`
}

// SessionResponse is the response body for a single session.
type SessionResponse struct {
	ID string `json:"id"`
	session.State
}

// InsertRequest is the request body for inserting words.
type InsertRequest struct {
	Text string `json:"text"`
}

// DeleteRequest is the request body for deleting words.
type DeleteRequest struct {
	Count int `json:"count"`
}

// CommandResponse is the response body for every editing command.
type CommandResponse struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Changed bool   `json:"changed"`
	session.State
}

// StacksResponse is the response body for the history stacks.
// Entries are ordered oldest first.
type StacksResponse struct {
	Undo []string `json:"undo"`
	Redo []string `json:"redo"`
}

// HealthResponse is the response body for the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// ErrorResponse is the response body for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// === Handlers ===

// Create starts a new empty session.
// POST /sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create(r.Context())
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, CreateSessionResponse{ID: s.ID})
}

// List returns every live session.
// GET /sessions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	summaries := h.sessions.List(r.Context())

	h.writeJSON(w, http.StatusOK, ListSessionsResponse{
		Sessions: summaries,
		Total:    len(summaries),
	})
}

// Get returns the state of a single session.
// GET /sessions/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	state, err := h.sessions.State(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, SessionResponse{ID: id, State: state})
}

// Delete removes a session.
// DELETE /sessions/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Insert appends words to the session's document.
// POST /sessions/{id}/insert
func (h *Handler) Insert(w http.ResponseWriter, r *http.Request) {
	var req InsertRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.apply(w, r, command.Insert(req.Text))
}

// DeleteWords removes words from the end of the session's document.
// POST /sessions/{id}/delete
func (h *Handler) DeleteWords(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.apply(w, r, command.Delete(req.Count))
}

// Undo reverts the most recent edit.
// POST /sessions/{id}/undo
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, command.Undo())
}

// Redo re-applies the most recently undone edit.
// POST /sessions/{id}/redo
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, command.Redo())
}

// Stacks returns the rendered undo and redo stacks.
// GET /sessions/{id}/stacks
func (h *Handler) Stacks(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.State(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, StacksResponse{Undo: state.Undo, Redo: state.Redo})
}

// StreamSessionEvents streams changes to one session via SSE.
// The stream ends after the session is deleted or expires.
// GET /sessions/{id}/events
func (h *Handler) StreamSessionEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Subscribe before the existence check so no event falls between them.
	events := h.sessions.Subscribe(ctx, id)

	if _, err := h.sessions.State(r.Context(), id); err != nil {
		cancel()
		h.writeSessionError(w, err)
		return
	}

	h.streamEvents(ctx, w, events)
}

// Health returns the service status and live session count.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Sessions: h.sessions.Len(r.Context()),
	})
}

// === Helpers ===

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, cmd command.Command) {
	id := r.PathValue("id")

	res, err := h.sessions.Apply(r.Context(), id, cmd)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, CommandResponse{
		ID:      id,
		Command: string(cmd.Kind),
		Changed: res.Changed,
		State:   res.State,
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err.Error())
		return false
	}
	return true
}

func (h *Handler) streamEvents(ctx context.Context, w http.ResponseWriter, events <-chan pubsub.Event[session.Event]) {
	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "streaming_unsupported", "Streaming not supported", "")
		return
	}

	// Send initial connection event
	_, _ = fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}

			data, err := json.Marshal(event.Payload)
			if err != nil {
				log.ErrorErr(log.CatAPI, "Failed to marshal event", err)
				continue
			}

			_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()

			if event.Type == pubsub.DeletedEvent || event.Type == pubsub.ExpiredEvent {
				return
			}
		}
	}
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", "Session not found", "")
	case errors.Is(err, command.ErrEmptyInsert),
		errors.Is(err, command.ErrNonPositiveCount),
		errors.Is(err, command.ErrUnknownKind):
		h.writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error(), "")
	case errors.Is(err, session.ErrTooManySessions):
		h.writeError(w, http.StatusServiceUnavailable, "too_many_sessions", "Session limit reached", err.Error())
	case errors.Is(err, session.ErrManagerClosed):
		h.writeError(w, http.StatusServiceUnavailable, "unavailable", "Service is shutting down", "")
	default:
		log.ErrorErr(log.CatAPI, "Unhandled session error", err)
		h.writeError(w, http.StatusInternalServerError, "internal_error", "Internal error", err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.ErrorErr(log.CatAPI, "Failed to encode JSON response", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug(log.CatAPI, "Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
