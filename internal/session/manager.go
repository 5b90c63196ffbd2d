package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/wordstack/internal/cachemanager"
	"github.com/zjrosen/wordstack/internal/command"
	"github.com/zjrosen/wordstack/internal/log"
	"github.com/zjrosen/wordstack/internal/pubsub"
	"github.com/zjrosen/wordstack/internal/tracing"
)

// Config controls a Manager.
type Config struct {
	// IdleTimeout drops sessions that see no access for this long. 0 = never.
	IdleTimeout time.Duration
	// CleanupInterval is how often expired sessions are evicted and announced.
	// Zero picks a default derived from IdleTimeout.
	CleanupInterval time.Duration
	// MaxSessions caps live sessions. 0 = unlimited.
	MaxSessions int
	// MaxHistory bounds each session's undo stack. 0 = unbounded.
	MaxHistory int
	// Tracer records a span per command. Nil disables tracing.
	Tracer trace.Tracer
}

// Manager owns every live session.
type Manager struct {
	cfg    Config
	store  cachemanager.CacheManager[string, *Session]
	broker *pubsub.Broker[Event]
	tracer trace.Tracer
	now    func() time.Time

	mu     sync.Mutex // guards structural changes: create, delete, refresh
	closed bool
}

// NewManager creates a Manager backed by an in-memory TTL store.
func NewManager(cfg Config) *Manager {
	expiration := cachemanager.NoExpiration
	cleanup := time.Duration(0)
	if cfg.IdleTimeout > 0 {
		expiration = cfg.IdleTimeout
		cleanup = cfg.CleanupInterval
		if cleanup <= 0 {
			cleanup = min(max(cfg.IdleTimeout/2, time.Second), cachemanager.DefaultCleanupInterval)
		}
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = tracing.Disabled().Tracer()
	}

	m := &Manager{
		cfg:    cfg,
		store:  cachemanager.NewInMemoryCacheManager[string, *Session]("sessions", expiration, cleanup),
		broker: pubsub.NewBroker[Event](),
		tracer: tracer,
		now:    time.Now,
	}
	m.store.OnEvicted(m.onEvicted)
	return m
}

// onEvicted runs for explicit deletes and for expiry. Deletes mark the
// session first, so only expiry reaches the publish below.
func (m *Manager) onEvicted(id string, s *Session) {
	if !s.markDeleted() {
		return
	}
	log.Info(log.CatSession, "Session expired", "session", id)
	m.broker.Publish(pubsub.ExpiredEvent, Event{SessionID: id})
}

// Broker returns the broker that carries session events.
func (m *Manager) Broker() *pubsub.Broker[Event] {
	return m.broker
}

// Subscribe streams events for a single session until ctx is done.
func (m *Manager) Subscribe(ctx context.Context, id string) <-chan pubsub.Event[Event] {
	return m.broker.SubscribeFiltered(ctx, func(e pubsub.Event[Event]) bool {
		return e.Payload.SessionID == id
	})
}

// Create starts a new empty session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	ctx, span := m.tracer.Start(ctx, tracing.SpanSessionCreate)
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		tracing.RecordError(span, ErrManagerClosed)
		return nil, ErrManagerClosed
	}

	if m.cfg.MaxSessions > 0 && m.store.Count(ctx) >= m.cfg.MaxSessions {
		err := fmt.Errorf("%w: limit is %d", ErrTooManySessions, m.cfg.MaxSessions)
		tracing.RecordError(span, err)
		log.Warn(log.CatSession, "Session limit reached", "max", m.cfg.MaxSessions)
		return nil, err
	}

	s := newSession(uuid.NewString(), m.now(), m.cfg.MaxHistory)
	m.store.Set(ctx, s.ID, s, cachemanager.UseDefault)

	span.SetAttributes(attribute.String(tracing.AttrSessionID, s.ID))
	log.Info(log.CatSession, "Session created", "session", s.ID)
	m.broker.Publish(pubsub.CreatedEvent, Event{SessionID: s.ID, State: s.State()})

	return s, nil
}

// Get returns the session with id and refreshes its idle timer.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrManagerClosed
	}

	s, ok := m.store.GetWithRefresh(ctx, id, cachemanager.UseDefault)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if s.isDeleted() {
		// Evicted between the read and the refresh; undo the refresh.
		_ = m.store.Delete(ctx, id)
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete removes the session with id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	ctx, span := m.tracer.Start(ctx, tracing.SpanSessionDelete,
		trace.WithAttributes(attribute.String(tracing.AttrSessionID, id)))
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}

	s, ok := m.store.Get(ctx, id)
	if !ok || !s.markDeleted() {
		err := fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		tracing.RecordError(span, err)
		return err
	}
	_ = m.store.Delete(ctx, id)

	log.Info(log.CatSession, "Session deleted", "session", id)
	m.broker.Publish(pubsub.DeletedEvent, Event{SessionID: id})
	return nil
}

// List returns every live session, oldest first. Listing does not refresh
// idle timers.
func (m *Manager) List(ctx context.Context) []Summary {
	summaries := make([]Summary, 0)
	for _, id := range m.store.Keys(ctx) {
		s, ok := m.store.Get(ctx, id)
		if !ok || s.isDeleted() {
			continue
		}
		summaries = append(summaries, s.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.Before(summaries[j].CreatedAt)
	})
	return summaries
}

// Len returns the number of live sessions.
func (m *Manager) Len(ctx context.Context) int {
	return m.store.Count(ctx)
}

// State returns the current state of the session with id.
func (m *Manager) State(ctx context.Context, id string) (State, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return State{}, err
	}
	return s.State(), nil
}

// Apply validates cmd and runs it against the session with id.
// Commands against one session are serialized; different sessions proceed
// in parallel.
func (m *Manager) Apply(ctx context.Context, id string, cmd command.Command) (Result, error) {
	ctx, span := tracing.StartCommandSpan(ctx, m.tracer, id, string(cmd.Kind))
	defer span.End()

	if cmd.Kind == command.KindDelete {
		span.SetAttributes(attribute.Int(tracing.AttrCommandCount, cmd.Count))
	}

	if err := cmd.Validate(); err != nil {
		tracing.RecordError(span, err)
		log.Debug(log.CatSession, "Rejected command", "session", id, "command", cmd.String(), "error", err)
		return Result{}, err
	}

	s, err := m.Get(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return Result{}, err
	}

	s.mu.Lock()
	if s.deleted {
		s.mu.Unlock()
		err := fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		tracing.RecordError(span, err)
		return Result{}, err
	}

	changed := cmd.Apply(s.history)
	s.lastActive = m.now()
	state := StateOf(s.history)

	// Publish under the session lock so subscribers see commands in order.
	m.broker.Publish(pubsub.UpdatedEvent, Event{
		SessionID: id,
		Command:   cmd.Kind,
		Changed:   changed,
		State:     state,
	})
	s.mu.Unlock()

	tracing.RecordOutcome(span, changed, state.WordCount, len(state.Undo), len(state.Redo))
	log.Debug(log.CatEditor, "Applied command",
		"session", id,
		"command", cmd.String(),
		"changed", changed,
		"words", state.WordCount,
		"undo", len(state.Undo),
		"redo", len(state.Redo))

	return Result{SessionID: id, Command: cmd, Changed: changed, State: state}, nil
}

// Close drops every session and closes the event broker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	_ = m.store.Flush(context.Background())
	m.broker.Close()
	log.Info(log.CatSession, "Session manager closed")
}
