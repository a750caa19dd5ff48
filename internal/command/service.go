package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sovereign/internal/command/metrics"
	"sovereign/internal/platform/observability"
	"sovereign/pkg/platform/audit"
)

// Handler receives accepted commands. Handlers run on the delivering
// transport's goroutine.
type Handler func(ctx context.Context, ev Event)

const seenCapacity = 256

// Service validates commands from every transport, drops duplicates by id,
// and fans accepted commands out to all subscribers.
type Service struct {
	bus    Bus
	mirror *FileMirror
	remote *Remote
	token  string

	logger  *slog.Logger
	auditor observability.AuditPublisher
	metrics *metrics.Metrics
	now     func() time.Time

	mu   sync.RWMutex
	next int
	subs map[int]Handler

	seenMu    sync.Mutex
	seen      map[string]struct{}
	seenOrder []string
}

type Option func(*Service)

func WithMirror(m *FileMirror) Option {
	return func(s *Service) {
		s.mirror = m
	}
}

func WithRemote(r *Remote) Option {
	return func(s *Service) {
		s.remote = r
	}
}

// WithDeVitalizeToken sets the static secret a DE_VITALIZE payload must carry.
func WithDeVitalizeToken(token string) Option {
	return func(s *Service) {
		s.token = token
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(p observability.AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(bus Bus, opts ...Option) (*Service, error) {
	if bus == nil {
		return nil, fmt.Errorf("broadcast bus is required")
	}
	s := &Service{
		bus:    bus,
		logger: slog.Default(),
		now:    time.Now,
		subs:   make(map[int]Handler),
		seen:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Subscribe registers h for every accepted command. Registrations accumulate;
// the returned func removes this one.
func (s *Service) Subscribe(h Handler) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = h
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// IssueLock delivers a lock command to this process's subscribers, then
// broadcasts and mirrors it for the guard's other processes. The echoes carry
// the same id and are dropped here. It fails only when neither path accepted
// the command; local subscribers have run either way.
func (s *Service) IssueLock(ctx context.Context) (Message, error) {
	msg := NewLock(s.now())
	s.markSeen(msg.ID)
	s.metrics.IncrementReceived(string(msg.Command), "local")
	observability.LogAudit(ctx, s.logger, s.auditor, audit.EventLockCommandReceived,
		"command", string(msg.Command), "transport", "local", "command_id", msg.ID)
	s.dispatch(ctx, Event{Type: msg.Command, Transport: TransportBroadcast, Message: msg})

	var mirrorErr error
	if s.mirror != nil {
		if mirrorErr = s.mirror.Write(msg); mirrorErr != nil {
			s.logger.WarnContext(ctx, "failed to mirror lock command", "error", mirrorErr)
		}
	}
	if err := s.bus.Publish(ctx, msg); err != nil {
		if s.mirror == nil || mirrorErr != nil {
			return Message{}, errors.Join(err, mirrorErr)
		}
		s.logger.WarnContext(ctx, "lock broadcast failed; relying on storage mirror", "error", err)
	}
	return msg, nil
}

// Run listens on every configured transport until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.bus.Listen(ctx, func(msg Message) {
			s.Receive(ctx, msg, TransportBroadcast)
		})
	})
	if s.mirror != nil {
		g.Go(func() error {
			return s.mirror.Watch(ctx, nil, func(msg Message) {
				s.Receive(ctx, msg, TransportStorage)
			})
		})
	}
	if s.remote != nil && s.remote.Enabled() {
		g.Go(func() error {
			return s.remote.Run(ctx, func(msg Message, t Transport) {
				s.Receive(ctx, msg, t)
			})
		})
	}
	return g.Wait()
}

// Receive validates one message and dispatches it. It reports whether the
// message was accepted.
func (s *Service) Receive(ctx context.Context, msg Message, transport Transport) bool {
	switch msg.Command {
	case TypeLock:
		// Same-origin delivery is the only trust boundary for lock commands.
		if transport != TransportBroadcast && transport != TransportStorage {
			s.reject(ctx, msg, transport, "untrusted_transport")
			return false
		}
	case TypeDeVitalize:
		if !tokenMatches(s.token, msg.AuthToken) {
			s.reject(ctx, msg, transport, "invalid_token")
			return false
		}
	default:
		s.reject(ctx, msg, transport, "unknown_command")
		return false
	}

	if !s.markSeen(msg.ID) {
		return false
	}

	s.metrics.IncrementReceived(string(msg.Command), string(transport))
	event := audit.EventLockCommandReceived
	if msg.Command == TypeDeVitalize {
		event = audit.EventDeVitalizeAccepted
	}
	observability.LogAudit(ctx, s.logger, s.auditor, event,
		"command", string(msg.Command), "transport", string(transport), "command_id", msg.ID)

	s.dispatch(ctx, Event{Type: msg.Command, Transport: transport, Message: msg})
	return true
}

func (s *Service) reject(ctx context.Context, msg Message, transport Transport, reason string) {
	s.metrics.IncrementRejected(string(msg.Command), reason)
	if msg.Command == TypeDeVitalize {
		observability.LogAudit(ctx, s.logger, s.auditor, audit.EventDeVitalizeRejected,
			"command", string(msg.Command), "transport", string(transport), "reason", reason)
		return
	}
	s.logger.WarnContext(ctx, "command rejected",
		"command", string(msg.Command), "transport", string(transport), "reason", reason)
}

// markSeen records id and reports whether it was new. Messages without an id
// are always new.
func (s *Service) markSeen(id string) bool {
	if id == "" {
		return true
	}
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.seenOrder = append(s.seenOrder, id)
	if len(s.seenOrder) > seenCapacity {
		delete(s.seen, s.seenOrder[0])
		s.seenOrder = s.seenOrder[1:]
	}
	return true
}

func (s *Service) dispatch(ctx context.Context, ev Event) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, s.subs[id])
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}
