package dashboard

import (
	"container/list"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aevon-lab/dimboard/internal/metrics"
)

// DefaultStoreCapacity is the default number of live sessions.
const DefaultStoreCapacity = 1000

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("dashboard session not found")

// Store keeps dashboards by session id, evicting the least recently used one
// when full. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	capacity int
	sessions map[string]*list.Element
	order    *list.List
	metrics  *metrics.Metrics
	logger   *slog.Logger
	newID    func() string
}

type storeEntry struct {
	id        string
	dashboard *Dashboard
}

// NewStore creates a session store holding at most capacity dashboards.
func NewStore(capacity int, m *metrics.Metrics, logger *slog.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultStoreCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		capacity: capacity,
		sessions: make(map[string]*list.Element),
		order:    list.New(),
		metrics:  m,
		logger:   logger,
		newID:    func() string { return uuid.NewString() },
	}
}

// Add stores d under a new session id and returns the id.
func (s *Store) Add(d *Dashboard) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order.Len() >= s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			entry := oldest.Value.(*storeEntry)
			delete(s.sessions, entry.id)
			s.order.Remove(oldest)
			s.metrics.ObserveEviction()
			s.logger.Info("Evicted least recently used dashboard session", "session_id", entry.id)
		}
	}

	id := s.newID()
	s.sessions[id] = s.order.PushFront(&storeEntry{id: id, dashboard: d})
	s.metrics.SetSessions(s.order.Len())
	return id
}

// Get returns the dashboard for id and marks it most recently used.
func (s *Store) Get(id string) (*Dashboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.order.MoveToFront(elem)
	return elem.Value.(*storeEntry).dashboard, nil
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.sessions[id]
	if !ok {
		return false
	}
	delete(s.sessions, id)
	s.order.Remove(elem)
	s.metrics.SetSessions(s.order.Len())
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
