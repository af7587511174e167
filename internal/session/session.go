// Package session keeps the per-visitor state that lives only as long as a
// browsing session: the cart, the running chat transcript and who, if
// anyone, is logged in.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	assistant "github.com/dwikikusuma/bookverse/internal/assistant/domain"
	cart "github.com/dwikikusuma/bookverse/internal/cart/domain"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID         string
	Username   string
	Cart       *cart.Ledger
	Transcript []assistant.Message
	CreatedAt  time.Time
}

func (s *Session) LoggedIn() bool {
	return s.Username != ""
}

// DefaultIdleTTL is how long an untouched session stays alive.
const DefaultIdleTTL = 24 * time.Hour

type entry struct {
	mu       sync.Mutex
	sess     *Session
	lastSeen atomic.Int64 // unix nanos
}

// Store is an in-memory session registry. Each session has its own lock, so
// actions within one session run one at a time while different sessions
// proceed independently. Sessions idle for longer than the TTL are treated
// as gone and removed by CleanupExpired.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	idleTTL  time.Duration
	now      func() time.Time
}

type Option func(*Store)

// WithIdleTTL overrides DefaultIdleTTL. A non-positive ttl is ignored.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.idleTTL = ttl
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{sessions: map[string]*entry{}, idleTTL: DefaultIdleTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new anonymous session and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	now := s.now()
	e := &entry{sess: &Session{
		ID:        id,
		Cart:      cart.NewLedger(),
		CreatedAt: now.UTC(),
	}}
	e.lastSeen.Store(now.UnixNano())

	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()
	return id
}

// lookup touches the entry under the registry lock, so a concurrent
// CleanupExpired either removes it first or sees it as fresh.
func (s *Store) lookup(id string) (*entry, error) {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok || s.expired(e, now) {
		return nil, ErrNotFound
	}
	e.lastSeen.Store(now.UnixNano())
	return e, nil
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return now.Sub(time.Unix(0, e.lastSeen.Load())) > s.idleTTL
}

// CleanupExpired removes idle sessions and returns how many were dropped.
func (s *Store) CleanupExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// With runs fn while holding the session's lock. fn must not retain sess.
func (s *Store) With(ctx context.Context, id string, fn func(sess *Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Login binds the session to username. An anonymous cart carries over into
// the login; switching from one user to another starts a fresh cart and
// transcript.
func (s *Store) Login(ctx context.Context, id, username string) error {
	return s.With(ctx, id, func(sess *Session) error {
		if sess.Username != "" && sess.Username != username {
			sess.Cart.Clear()
			sess.Transcript = nil
		}
		sess.Username = username
		return nil
	})
}

// Logout drops the user binding and clears the cart and transcript.
func (s *Store) Logout(ctx context.Context, id string) error {
	return s.With(ctx, id, func(sess *Session) error {
		sess.Username = ""
		sess.Cart.Clear()
		sess.Transcript = nil
		return nil
	})
}

// Username returns who the session is logged in as, or "".
func (s *Store) Username(ctx context.Context, id string) (string, error) {
	var name string
	err := s.With(ctx, id, func(sess *Session) error {
		name = sess.Username
		return nil
	})
	return name, err
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
