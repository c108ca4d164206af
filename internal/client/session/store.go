package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/authflow/internal/logging"
)

// Key is the single well-known key a token is persisted under.
const Key = "token"

// Token is an opaque bearer credential. It is never decoded by the client.
type Token string

// ErrEmptyToken is returned when Set is called with an empty token.
var ErrEmptyToken = errors.New("session: empty token")

// Backend persists at most one token.
//
// Load reports ok=false with a nil error when nothing is stored. Delete of
// an absent token is not an error.
type Backend interface {
	Load(ctx context.Context) (tok Token, ok bool, err error)
	Save(ctx context.Context, tok Token) error
	Delete(ctx context.Context) error
}

// Store is the process-wide holder of the session token. It is safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	token   Token
	has     bool
	epoch   uint64
	log     logging.Logger
}

// New returns an empty store that persists through backend.
func New(backend Backend, log logging.Logger) *Store {
	return &Store{backend: backend, log: logging.OrNop(log)}
}

// Open returns a store primed with whatever token backend already holds.
func Open(ctx context.Context, backend Backend, log logging.Logger) (*Store, error) {
	s := New(backend, log)
	tok, ok, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if ok && tok != "" {
		s.token, s.has = tok, true
		s.log.Debug(ctx, "session restored")
	}
	return s, nil
}

// Get returns the current token, if any.
func (s *Store) Get() (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.has
}

// BearerToken lets a Store act as the token source of the API client.
func (s *Store) BearerToken() (string, bool) {
	tok, ok := s.Get()
	return string(tok), ok
}

// Epoch returns the current write generation.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Set replaces the stored token.
func (s *Store) Set(ctx context.Context, tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, tok)
}

// SetIfEpoch stores tok only if no write happened since epoch was observed.
// It reports whether the token was stored.
func (s *Store) SetIfEpoch(ctx context.Context, epoch uint64, tok Token) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug(ctx, "stale session write discarded", "epoch", epoch, "current", s.epoch)
		return false, nil
	}
	if err := s.setLocked(ctx, tok); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes the token. Clearing an empty store is a no-op apart from
// advancing the epoch.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

// ClearIfEpoch clears the token only if no write happened since epoch was
// observed. It reports whether the store was cleared.
func (s *Store) ClearIfEpoch(ctx context.Context, epoch uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug(ctx, "stale session clear discarded", "epoch", epoch, "current", s.epoch)
		return false, nil
	}
	if err := s.clearLocked(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Store) setLocked(ctx context.Context, tok Token) error {
	if tok == "" {
		return ErrEmptyToken
	}
	if err := s.backend.Save(ctx, tok); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.token, s.has = tok, true
	s.epoch++
	return nil
}

// clearLocked drops the cached token even when the backend fails, so the
// running process never keeps using a session the user ended.
func (s *Store) clearLocked(ctx context.Context) error {
	s.token, s.has = "", false
	s.epoch++
	if err := s.backend.Delete(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
