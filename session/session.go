// Package session resolves the signed-in shopper of a request and carries
// it on the request context.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/auth"
	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/store"
)

type Session struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

type ctxKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// From returns the session attached by WithSession, if any.
func From(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// Profiles is satisfied by *store.ProfileStore.
type Profiles interface {
	Get(ctx context.Context, id string) (models.UserProfile, error)
}

type entry struct {
	s      Session
	loaded time.Time
}

// Registry caches resolved sessions per user. Entries are dropped on every
// auth state change of their user and expire after ttl, so admin grants made
// elsewhere show up without a new sign-in.
type Registry struct {
	profiles Profiles
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu    sync.RWMutex
	cache map[string]entry
	gen   map[string]uint64 // bumped by Invalidate
}

func NewRegistry(profiles Profiles, ttl time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		profiles: profiles,
		ttl:      ttl,
		log:      log.Named("session"),
		now:      time.Now,
		cache:    make(map[string]entry),
		gen:      make(map[string]uint64),
	}
}

// Resolve builds the session for verified token claims.
func (r *Registry) Resolve(ctx context.Context, claims *auth.Claims) (Session, error) {
	userID := claims.Subject

	r.mu.RLock()
	e, ok := r.cache[userID]
	gen := r.gen[userID]
	r.mu.RUnlock()
	if ok && r.now().Sub(e.loaded) < r.ttl {
		return e.s, nil
	}

	s := Session{UserID: userID, Email: claims.Email, Name: claims.Name}
	p, err := r.profiles.Get(ctx, userID)
	switch {
	case err == nil:
		s.Name = p.Name
		s.IsAdmin = p.IsAdmin
	case errors.Is(err, store.ErrNotFound):
		// no profile yet: a plain shopper
	default:
		return s, err
	}

	// an Invalidate during the lookup means s may already be stale
	r.mu.Lock()
	if r.gen[userID] == gen {
		r.cache[userID] = entry{s: s, loaded: r.now()}
	}
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) Invalidate(userID string) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.gen[userID]++
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Watch invalidates cached sessions as auth state changes arrive. It returns
// when changes is closed or ctx is done.
func (r *Registry) Watch(ctx context.Context, changes <-chan auth.StateChange) {
	events.Pump(ctx, changes, func(_ context.Context, c auth.StateChange) error {
		r.Invalidate(c.UserID)
		r.log.Debug("session invalidated", zap.String("user_id", c.UserID), zap.String("kind", string(c.Kind)))
		return nil
	}, nil)
}
