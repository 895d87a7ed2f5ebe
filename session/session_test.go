package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/auth"
	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/store"
)

func TestMain(m *testing.M) {
	// started from an init by the firebase and GCS clients
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type profilesFake struct {
	calls   atomic.Int32
	profile models.UserProfile
	err     error
	onGet   func() // runs after the profile is read
}

func (f *profilesFake) Get(context.Context, string) (models.UserProfile, error) {
	f.calls.Add(1)
	if f.onGet != nil {
		f.onGet()
	}
	return f.profile, f.err
}

func claimsFor(userID string) *auth.Claims {
	return &auth.Claims{
		Email:            "ana@example.com",
		Name:             "from-token",
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	}
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), &Session{UserID: "u1"})
	s, ok := From(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", s.UserID)

	_, ok = From(WithSession(context.Background(), nil))
	assert.False(t, ok)
}

func TestResolveCaches(t *testing.T) {
	profiles := &profilesFake{profile: models.UserProfile{ID: "u1", Name: "Ana", IsAdmin: true}}
	r := NewRegistry(profiles, time.Minute, zap.NewNop())
	now := time.Now()
	r.now = func() time.Time { return now }

	s, err := r.Resolve(context.Background(), claimsFor("u1"))
	require.NoError(t, err)
	assert.True(t, s.IsAdmin)
	assert.Equal(t, "Ana", s.Name)

	_, err = r.Resolve(context.Background(), claimsFor("u1"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), profiles.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = r.Resolve(context.Background(), claimsFor("u1"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), profiles.calls.Load(), "expired entries are reloaded")
}

func TestInvalidateDuringResolveSkipsCache(t *testing.T) {
	profiles := &profilesFake{profile: models.UserProfile{ID: "u1", IsAdmin: true}}
	r := NewRegistry(profiles, time.Minute, zap.NewNop())
	profiles.onGet = func() {
		// admin rights revoked while the old profile is in flight
		r.Invalidate("u1")
		profiles.profile.IsAdmin = false
	}

	s, err := r.Resolve(context.Background(), claimsFor("u1"))
	require.NoError(t, err)
	assert.True(t, s.IsAdmin)
	assert.Equal(t, 0, r.Len())

	profiles.onGet = nil
	s, err = r.Resolve(context.Background(), claimsFor("u1"))
	require.NoError(t, err)
	assert.False(t, s.IsAdmin)
	assert.Equal(t, 1, r.Len())
}

func TestResolveWithoutProfile(t *testing.T) {
	profiles := &profilesFake{err: &store.Error{Op: "get", Table: "user_profiles", Err: store.ErrNotFound}}
	r := NewRegistry(profiles, time.Minute, zap.NewNop())

	s, err := r.Resolve(context.Background(), claimsFor("u1"))
	require.NoError(t, err)
	assert.False(t, s.IsAdmin)
	assert.Equal(t, "from-token", s.Name)
}

func TestResolveFailureIsNotCached(t *testing.T) {
	profiles := &profilesFake{err: errors.New("db down")}
	r := NewRegistry(profiles, time.Minute, zap.NewNop())

	s, err := r.Resolve(context.Background(), claimsFor("u1"))
	assert.Error(t, err)
	assert.False(t, s.IsAdmin)
	assert.Equal(t, 0, r.Len())
}

func TestWatchInvalidates(t *testing.T) {
	profiles := &profilesFake{profile: models.UserProfile{ID: "u1", Name: "Ana"}}
	r := NewRegistry(profiles, time.Hour, zap.NewNop())
	_, err := r.Resolve(context.Background(), claimsFor("u1"))
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())

	broker := events.NewBroker[auth.StateChange]()
	changes, _ := broker.Subscribe(4)
	done := make(chan struct{})
	go func() {
		r.Watch(context.Background(), changes)
		close(done)
	}()

	broker.Publish(auth.StateChange{Kind: auth.SignedOut, UserID: "u1"})
	require.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)

	broker.Close()
	<-done
}
