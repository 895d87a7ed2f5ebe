// Package auth signs shoppers up and in, issues their session tokens and
// announces every change of authentication state.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/DerickDutraDev/store-GBS/events"
	"github.com/DerickDutraDev/store-GBS/models"
	"github.com/DerickDutraDev/store-GBS/store"
)

const MinPasswordLength = 6

var ErrInvalidEmail = errors.New("invalid email")

// IdentityStore is satisfied by *store.IdentityStore.
type IdentityStore interface {
	Create(ctx context.Context, id *models.AuthIdentity) error
	Get(ctx context.Context, id string) (models.AuthIdentity, error)
	GetByEmail(ctx context.Context, email string) (models.AuthIdentity, error)
	MarkSignedOut(ctx context.Context, id string, at time.Time) error
}

// ProfileStore is satisfied by *store.ProfileStore.
type ProfileStore interface {
	Create(ctx context.Context, p *models.UserProfile) error
	Get(ctx context.Context, id string) (models.UserProfile, error)
}

type Deps struct {
	Identities IdentityStore
	Profiles   ProfileStore
	Tokens     *Tokens
	Changes    *events.Broker[StateChange]
	Google     GoogleVerifier // nil disables Google sign-in
	Log        *zap.Logger
}

type Provider struct {
	identities IdentityStore
	profiles   ProfileStore
	tokens     *Tokens
	changes    *events.Broker[StateChange]
	google     GoogleVerifier
	log        *zap.Logger
}

func NewProvider(d Deps) *Provider {
	return &Provider{
		identities: d.Identities,
		profiles:   d.Profiles,
		tokens:     d.Tokens,
		changes:    d.Changes,
		google:     d.Google,
		log:        d.Log.Named("auth"),
	}
}

// SignInResult is a freshly issued session.
type SignInResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
}

func (p *Provider) GoogleEnabled() bool { return p.google != nil }

// SignUp creates the identity and then its profile. New profiles are never
// admins. When the profile write fails the identity is kept and
// ErrProfileNotSaved is returned.
func (p *Provider) SignUp(ctx context.Context, email, password, name string) (models.UserProfile, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return models.UserProfile{}, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return models.UserProfile{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("hash password: %w", err)
	}

	ident := &models.AuthIdentity{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     models.ProviderPassword,
	}
	if err := p.identities.Create(ctx, ident); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.UserProfile{}, ErrEmailTaken
		}
		return models.UserProfile{}, fmt.Errorf("create identity: %w", err)
	}

	profile := models.UserProfile{
		ID:    ident.ID,
		Email: email,
		Name:  displayName(name, email),
	}
	if err := p.profiles.Create(ctx, &profile); err != nil {
		p.log.Error("save profile failed", zap.String("user_id", ident.ID), zap.Error(err))
		return models.UserProfile{}, fmt.Errorf("%w: %v", ErrProfileNotSaved, err)
	}

	p.publish(SignedUp, ident.ID)
	return profile, nil
}

// SignIn checks a password and issues a session token.
func (p *Provider) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	email = normalizeEmail(email)
	ident, err := p.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, fmt.Errorf("load identity: %w", err)
	}
	if ident.PasswordHash == "" {
		return SignInResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		return SignInResult{}, ErrInvalidCredentials
	}
	return p.issue(ctx, ident, "")
}

// GoogleSignIn verifies a Firebase ID token. The first sign-in of an email
// creates its identity and profile; an email already registered with a
// password signs in to that account.
func (p *Provider) GoogleSignIn(ctx context.Context, idToken string) (SignInResult, error) {
	if p.google == nil {
		return SignInResult{}, ErrGoogleDisabled
	}
	g, err := p.google.Verify(ctx, idToken)
	if err != nil {
		return SignInResult{}, err
	}
	email := normalizeEmail(g.Email)

	ident, err := p.identities.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		ident = models.AuthIdentity{ID: g.UID, Email: email, Provider: models.ProviderGoogle}
		if ident.ID == "" {
			ident.ID = uuid.NewString()
		}
		if err := p.identities.Create(ctx, &ident); err != nil {
			return SignInResult{}, fmt.Errorf("create identity: %w", err)
		}
		p.publish(SignedUp, ident.ID)
	case err != nil:
		return SignInResult{}, fmt.Errorf("load identity: %w", err)
	}
	return p.issue(ctx, ident, g.Name)
}

// SignOut revokes every token issued to userID so far.
func (p *Provider) SignOut(ctx context.Context, userID string) error {
	if err := p.identities.MarkSignedOut(ctx, userID, p.tokens.now().UTC()); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	p.publish(SignedOut, userID)
	return nil
}

// Verify parses a session token and checks it was not revoked by a later
// sign-out. Revocation works at the one-second resolution of the token's
// issue time: a token issued in the same second as the sign-out is revoked.
func (p *Provider) Verify(ctx context.Context, raw string) (*Claims, error) {
	claims, err := p.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	ident, err := p.identities.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if ident.SignedOutAt != nil && !claims.IssuedAt.Time.After(ident.SignedOutAt.Truncate(time.Second)) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

func (p *Provider) issue(ctx context.Context, ident models.AuthIdentity, fallbackName string) (SignInResult, error) {
	res := SignInResult{UserID: ident.ID, Email: ident.Email}

	profile, err := p.profiles.Get(ctx, ident.ID)
	switch {
	case err == nil:
		res.Name = profile.Name
		res.IsAdmin = profile.IsAdmin
	case errors.Is(err, store.ErrNotFound):
		profile = models.UserProfile{ID: ident.ID, Email: ident.Email, Name: displayName(fallbackName, ident.Email)}
		if err := p.profiles.Create(ctx, &profile); err != nil {
			p.log.Warn("create missing profile failed", zap.String("user_id", ident.ID), zap.Error(err))
		}
		res.Name = profile.Name
	default:
		// the session still works, just without admin rights
		p.log.Warn("load profile failed", zap.String("user_id", ident.ID), zap.Error(err))
		res.Name = displayName(fallbackName, ident.Email)
	}

	// Tokens carry whole seconds. Wait out the sign-out second so the new
	// token is not revoked along with the old ones.
	if ident.SignedOutAt != nil {
		if wait := ident.SignedOutAt.Truncate(time.Second).Add(time.Second).Sub(p.tokens.now()); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return SignInResult{}, ctx.Err()
			}
		}
	}

	token, err := p.tokens.Issue(ident.ID, ident.Email, res.Name)
	if err != nil {
		return SignInResult{}, err
	}
	res.Token = token
	res.ExpiresAt = p.tokens.now().Add(p.tokens.ttl)

	p.publish(SignedIn, ident.ID)
	return res, nil
}

func (p *Provider) publish(kind ChangeKind, userID string) {
	if p.changes == nil {
		return
	}
	p.changes.Publish(StateChange{Kind: kind, UserID: userID, At: p.tokens.now()})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}

// displayName falls back to the local part of the email, then to a generic
// label.
func displayName(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return "Usuário"
}
