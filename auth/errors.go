package auth

import (
	"errors"

	"github.com/DerickDutraDev/store-GBS/notice"
)

var (
	ErrWeakPassword       = errors.New("password too short")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProfileNotSaved    = errors.New("identity created but profile not saved")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token issued before sign-out")
	ErrGoogleDisabled     = errors.New("google sign-in is not configured")
)

// Message is the text shown to the user for an auth failure. Wrong
// credentials get their own message so the login form can tell them apart
// from an outage.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return notice.MsgInvalidLogin
	case errors.Is(err, ErrWeakPassword):
		return notice.MsgWeakPassword
	case errors.Is(err, ErrInvalidEmail):
		return notice.MsgInvalidEmail
	case errors.Is(err, ErrGoogleDisabled):
		return notice.MsgGoogleDisabled
	case errors.Is(err, ErrEmailTaken):
		return notice.MsgEmailTaken
	case errors.Is(err, ErrProfileNotSaved):
		return notice.MsgProfileNotSaved
	default:
		return notice.MsgLoginFailed
	}
}
