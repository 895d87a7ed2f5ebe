package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

// GoogleIdentity is the verified subject of a Google sign-in.
type GoogleIdentity struct {
	UID   string
	Email string
	Name  string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

// FirebaseVerifier checks ID tokens issued by Firebase Authentication for
// Google accounts.
type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

func NewFirebaseVerifier(ctx context.Context, credentialsJSON, projectID string) (*FirebaseVerifier, error) {
	if credentialsJSON == "" || projectID == "" {
		return nil, errors.New("firebase credentials and project id are required")
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (GoogleIdentity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if token.Audience != v.projectID {
		return GoogleIdentity{}, fmt.Errorf("%w: audience %q", ErrInvalidToken, token.Audience)
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return GoogleIdentity{}, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}
	name, _ := token.Claims["name"].(string)
	return GoogleIdentity{UID: token.UID, Email: email, Name: name}, nil
}
