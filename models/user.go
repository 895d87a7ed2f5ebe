package models

import "time"

// UserProfile shares its ID with the AuthIdentity it was created for.
type UserProfile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"` // set by operators only
	CreatedAt time.Time `json:"created_at"`
}

// AuthIdentity holds sign-in credentials. PasswordHash is empty for
// identities created through Google sign-in.
type AuthIdentity struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `json:"-"`
	Provider     string     `gorm:"not null;default:'password'" json:"provider"`
	SignedOutAt  *time.Time `json:"signed_out_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)
