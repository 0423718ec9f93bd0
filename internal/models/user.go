package models

import (
	"time"
)

// Identity is the authenticated principal issued by the identity provider.
// It is never persisted by this layer; the provider owns it.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// UserProfile is the app-level user record, keyed by the identity UID
type UserProfile struct {
	UserID      string     `json:"user_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Surname     string     `json:"surname"`
	DateCreated *time.Time `json:"date_created,omitempty"`
}

// NewUserProfile builds a profile from a fresh identity
func NewUserProfile(id Identity, name, surname string) *UserProfile {
	now := time.Now().UTC()
	return &UserProfile{
		UserID:      id.UID,
		Email:       id.Email,
		Name:        name,
		Surname:     surname,
		DateCreated: &now,
	}
}
