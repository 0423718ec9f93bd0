package repository

import (
	"context"
	"fmt"

	"github.com/physiotrack/physio-sync/internal/docstore"
	"github.com/physiotrack/physio-sync/internal/models"
)

// ProfileRepository handles the app-level user profile documents
type ProfileRepository struct {
	store docstore.Store
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(store docstore.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Create writes a new profile document keyed by the identity UID. The
// create is strict: an existing document at that key is a conflict, never
// an overwrite.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	data, err := docstore.Encode(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := r.store.Create(ctx, usersCollection, profile.UserID, data); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Get retrieves a profile by user id
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	data, err := r.store.Get(ctx, usersCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile models.UserProfile
	if err := docstore.Decode(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// UpdateEmail patches the single email field of a profile
func (r *ProfileRepository) UpdateEmail(ctx context.Context, userID, email string) error {
	fields := map[string]any{"email": email}
	if err := r.store.Update(ctx, usersCollection, userID, fields); err != nil {
		return fmt.Errorf("failed to update profile email: %w", err)
	}
	return nil
}

// Delete removes a profile document. Only account deletion reaches this;
// profiles are never deleted on their own.
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, usersCollection, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
