package userRepo

import (
	"context"

	"parkwise/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by identity-provider UID. It returns (nil, nil) when missing.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]models.User, error)
	// EnsureUser inserts the user on first sign-in and returns the stored document.
	EnsureUser(ctx context.Context, user *models.User) (*models.User, error)
	// UpdateProfile changes display fields of an existing user.
	UpdateProfile(ctx context.Context, id string, input models.ProfileInput) (*models.User, error)
	SetFCMToken(ctx context.Context, id, token string) error
	SetRole(ctx context.Context, id, role string) (*models.User, error)
}
