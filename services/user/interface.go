package user

import (
	"context"

	userRepo "parkwise/database/repository/user"
	"parkwise/models"

	"go.uber.org/zap"
)

// ClaimsSetter writes custom claims on an identity-provider account.
type ClaimsSetter interface {
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
}

type UserService interface {
	// EnsureProfile creates the user document on first sign-in.
	EnsureProfile(ctx context.Context, uid, email string) (*models.User, error)
	GetUserByID(ctx context.Context, uid string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, uid string, input models.ProfileInput) (*models.User, error)
	SetFCMToken(ctx context.Context, uid, token string) error
	// SetRole updates both the identity-provider claim and the stored user.
	SetRole(ctx context.Context, uid, role string) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo   userRepo.UserRepository
	Claims ClaimsSetter
	Logger *zap.Logger
}

func (s *DefaultUserService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
