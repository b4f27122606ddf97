package user

import (
	"context"
	"fmt"
	"strings"

	"parkwise/models"

	"go.uber.org/zap"
)

func (s *DefaultUserService) EnsureProfile(ctx context.Context, uid, email string) (*models.User, error) {
	if uid == "" {
		return nil, fmt.Errorf("uid is required: %w", models.ErrInvalidInput)
	}
	u, err := s.Repo.EnsureUser(ctx, &models.User{
		ID:    uid,
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  models.RoleDriver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user %s: %w", uid, err)
	}
	return u, nil
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, uid string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if u == nil {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}

// GetAllUsers retrieves all users for admin access.
func (s *DefaultUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

func (s *DefaultUserService) UpdateProfile(ctx context.Context, uid string, input models.ProfileInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	u, err := s.Repo.UpdateProfile(ctx, uid, input)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, models.ErrUserNotFound
	}
	return u, nil
}

func (s *DefaultUserService) SetFCMToken(ctx context.Context, uid, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is required: %w", models.ErrInvalidInput)
	}
	return s.Repo.SetFCMToken(ctx, uid, token)
}

func (s *DefaultUserService) SetRole(ctx context.Context, uid, role string) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleDriver {
		return nil, fmt.Errorf("unknown role %q: %w", role, models.ErrInvalidInput)
	}
	if _, err := s.GetUserByID(ctx, uid); err != nil {
		return nil, err
	}
	if s.Claims != nil {
		if err := s.Claims.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": role}); err != nil {
			return nil, fmt.Errorf("failed to set role claim: %w", err)
		}
	}
	u, err := s.Repo.SetRole(ctx, uid, role)
	if err != nil {
		return nil, err
	}
	s.logger().Info("user role changed", zap.String("uid", uid), zap.String("role", role))
	return u, nil
}
