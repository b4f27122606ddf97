package memory

import (
	"context"
	"fmt"
	"time"

	"parkwise/models"
)

type UserRepo struct{ s *Store }

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetAll(_ context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.users, func(a, b models.User) bool { return a.ID < b.ID }), nil
}

func (r *UserRepo) EnsureUser(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	cur, ok := r.s.users[user.ID]
	if !ok {
		cur = *user
		cur.CreatedAt = now
	}
	cur.Email = user.Email
	cur.UpdatedAt = now
	r.s.users[user.ID] = cur
	return &cur, nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, id string, input models.ProfileInput) (*models.User, error) {
	return r.update(id, func(u *models.User) {
		if input.Name != "" {
			u.Name = input.Name
		}
		if input.Phone != "" {
			u.Phone = input.Phone
		}
	}), nil
}

func (r *UserRepo) SetFCMToken(_ context.Context, id, token string) error {
	if r.update(id, func(u *models.User) { u.FCMToken = token }) == nil {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}

func (r *UserRepo) SetRole(_ context.Context, id, role string) (*models.User, error) {
	return r.update(id, func(u *models.User) { u.Role = role }), nil
}

func (r *UserRepo) update(id string, fn func(*models.User)) *models.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return &u
}
