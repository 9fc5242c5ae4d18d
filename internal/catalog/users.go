package catalog

import (
	"context"
	"fmt"

	"github.com/gamezone/portal/internal/models"
)

// CreateUser stores a user. The password is kept as given and duplicate
// usernames are not rejected here.
func (s *Service) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.store.InsertUser(ctx, models.User{Username: username, Password: password})
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (models.User, bool, error) {
	user, ok, err := s.store.GetUser(ctx, id)
	if err != nil {
		return models.User{}, false, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, ok, nil
}

// GetUserByUsername scans users in insertion order and returns the first
// exact, case-sensitive match.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return models.User{}, false, fmt.Errorf("find user %q: %w", username, err)
	}
	for _, u := range users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}
