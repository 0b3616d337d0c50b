package service

import (
	"context"
	"errors"
	"strings"

	"voxcredit/internal/models"
	"voxcredit/internal/repository"
)

type AccountService struct {
	users repository.Users
}

func NewAccountService(users repository.Users) *AccountService {
	return &AccountService{users: users}
}

// GetAccount returns the persisted user with CreatedAt normalized to UTC.
func (s *AccountService) GetAccount(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	u.CreatedAt = toUTC(u.CreatedAt)
	return u, nil
}

// Balance returns the user's current credit balance.
func (s *AccountService) Balance(ctx context.Context, userID int) (int, error) {
	u, err := s.GetAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Credits, nil
}

func (s *AccountService) SetAdmin(ctx context.Context, username string, admin bool) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUserNotFound
	}
	err := s.users.SetAdmin(ctx, username, admin)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
