package user

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

type (
	Repository interface {
		// GetUserByEmailAndRole resolves an identity the remote API
		// already knows. There is no users list endpoint; lookups go
		// through the profile collections.
		GetUserByEmailAndRole(ctx context.Context, email, role string) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignIn opens a session for an existing account. No credentials are
// checked here; authentication lives behind the remote API.
func (svc *Service) SignIn(ctx context.Context, si SignIn) (User, error) {
	if err := si.Validate(); err != nil {
		return User{}, err
	}
	return svc.repo.GetUserByEmailAndRole(ctx, si.Email, si.Role)
}
