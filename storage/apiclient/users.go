package apiclient

import (
	"context"

	"github.com/friendsofgo/errors"

	"github.com/trezcool/findtutor/core/user"
)

type userRepository struct {
	client *Client
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(client *Client) *userRepository {
	return &userRepository{client: client}
}

// GetUserByEmailAndRole scans the role's profile collection; the API has
// no users list endpoint.
func (repo *userRepository) GetUserByEmailAndRole(ctx context.Context, email, role string) (user.User, error) {
	switch role {
	case user.RoleTeacher:
		var teachers []struct {
			UserID         int    `json:"user_id"`
			Name           string `json:"name"`
			Email          string `json:"email"`
			ProfilePicture string `json:"profile_picture"`
		}
		if err := repo.client.get(ctx, "/teachers", nil, &teachers); err != nil {
			return user.User{}, errors.Wrap(err, "listing teachers")
		}
		for _, t := range teachers {
			if t.Email == email {
				return user.User{
					ID:             t.UserID,
					Name:           t.Name,
					Email:          t.Email,
					Role:           user.RoleTeacher,
					ProfilePicture: t.ProfilePicture,
				}, nil
			}
		}
	case user.RoleStudent:
		var students []struct {
			UserID         int    `json:"user_id"`
			Name           string `json:"name"`
			Email          string `json:"email"`
			ProfilePicture string `json:"profile_picture"`
		}
		if err := repo.client.get(ctx, "/students", nil, &students); err != nil {
			return user.User{}, errors.Wrap(err, "listing students")
		}
		for _, s := range students {
			if s.Email == email {
				return user.User{
					ID:             s.UserID,
					Name:           s.Name,
					Email:          s.Email,
					Role:           user.RoleStudent,
					ProfilePicture: s.ProfilePicture,
				}, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}
