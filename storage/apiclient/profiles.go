package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/friendsofgo/errors"

	"github.com/trezcool/findtutor/core/profile"
)

type profileRepository struct {
	client *Client
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(client *Client) *profileRepository {
	return &profileRepository{client: client}
}

func (repo *profileRepository) QueryAllTeachers(ctx context.Context) ([]profile.Teacher, error) {
	var teachers []profile.Teacher
	if err := repo.client.get(ctx, "/teachers", nil, &teachers); err != nil {
		return nil, errors.Wrap(err, "listing teachers")
	}
	return teachers, nil
}

func (repo *profileRepository) QueryAllStudents(ctx context.Context) ([]profile.Student, error) {
	var students []profile.Student
	if err := repo.client.get(ctx, "/students", nil, &students); err != nil {
		return nil, errors.Wrap(err, "listing students")
	}
	return students, nil
}

func (repo *profileRepository) UpdateTeacher(ctx context.Context, t profile.Teacher) (profile.Teacher, error) {
	var updated profile.Teacher
	path := fmt.Sprintf("/teachers/%d", t.TeacherID)
	if err := repo.client.send(ctx, http.MethodPut, path, t, &updated); err != nil {
		return profile.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return updated, nil
}

func (repo *profileRepository) UpdateStudent(ctx context.Context, s profile.Student) (profile.Student, error) {
	var updated profile.Student
	path := fmt.Sprintf("/students/%d", s.StudentID)
	if err := repo.client.send(ctx, http.MethodPut, path, s, &updated); err != nil {
		return profile.Student{}, errors.Wrap(err, "updating student")
	}
	return updated, nil
}

func (repo *profileRepository) UploadProfileImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := repo.client.upload(ctx, "/users/upload-profile-image", "image", filename, content, &resp); err != nil {
		return "", errors.Wrap(err, "uploading profile image")
	}
	return resp.URL, nil
}

func (repo *profileRepository) SetUserProfilePicture(ctx context.Context, userID int, url string) error {
	path := fmt.Sprintf("/users/%d/profile-picture", userID)
	body := map[string]string{"profile_picture": url}
	if err := repo.client.send(ctx, http.MethodPut, path, body, nil); err != nil {
		return errors.Wrap(err, "setting profile picture")
	}
	return nil
}
