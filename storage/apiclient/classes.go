package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/friendsofgo/errors"

	"github.com/trezcool/findtutor/core/classes"
)

type classRepository struct {
	client *Client
}

var _ classes.Repository = (*classRepository)(nil)

func NewClassRepository(client *Client) *classRepository {
	return &classRepository{client: client}
}

func (repo *classRepository) QueryClassesByTeacher(ctx context.Context, teacherID int) ([]classes.Class, error) {
	q := url.Values{"teacher_id": []string{strconv.Itoa(teacherID)}}
	var cls []classes.Class
	if err := repo.client.get(ctx, "/classes", q, &cls); err != nil {
		return nil, errors.Wrap(err, "listing classes")
	}
	return cls, nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id int) (classes.Class, error) {
	var c classes.Class
	if err := repo.client.get(ctx, fmt.Sprintf("/classes/%d", id), nil, &c); err != nil {
		if IsNotFound(err) {
			return classes.Class{}, classes.ErrNotFound
		}
		return classes.Class{}, errors.Wrap(err, "fetching class")
	}
	return c, nil
}

func (repo *classRepository) CreateClass(ctx context.Context, c classes.Class) (classes.Class, error) {
	var created classes.Class
	if err := repo.client.send(ctx, http.MethodPost, "/classes", c, &created); err != nil {
		return classes.Class{}, errors.Wrap(err, "creating class")
	}
	return created, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, c classes.Class) (classes.Class, error) {
	var updated classes.Class
	path := fmt.Sprintf("/classes/%d", c.ID)
	if err := repo.client.send(ctx, http.MethodPut, path, c, &updated); err != nil {
		return classes.Class{}, errors.Wrap(err, "updating class")
	}
	return updated, nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, id int) error {
	path := fmt.Sprintf("/classes/%d", id)
	if err := repo.client.send(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return nil
}
