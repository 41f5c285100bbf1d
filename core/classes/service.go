package classes

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("class not found")
	ErrNotOwner = errors.New("class belongs to another teacher")
)

type (
	Repository interface {
		QueryClassesByTeacher(ctx context.Context, teacherID int) ([]Class, error)
		GetClassByID(ctx context.Context, id int) (Class, error)
		CreateClass(ctx context.Context, c Class) (Class, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		DeleteClass(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryByTeacher(ctx context.Context, teacherID int) ([]Class, error) {
	return svc.repo.QueryClassesByTeacher(ctx, teacherID)
}

func (svc *Service) Create(ctx context.Context, teacherID int, data ClassInput) (Class, error) {
	if err := data.Validate(); err != nil {
		return Class{}, err
	}
	c := Class{TeacherID: teacherID}
	data.apply(&c)
	created, err := svc.repo.CreateClass(ctx, c)
	if err != nil {
		return Class{}, pkgerrors.Wrap(err, "creating class")
	}
	return created, nil
}

func (svc *Service) Update(ctx context.Context, teacherID, id int, data ClassInput) (Class, error) {
	if err := data.Validate(); err != nil {
		return Class{}, err
	}
	c, err := svc.owned(ctx, teacherID, id)
	if err != nil {
		return Class{}, err
	}
	data.apply(&c)
	updated, err := svc.repo.UpdateClass(ctx, c)
	if err != nil {
		return Class{}, pkgerrors.Wrap(err, "updating class")
	}
	return updated, nil
}

func (svc *Service) Delete(ctx context.Context, teacherID, id int) error {
	if _, err := svc.owned(ctx, teacherID, id); err != nil {
		return err
	}
	if err := svc.repo.DeleteClass(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "deleting class")
	}
	return nil
}

func (svc *Service) owned(ctx context.Context, teacherID, id int) (Class, error) {
	c, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return Class{}, pkgerrors.Wrap(err, "finding class")
	}
	if c.TeacherID != teacherID {
		return Class{}, ErrNotOwner
	}
	return c, nil
}
