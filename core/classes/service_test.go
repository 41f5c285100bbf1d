package classes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findtutor/core"
)

type fakeRepo struct {
	pk      int
	classes map[int]Class
}

func newFakeRepo() *fakeRepo { return &fakeRepo{classes: make(map[int]Class)} }

func (r *fakeRepo) QueryClassesByTeacher(_ context.Context, teacherID int) ([]Class, error) {
	var out []Class
	for _, c := range r.classes {
		if c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetClassByID(_ context.Context, id int) (Class, error) {
	if c, ok := r.classes[id]; ok {
		return c, nil
	}
	return Class{}, ErrNotFound
}

func (r *fakeRepo) CreateClass(_ context.Context, c Class) (Class, error) {
	r.pk++
	c.ID = r.pk
	r.classes[c.ID] = c
	return c, nil
}

func (r *fakeRepo) UpdateClass(_ context.Context, c Class) (Class, error) {
	r.classes[c.ID] = c
	return c, nil
}

func (r *fakeRepo) DeleteClass(_ context.Context, id int) error {
	delete(r.classes, id)
	return nil
}

func validInput() ClassInput {
	return ClassInput{
		Title:     "A/L Combined Maths",
		SubjectID: "3",
		Price:     "2000",
		Location:  "Colombo",
	}
}

func TestClassInputValidate(t *testing.T) {
	t.Run("numeric coercion", func(t *testing.T) {
		data := validInput()
		data.Lat = "6.9271"
		data.Lng = "79.8612"
		require.NoError(t, data.Validate())
		assert.Equal(t, 3, data.subjectID)
		assert.Equal(t, 2000.0, data.price)
		assert.True(t, data.lat.Valid)
		assert.Equal(t, 6.9271, data.lat.Float64)
	})

	t.Run("coordinates are optional", func(t *testing.T) {
		data := validInput()
		require.NoError(t, data.Validate())
		assert.False(t, data.lat.Valid)
		assert.False(t, data.lng.Valid)
	})

	t.Run("bad numerics are field errors", func(t *testing.T) {
		data := validInput()
		data.SubjectID = "maths"
		data.Price = "free"
		err := data.Validate()
		require.Error(t, err)
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok)
		assert.Len(t, vErr.Fields, 2)
	})
}

func TestServiceOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)
	assert.Equal(t, 1, created.TeacherID)

	t.Run("owner can update", func(t *testing.T) {
		data := validInput()
		data.Title = "Updated title"
		updated, err := svc.Update(ctx, 1, created.ID, data)
		require.NoError(t, err)
		assert.Equal(t, "Updated title", updated.Title)
	})

	t.Run("another teacher cannot update", func(t *testing.T) {
		_, err := svc.Update(ctx, 2, created.ID, validInput())
		assert.Equal(t, ErrNotOwner, err)
	})

	t.Run("another teacher cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, 2, created.ID)
		assert.Equal(t, ErrNotOwner, err)

		cls, err := svc.QueryByTeacher(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, cls, 1)
	})

	t.Run("owner can delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, 1, created.ID))
		cls, err := svc.QueryByTeacher(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, cls)
	})
}
