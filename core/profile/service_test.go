package profile

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findtutor/core/user"
)

type fakeRepo struct {
	teachers []Teacher
	students []Student

	teacherQueries int
	studentQueries int
}

func (r *fakeRepo) QueryAllTeachers(context.Context) ([]Teacher, error) {
	r.teacherQueries++
	return r.teachers, nil
}

func (r *fakeRepo) QueryAllStudents(context.Context) ([]Student, error) {
	r.studentQueries++
	return r.students, nil
}

func (r *fakeRepo) UpdateTeacher(_ context.Context, t Teacher) (Teacher, error) {
	for i := range r.teachers {
		if r.teachers[i].TeacherID == t.TeacherID {
			r.teachers[i] = t
			return t, nil
		}
	}
	return Teacher{}, ErrNotFound
}

func (r *fakeRepo) UpdateStudent(_ context.Context, s Student) (Student, error) {
	for i := range r.students {
		if r.students[i].StudentID == s.StudentID {
			r.students[i] = s
			return s, nil
		}
	}
	return Student{}, ErrNotFound
}

func (r *fakeRepo) UploadProfileImage(_ context.Context, filename string, content io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, content)
	return "https://media.test.cd/" + filename, nil
}

func (r *fakeRepo) SetUserProfilePicture(context.Context, int, string) error { return nil }

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		teachers: []Teacher{
			{TeacherID: 1, UserID: 10, Name: "Mr Banza", Subject: "Math", HourlyRate: 2000, Location: "Colombo"},
			{TeacherID: 2, UserID: 11, Name: "Ms Mbuyi", Subject: "Physics", HourlyRate: 1500, Location: "Kandy"},
		},
		students: []Student{
			{StudentID: 1, UserID: 20, Name: "Joe", EducationLevel: "A/L", Location: "Colombo"},
		},
	}
}

func TestServiceResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("teachers win on id collision", func(t *testing.T) {
		// teacher 1 and student 1 share the same profile id
		svc := NewService(newFakeRepo())
		res, err := svc.Resolve(ctx, 1, user.User{})
		require.NoError(t, err)
		assert.Equal(t, user.RoleTeacher, res.Profile.Role)
		assert.Equal(t, "Mr Banza", res.Profile.Name())
	})

	t.Run("falls back to students", func(t *testing.T) {
		repo := newFakeRepo()
		repo.students[0].StudentID = 9
		svc := NewService(repo)
		res, err := svc.Resolve(ctx, 9, user.User{})
		require.NoError(t, err)
		assert.Equal(t, user.RoleStudent, res.Profile.Role)
		assert.False(t, res.IsOwn)
	})

	t.Run("viewer owns their profile", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		res, err := svc.Resolve(ctx, 2, user.User{ID: 11, Role: user.RoleTeacher})
		require.NoError(t, err)
		assert.True(t, res.IsOwn)
	})

	t.Run("explicit id miss is terminal", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.Resolve(ctx, 404, user.User{})
		assert.Equal(t, ErrNotFound, err)
	})
}

func TestServiceResolveOwn(t *testing.T) {
	ctx := context.Background()

	t.Run("existing profile", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		res, err := svc.ResolveOwn(ctx, user.User{ID: 10, Role: user.RoleTeacher})
		require.NoError(t, err)
		assert.False(t, res.Profile.Synthesized)
		assert.True(t, res.IsOwn)
		assert.Equal(t, 1, res.Profile.ID())
	})

	t.Run("missing profile synthesizes a placeholder", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		usr := user.User{ID: 99, Name: "New Teacher", Email: "new@test.cd", Role: user.RoleTeacher}
		res, err := svc.ResolveOwn(ctx, usr)
		require.NoError(t, err)
		assert.True(t, res.Profile.Synthesized)
		assert.Equal(t, "New Teacher", res.Profile.Name())

		// and the placeholder can never back a write
		_, err = svc.ResolveOwnID(ctx, usr)
		assert.Equal(t, ErrNotResolved, err)
	})

	t.Run("resolved id is the profile id, not the user id", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		id, err := svc.ResolveOwnID(ctx, user.User{ID: 20, Role: user.RoleStudent})
		require.NoError(t, err)
		assert.Equal(t, 1, id)
	})
}

func TestServiceIndexInvalidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	usr := user.User{ID: 10, Role: user.RoleTeacher}

	// repeated own-profile lookups hit the index, not the repo
	_, err := svc.ResolveOwn(ctx, usr)
	require.NoError(t, err)
	_, err = svc.ResolveOwn(ctx, usr)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.teacherQueries)

	var hookCalls int
	svc.OnInvalidate(func() { hookCalls++ })

	// a mutation drops the index and fires the hooks
	_, err = svc.UpdateOwnTeacher(ctx, usr, UpdateTeacher{
		Subject: "Math", Experience: "3", HourlyRate: "1800", Location: "Colombo",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, hookCalls)

	_, err = svc.ResolveOwn(ctx, usr)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.teacherQueries) // initial build + rebuild
}

func TestServiceSetProfilePicture(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	var hookCalls int
	svc.OnInvalidate(func() { hookCalls++ })

	url, err := svc.SetProfilePicture(ctx, user.User{ID: 10}, "me.png", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://media.test.cd/me.png", url)
	assert.Equal(t, 1, hookCalls)
}
