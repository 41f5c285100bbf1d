package profile

import (
	"context"
	"errors"
	"io"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/findtutor/core/user"
)

var (
	// ErrNotFound terminates resolution of an explicit profile id.
	ErrNotFound = errors.New("profile not found")
	// ErrNotResolved blocks any write attempted before the acting user's own
	// profile id has been resolved; raw user ids must never reach the API.
	ErrNotResolved = errors.New("profile not found; please complete your registration first")
)

type (
	Repository interface {
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		UploadProfileImage(ctx context.Context, filename string, content io.Reader) (string, error)
		SetUserProfilePicture(ctx context.Context, userID int, url string) error
	}

	// Service resolves profiles. Own-profile lookups go through an index
	// (user_id -> profile) built once per process and invalidated on every
	// mutation; the remote API has no lookup-by-id endpoint, so path-id
	// resolution scans the collections.
	Service struct {
		repo Repository

		mu         sync.RWMutex
		teacherIdx map[int]Teacher // user_id -> Teacher
		studentIdx map[int]Student // user_id -> Student

		invalidated []func() // caches to drop whenever a profile mutates
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// OnInvalidate registers a hook run whenever the profile index is dropped
// (mutation or logout) so dependent caches can be dropped with it.
func (svc *Service) OnInvalidate(fn func()) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.invalidated = append(svc.invalidated, fn)
}

// Invalidate drops the user index. The next resolution rebuilds it.
func (svc *Service) Invalidate() {
	svc.mu.Lock()
	svc.teacherIdx = nil
	svc.studentIdx = nil
	hooks := svc.invalidated
	svc.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Resolve finds a profile by its explicit id: teachers first, then students;
// first match wins. No match in either collection is a terminal ErrNotFound.
func (svc *Service) Resolve(ctx context.Context, profileID int, viewer user.User) (Resolved, error) {
	teachers, err := svc.repo.QueryAllTeachers(ctx)
	if err != nil {
		return Resolved{}, pkgerrors.Wrap(err, "querying teachers")
	}
	for i := range teachers {
		if teachers[i].TeacherID == profileID {
			t := teachers[i]
			return Resolved{
				Profile: Profile{Role: user.RoleTeacher, Teacher: &t},
				IsOwn:   viewer.IsTeacher() && t.UserID == viewer.ID,
			}, nil
		}
	}

	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return Resolved{}, pkgerrors.Wrap(err, "querying students")
	}
	for i := range students {
		if students[i].StudentID == profileID {
			s := students[i]
			return Resolved{
				Profile: Profile{Role: user.RoleStudent, Student: &s},
				IsOwn:   viewer.IsStudent() && s.UserID == viewer.ID,
			}, nil
		}
	}
	return Resolved{}, ErrNotFound
}

// ResolveOwn resolves the logged-in user's own profile via the index.
// An absent profile is not an error here: a synthesized placeholder is
// returned so the edit form can still render (it is never persisted as-is).
func (svc *Service) ResolveOwn(ctx context.Context, usr user.User) (Resolved, error) {
	switch usr.Role {
	case user.RoleTeacher:
		t, ok, err := svc.ownTeacher(ctx, usr)
		if err != nil {
			return Resolved{}, err
		}
		if !ok {
			t = Teacher{UserID: usr.ID, Name: usr.Name, Email: usr.Email, ProfilePicture: usr.ProfilePicture}
		}
		return Resolved{
			Profile: Profile{Role: user.RoleTeacher, Teacher: &t, Synthesized: !ok},
			IsOwn:   true,
		}, nil
	case user.RoleStudent:
		s, ok, err := svc.ownStudent(ctx, usr)
		if err != nil {
			return Resolved{}, err
		}
		if !ok {
			s = Student{UserID: usr.ID, Name: usr.Name, Email: usr.Email, ProfilePicture: usr.ProfilePicture}
		}
		return Resolved{
			Profile: Profile{Role: user.RoleStudent, Student: &s, Synthesized: !ok},
			IsOwn:   true,
		}, nil
	}
	return Resolved{}, ErrNotResolved
}

// ResolveOwnID returns the acting user's profile id (teacher_id or
// student_id). This is the guard every request-creating call site MUST go
// through; an unresolved profile blocks the operation.
func (svc *Service) ResolveOwnID(ctx context.Context, usr user.User) (int, error) {
	res, err := svc.ResolveOwn(ctx, usr)
	if err != nil {
		return 0, err
	}
	if res.Profile.Synthesized {
		return 0, ErrNotResolved
	}
	return res.Profile.ID(), nil
}

func (svc *Service) ownTeacher(ctx context.Context, usr user.User) (Teacher, bool, error) {
	svc.mu.RLock()
	idx := svc.teacherIdx
	svc.mu.RUnlock()

	if idx == nil {
		teachers, err := svc.repo.QueryAllTeachers(ctx)
		if err != nil {
			return Teacher{}, false, pkgerrors.Wrap(err, "building teacher index")
		}
		idx = make(map[int]Teacher, len(teachers))
		for _, t := range teachers {
			idx[t.UserID] = t
		}
		svc.mu.Lock()
		svc.teacherIdx = idx
		svc.mu.Unlock()
	}
	t, ok := idx[usr.ID]
	return t, ok, nil
}

func (svc *Service) ownStudent(ctx context.Context, usr user.User) (Student, bool, error) {
	svc.mu.RLock()
	idx := svc.studentIdx
	svc.mu.RUnlock()

	if idx == nil {
		students, err := svc.repo.QueryAllStudents(ctx)
		if err != nil {
			return Student{}, false, pkgerrors.Wrap(err, "building student index")
		}
		idx = make(map[int]Student, len(students))
		for _, s := range students {
			idx[s.UserID] = s
		}
		svc.mu.Lock()
		svc.studentIdx = idx
		svc.mu.Unlock()
	}
	s, ok := idx[usr.ID]
	return s, ok, nil
}

// TeacherByID finds a teacher by its profile id (collection scan; the API
// has no lookup-by-id endpoint).
func (svc *Service) TeacherByID(ctx context.Context, teacherID int) (Teacher, error) {
	teachers, err := svc.repo.QueryAllTeachers(ctx)
	if err != nil {
		return Teacher{}, pkgerrors.Wrap(err, "querying teachers")
	}
	for _, t := range teachers {
		if t.TeacherID == teacherID {
			return t, nil
		}
	}
	return Teacher{}, ErrNotFound
}

// StudentByID finds a student by its profile id.
func (svc *Service) StudentByID(ctx context.Context, studentID int) (Student, error) {
	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return Student{}, pkgerrors.Wrap(err, "querying students")
	}
	for _, s := range students {
		if s.StudentID == studentID {
			return s, nil
		}
	}
	return Student{}, ErrNotFound
}

// UpdateOwnTeacher writes teacher profile edits for the logged-in teacher.
func (svc *Service) UpdateOwnTeacher(ctx context.Context, usr user.User, data UpdateTeacher) (Teacher, error) {
	if err := data.Validate(); err != nil {
		return Teacher{}, err
	}
	t, ok, err := svc.ownTeacher(ctx, usr)
	if err != nil {
		return Teacher{}, err
	}
	if !ok {
		return Teacher{}, ErrNotResolved
	}

	t.Subject = data.Subject
	t.Bio = data.Bio
	t.YearsExperience = data.years
	t.Education = data.Education
	t.HourlyRate = data.rate
	t.Location = data.Location

	updated, err := svc.repo.UpdateTeacher(ctx, t)
	if err != nil {
		return Teacher{}, pkgerrors.Wrap(err, "updating teacher profile")
	}
	svc.Invalidate()
	return updated, nil
}

// UpdateOwnStudent writes student profile edits for the logged-in student.
func (svc *Service) UpdateOwnStudent(ctx context.Context, usr user.User, data UpdateStudent) (Student, error) {
	if err := data.Validate(); err != nil {
		return Student{}, err
	}
	s, ok, err := svc.ownStudent(ctx, usr)
	if err != nil {
		return Student{}, err
	}
	if !ok {
		return Student{}, ErrNotResolved
	}

	s.Bio = data.Bio
	s.EducationLevel = data.EducationLevel
	s.Location = data.Location

	updated, err := svc.repo.UpdateStudent(ctx, s)
	if err != nil {
		return Student{}, pkgerrors.Wrap(err, "updating student profile")
	}
	svc.Invalidate()
	return updated, nil
}

// SetProfilePicture uploads an image and attaches the stored URL to the user.
func (svc *Service) SetProfilePicture(ctx context.Context, usr user.User, filename string, content io.Reader) (string, error) {
	url, err := svc.repo.UploadProfileImage(ctx, filename, content)
	if err != nil {
		return "", pkgerrors.Wrap(err, "uploading profile image")
	}
	if err := svc.repo.SetUserProfilePicture(ctx, usr.ID, url); err != nil {
		return "", pkgerrors.Wrap(err, "attaching profile picture")
	}
	svc.Invalidate()
	return url, nil
}
