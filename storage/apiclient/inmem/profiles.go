package inmemdb

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/trezcool/findtutor/core/profile"
	"github.com/trezcool/findtutor/core/user"
)

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *DB) *profileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) QueryAllTeachers(ctx context.Context) ([]profile.Teacher, error) {
	tbl := repo.db.teachers
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	teachers := make([]profile.Teacher, 0, len(tbl.t))
	for _, t := range tbl.t {
		teachers = append(teachers, *t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].TeacherID < teachers[j].TeacherID })
	return teachers, nil
}

func (repo *profileRepository) QueryAllStudents(ctx context.Context) ([]profile.Student, error) {
	tbl := repo.db.students
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	students := make([]profile.Student, 0, len(tbl.t))
	for _, s := range tbl.t {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
	return students, nil
}

func (repo *profileRepository) UpdateTeacher(ctx context.Context, t profile.Teacher) (profile.Teacher, error) {
	tbl := repo.db.teachers
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.t[t.TeacherID]; !ok {
		return profile.Teacher{}, profile.ErrNotFound
	}
	tbl.t[t.TeacherID] = &t
	return t, nil
}

func (repo *profileRepository) UpdateStudent(ctx context.Context, s profile.Student) (profile.Student, error) {
	tbl := repo.db.students
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if _, ok := tbl.t[s.StudentID]; !ok {
		return profile.Student{}, profile.ErrNotFound
	}
	tbl.t[s.StudentID] = &s
	return s, nil
}

func (repo *profileRepository) UploadProfileImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, content)
	return "https://media.localhost/profiles/" + filename, nil
}

func (repo *profileRepository) SetUserProfilePicture(ctx context.Context, userID int, url string) error {
	repo.db.teachers.mutex.Lock()
	for _, t := range repo.db.teachers.t {
		if t.UserID == userID {
			t.ProfilePicture = url
		}
	}
	repo.db.teachers.mutex.Unlock()

	repo.db.students.mutex.Lock()
	for _, s := range repo.db.students.t {
		if s.UserID == userID {
			s.ProfilePicture = url
		}
	}
	repo.db.students.mutex.Unlock()
	return nil
}

// CreateTeacher seeds a teacher profile; TeacherID is assigned if unset.
func (repo *profileRepository) CreateTeacher(t profile.Teacher) profile.Teacher {
	tbl := repo.db.teachers
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if t.TeacherID == 0 {
		tbl.pk++
		t.TeacherID = tbl.pk
	}
	if t.Email == "" {
		t.Email = fmt.Sprintf("teacher%d@test.cd", t.TeacherID)
	}
	tbl.t[t.TeacherID] = &t
	return t
}

// CreateStudent seeds a student profile; StudentID is assigned if unset.
func (repo *profileRepository) CreateStudent(s profile.Student) profile.Student {
	tbl := repo.db.students
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	if s.StudentID == 0 {
		tbl.pk++
		s.StudentID = tbl.pk
	}
	if s.Email == "" {
		s.Email = fmt.Sprintf("student%d@test.cd", s.StudentID)
	}
	tbl.t[s.StudentID] = &s
	return s
}

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) GetUserByEmailAndRole(ctx context.Context, email, role string) (user.User, error) {
	switch role {
	case user.RoleTeacher:
		repo.db.teachers.mutex.RLock()
		defer repo.db.teachers.mutex.RUnlock()
		for _, t := range repo.db.teachers.t {
			if t.Email == email {
				return user.User{ID: t.UserID, Name: t.Name, Email: t.Email, Role: role, ProfilePicture: t.ProfilePicture}, nil
			}
		}
	case user.RoleStudent:
		repo.db.students.mutex.RLock()
		defer repo.db.students.mutex.RUnlock()
		for _, s := range repo.db.students.t {
			if s.Email == email {
				return user.User{ID: s.UserID, Name: s.Name, Email: s.Email, Role: role, ProfilePicture: s.ProfilePicture}, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}
