package user

import (
	"github.com/trezcool/findtutor/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

var AllRoles = []string{RoleStudent, RoleTeacher}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is the logged-in identity held by the session. The role is
// immutable per account; durable account state lives behind the remote API.
type User struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture"`
}

func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// SignIn contains the information needed to open a session.
type SignIn struct {
	Email string `json:"email" form:"email" validate:"required,email"`
	Role  string `json:"role" form:"role" validate:"required,role"`
}

func (si *SignIn) Validate() error {
	si.Email = core.CleanString(si.Email, true /* lower */)
	si.Role = core.CleanString(si.Role, true /* lower */)
	return core.Validate.Struct(si)
}
