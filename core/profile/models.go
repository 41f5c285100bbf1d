package profile

import (
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/user"
)

// Teacher is a teacher profile as served by the remote API.
// TeacherID is the stable key requests and classes reference;
// UserID links back to the session identity. The two are NOT interchangeable.
type Teacher struct {
	TeacherID       int          `json:"teacher_id"`
	UserID          int          `json:"user_id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Subject         string       `json:"subject"`
	Bio             string       `json:"bio"`
	YearsExperience int          `json:"years_experience"`
	Education       string       `json:"education"`
	HourlyRate      float64      `json:"hourly_rate"`
	Location        string       `json:"location"`
	Lat             null.Float64 `json:"lat"`
	Lng             null.Float64 `json:"lng"`
	IsSubscribed    bool         `json:"is_subscribed"`
	ProfilePicture  string       `json:"profile_picture"`
}

// Student mirrors Teacher for the student role.
type Student struct {
	StudentID      int    `json:"student_id"`
	UserID         int    `json:"user_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Bio            string `json:"bio"`
	EducationLevel string `json:"education_level"`
	Location       string `json:"location"`
	ProfilePicture string `json:"profile_picture"`
}

// Profile is a tagged variant over the two roles so views can be
// parameterized by role instead of duplicated per role.
type Profile struct {
	Role    string
	Teacher *Teacher
	Student *Student

	// Synthesized marks a non-persisted placeholder built for an account
	// whose own profile does not exist yet; it only ever backs edit forms.
	Synthesized bool
}

// ID returns the profile key used by requests and classes
// (teacher_id or student_id, never user_id).
func (p Profile) ID() int {
	switch p.Role {
	case user.RoleTeacher:
		return p.Teacher.TeacherID
	case user.RoleStudent:
		return p.Student.StudentID
	}
	return 0
}

func (p Profile) UserID() int {
	switch p.Role {
	case user.RoleTeacher:
		return p.Teacher.UserID
	case user.RoleStudent:
		return p.Student.UserID
	}
	return 0
}

func (p Profile) Name() string {
	switch p.Role {
	case user.RoleTeacher:
		return p.Teacher.Name
	case user.RoleStudent:
		return p.Student.Name
	}
	return ""
}

// Resolved is the result of a profile resolution.
type Resolved struct {
	Profile Profile
	IsOwn   bool
}

// UpdateTeacher carries teacher profile edits. Experience and rate come in
// as free-form form input and are coerced before any write is attempted.
type UpdateTeacher struct {
	Subject    string `json:"subject" form:"subject" validate:"required"`
	Bio        string `json:"bio" form:"bio"`
	Experience string `json:"years_experience" form:"years_experience" validate:"required"`
	Education  string `json:"education" form:"education"`
	HourlyRate string `json:"hourly_rate" form:"hourly_rate" validate:"required"`
	Location   string `json:"location" form:"location" validate:"required"`

	years int
	rate  float64
}

func (ut *UpdateTeacher) Validate() error {
	ut.Subject = core.CleanString(ut.Subject)
	ut.Bio = core.CleanString(ut.Bio)
	ut.Education = core.CleanString(ut.Education)
	ut.Location = core.CleanString(ut.Location)

	if err := core.Validate.Struct(ut); err != nil {
		return err
	}

	// numeric coercion; "5 years" and "LKR 2500" style input is accepted
	var flds []core.FieldError
	years, err := coerceInt(ut.Experience)
	if err != nil || years < 0 {
		flds = append(flds, core.FieldError{Field: "years_experience", Error: "must be a number of years"})
	}
	rate, err := coerceFloat(ut.HourlyRate)
	if err != nil || rate < 0 {
		flds = append(flds, core.FieldError{Field: "hourly_rate", Error: "must be a valid hourly rate"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	ut.years = years
	ut.rate = rate
	return nil
}

// UpdateStudent carries student profile edits.
type UpdateStudent struct {
	Bio            string `json:"bio" form:"bio"`
	EducationLevel string `json:"education_level" form:"education_level" validate:"required"`
	Location       string `json:"location" form:"location" validate:"required"`
}

func (us *UpdateStudent) Validate() error {
	us.Bio = core.CleanString(us.Bio)
	us.EducationLevel = core.CleanString(us.EducationLevel)
	us.Location = core.CleanString(us.Location)
	return core.Validate.Struct(us)
}

// coerceInt extracts the leading integer out of free-form input such as "5 years".
func coerceInt(s string) (int, error) {
	return strconv.Atoi(firstNumber(s))
}

// coerceFloat extracts the numeric part out of free-form input such as "LKR 2500.50".
func coerceFloat(s string) (float64, error) {
	return strconv.ParseFloat(firstNumber(s), 64)
}

func firstNumber(s string) string {
	var b strings.Builder
	var seen bool
	for _, r := range strings.TrimSpace(s) {
		if (r >= '0' && r <= '9') || (seen && r == '.') {
			seen = true
			b.WriteRune(r)
		} else if seen {
			break
		}
	}
	return b.String()
}
