package request

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findtutor/core"
)

// Status is a tutoring request's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

var AllStatuses = []Status{StatusPending, StatusAccepted, StatusDeclined, StatusCompleted}

// transitions is the single transition table every call site goes through.
// accepted, declined and completed are terminal; nothing transitions into
// completed from this app (it is display-only, set server-side).
var transitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusDeclined},
}

func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition out of s exists.
func (s Status) IsTerminal() bool { return len(transitions[s]) == 0 }

// IsActionable reports whether the UI may offer accept/decline/cancel for s.
func (s Status) IsActionable() bool { return s == StatusPending }

// CanTransition reports whether from -> to is a legal lifecycle transition.
func CanTransition(from, to Status) bool {
	for _, st := range transitions[from] {
		if st == to {
			return true
		}
	}
	return false
}

// Request is one tutoring solicitation between a specific student and
// teacher, optionally tied to a class. Party ids are profile ids
// (student_id/teacher_id), never user ids.
type Request struct {
	ID        int          `json:"id"`
	StudentID int          `json:"student_id"`
	TeacherID int          `json:"teacher_id"`
	SubjectID int          `json:"subject_id"`
	ClassID   null.Int     `json:"class_id,omitempty"`
	Message   string       `json:"message"`
	Budget    null.Float64 `json:"budget,omitempty"`
	Location  null.String  `json:"location,omitempty"`
	Status    Status       `json:"status"`
	CreatedAt time.Time    `json:"created_at"` // UTC
}

// NewRequest contains the information needed to create a Request.
// The caller must have resolved its own profile id first; see
// profile.Service.ResolveOwnID.
type NewRequest struct {
	StudentID int          `json:"student_id" validate:"required"`
	TeacherID int          `json:"teacher_id" validate:"required"`
	SubjectID int          `json:"subject_id" validate:"required"`
	Message   string       `json:"message" validate:"required"`
	Budget    null.Float64 `json:"budget"`
	Location  null.String  `json:"location"`
	ClassID   null.Int     `json:"class_id"`
}

func (nr *NewRequest) Validate() error {
	nr.Message = core.CleanString(nr.Message)
	if nr.Location.Valid {
		nr.Location = null.NewString(core.CleanString(nr.Location.String), nr.Location.String != "")
	}
	return core.Validate.Struct(nr)
}

// QueryFilter scopes a request listing to one party. Exactly one of the
// two ids must be set; a request list is never global.
type QueryFilter struct {
	StudentID int `query:"student_id"`
	TeacherID int `query:"teacher_id"`
}

func (qf QueryFilter) IsValid() bool {
	return (qf.StudentID > 0) != (qf.TeacherID > 0)
}
