package post

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findtutor/core"
)

// StudentPost is a public tutoring-wanted bulletin-board entry. A teacher
// responding to it creates a Request seeded with the post's subject,
// location and budget; there is no structural link back to the post.
type StudentPost struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	SubjectID   int       `json:"subject_id"`
	Grade       string    `json:"grade"`
	Description string    `json:"description"`
	Budget      string    `json:"budget"` // display string, e.g. "LKR 1500/hr"
	Contact     string    `json:"contact"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// NewPost contains the information needed to publish a StudentPost.
type NewPost struct {
	SubjectID   int    `json:"subject_id" form:"subject_id" validate:"required"`
	Grade       string `json:"grade" form:"grade" validate:"required,grade"`
	Description string `json:"description" form:"description" validate:"required"`
	Budget      string `json:"budget" form:"budget" validate:"required"`
	Contact     string `json:"contact" form:"contact" validate:"required,email"`
	Location    string `json:"location" form:"location" validate:"required"`
}

func (np *NewPost) Validate() error {
	np.Grade = core.CleanString(np.Grade)
	np.Description = core.CleanString(np.Description)
	np.Budget = core.CleanString(np.Budget)
	np.Contact = core.CleanString(np.Contact, true /* lower */)
	np.Location = core.CleanString(np.Location)
	return core.Validate.Struct(np)
}

// Response is a teacher's reply to a post; it becomes a regular Request.
type Response struct {
	Message  string       `json:"message" validate:"required"`
	Budget   null.Float64 `json:"budget"`
	Location null.String  `json:"location"`
}

func (r *Response) Validate() error {
	r.Message = core.CleanString(r.Message)
	return core.Validate.Struct(r)
}
