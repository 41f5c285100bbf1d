package classes

import (
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findtutor/core"
)

// Class is a teacher-owned class listing. It is created, edited and
// deleted only by its owning teacher.
type Class struct {
	ID          int          `json:"id"`
	TeacherID   int          `json:"teacher_id"`
	Title       string       `json:"title"`
	SubjectID   int          `json:"subject_id"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Location    string       `json:"location"`
	Lat         null.Float64 `json:"lat"`
	Lng         null.Float64 `json:"lng"`
	IsOnline    bool         `json:"is_online"`
}

// ClassInput carries class form data for both create and update. Numeric
// fields arrive as form strings and are coerced before any write.
type ClassInput struct {
	Title       string `json:"title" form:"title" validate:"required"`
	SubjectID   string `json:"subject_id" form:"subject_id" validate:"required"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price" validate:"required"`
	Location    string `json:"location" form:"location" validate:"required"`
	Lat         string `json:"lat" form:"lat"`
	Lng         string `json:"lng" form:"lng"`
	IsOnline    bool   `json:"is_online" form:"is_online"`

	subjectID int
	price     float64
	lat, lng  null.Float64
}

func (ci *ClassInput) Validate() error {
	ci.Title = core.CleanString(ci.Title)
	ci.Description = core.CleanString(ci.Description)
	ci.Location = core.CleanString(ci.Location)

	if err := core.Validate.Struct(ci); err != nil {
		return err
	}

	var flds []core.FieldError
	subjectID, err := strconv.Atoi(core.CleanString(ci.SubjectID))
	if err != nil || subjectID <= 0 {
		flds = append(flds, core.FieldError{Field: "subject_id", Error: "must be a valid subject"})
	}
	price, err := strconv.ParseFloat(core.CleanString(ci.Price), 64)
	if err != nil || price < 0 {
		flds = append(flds, core.FieldError{Field: "price", Error: "must be a valid price"})
	}
	lat, err := parseOptFloat(ci.Lat)
	if err != nil {
		flds = append(flds, core.FieldError{Field: "lat", Error: "must be a valid latitude"})
	}
	lng, err := parseOptFloat(ci.Lng)
	if err != nil {
		flds = append(flds, core.FieldError{Field: "lng", Error: "must be a valid longitude"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}

	ci.subjectID = subjectID
	ci.price = price
	ci.lat = lat
	ci.lng = lng
	return nil
}

// apply copies coerced input onto a Class; Validate must have run.
func (ci *ClassInput) apply(c *Class) {
	c.Title = ci.Title
	c.SubjectID = ci.subjectID
	c.Description = ci.Description
	c.Price = ci.price
	c.Location = ci.Location
	c.Lat = ci.lat
	c.Lng = ci.lng
	c.IsOnline = ci.IsOnline
}

func parseOptFloat(s string) (null.Float64, error) {
	s = core.CleanString(s)
	if s == "" {
		return null.Float64{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float64{}, err
	}
	return null.Float64From(f), nil
}
