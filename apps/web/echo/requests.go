package echoweb

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/request"
)

func (s *server) listRequests(ctx echo.Context) error {
	usr := ctxUser(ctx)
	reqCtx := ctx.Request().Context()

	profileID, err := s.profileSvc.ResolveOwnID(reqCtx, usr)
	if err != nil {
		return err
	}
	var filter request.QueryFilter
	if usr.IsTeacher() {
		filter.TeacherID = profileID
	} else {
		filter.StudentID = profileID
	}
	reqs, err := s.requestSvc.Query(reqCtx, filter)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "requests", s.newViewData(ctx, reqs))
}

// createRequest opens a pending request from the signed-in student to a
// teacher. The student's own profile id is resolved server-side; the form
// only names the teacher.
func (s *server) createRequest(ctx echo.Context) error {
	usr := ctxUser(ctx)
	reqCtx := ctx.Request().Context()

	studentID, err := s.profileSvc.ResolveOwnID(reqCtx, usr)
	if err != nil {
		return err
	}

	teacherID, err := strconv.Atoi(ctx.FormValue("teacher_id"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "teacher_id", Error: "must be a valid teacher"})
	}
	subjectID, err := strconv.Atoi(ctx.FormValue("subject_id"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "subject_id", Error: "must be a valid subject"})
	}

	nr := request.NewRequest{
		StudentID: studentID,
		TeacherID: teacherID,
		SubjectID: subjectID,
		Message:   ctx.FormValue("message"),
		Budget:    optFloatForm(ctx, "budget"),
		Location:  optStringForm(ctx, "location"),
		ClassID:   optIntForm(ctx, "class_id"),
	}
	if _, err = s.requestSvc.Create(reqCtx, nr); err != nil {
		return err
	}

	s.addFlash(ctx, flashSuccess, "Request sent. The teacher has been notified.")
	return ctx.Redirect(http.StatusSeeOther, "/requests")
}

func (s *server) acceptRequest(ctx echo.Context) error {
	return s.transitionRequest(ctx, s.requestSvc.Accept, "Request accepted.")
}

func (s *server) declineRequest(ctx echo.Context) error {
	return s.transitionRequest(ctx, s.requestSvc.Decline, "Request declined.")
}

func (s *server) cancelRequest(ctx echo.Context) error {
	return s.transitionRequest(ctx, s.requestSvc.Cancel, "Request cancelled.")
}

func (s *server) transitionRequest(
	ctx echo.Context,
	do func(ctx context.Context, id int) (request.Request, error),
	flashMsg string,
) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return request.ErrNotFound
	}
	if _, err = do(ctx.Request().Context(), id); err != nil {
		return err
	}
	s.addFlash(ctx, flashSuccess, flashMsg)
	return ctx.Redirect(http.StatusSeeOther, "/requests")
}

// optional form helpers; empty input stays null

func optFloatForm(ctx echo.Context, name string) null.Float64 {
	v := core.CleanString(ctx.FormValue(name))
	if v == "" {
		return null.Float64{}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return null.Float64{}
	}
	return null.Float64From(f)
}

func optIntForm(ctx echo.Context, name string) null.Int {
	v := core.CleanString(ctx.FormValue(name))
	if v == "" {
		return null.Int{}
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return null.Int{}
	}
	return null.IntFrom(i)
}

func optStringForm(ctx echo.Context, name string) null.String {
	v := core.CleanString(ctx.FormValue(name))
	return null.NewString(v, v != "")
}
