package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/findtutor/core/classes"
	"github.com/trezcool/findtutor/core/profile"
	"github.com/trezcool/findtutor/core/request"
)

type dashboardData struct {
	Profile  profile.Resolved
	Requests []request.Request
	Pending  int
	Classes  []classes.Class // teachers only
}

// dashboard is role-parameterized: one handler, one template, the role
// decides which panels render.
func (s *server) dashboard(ctx echo.Context) error {
	usr := ctxUser(ctx)
	reqCtx := ctx.Request().Context()

	res, err := s.profileSvc.ResolveOwn(reqCtx, usr)
	if err != nil {
		return err
	}
	data := dashboardData{Profile: res}

	// a synthesized profile has no id yet, nothing can reference it
	if !res.Profile.Synthesized {
		var filter request.QueryFilter
		if usr.IsTeacher() {
			filter.TeacherID = res.Profile.ID()
		} else {
			filter.StudentID = res.Profile.ID()
		}
		if data.Requests, err = s.requestSvc.Query(reqCtx, filter); err != nil {
			return err
		}
		for _, r := range data.Requests {
			if r.Status.IsActionable() {
				data.Pending++
			}
		}

		if usr.IsTeacher() {
			if data.Classes, err = s.classSvc.QueryByTeacher(reqCtx, res.Profile.ID()); err != nil {
				return err
			}
		}
	}
	return ctx.Render(http.StatusOK, "dashboard", s.newViewData(ctx, data))
}
