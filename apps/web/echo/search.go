package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/findtutor/core/profile"
	"github.com/trezcool/findtutor/core/search"
)

type searchData struct {
	Query    search.Query
	Teachers []profile.Teacher
}

func (s *server) searchTeachers(ctx echo.Context) error {
	q := new(search.Query)
	if err := ctx.Bind(q); err != nil {
		return err
	}
	teachers, err := s.searchSvc.Search(ctx.Request().Context(), *q)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "teachers", s.newViewData(ctx, searchData{
		Query:    *q,
		Teachers: teachers,
	}))
}

func (s *server) refreshTeachers(ctx echo.Context) error {
	s.searchSvc.Refresh()
	return ctx.Redirect(http.StatusSeeOther, "/teachers")
}
