package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/findtutor/core/classes"
)

func (s *server) listClasses(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	teacherID, err := s.profileSvc.ResolveOwnID(reqCtx, ctxUser(ctx))
	if err != nil {
		return err
	}
	cls, err := s.classSvc.QueryByTeacher(reqCtx, teacherID)
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "classes", s.newViewData(ctx, cls))
}

func (s *server) createClass(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	teacherID, err := s.profileSvc.ResolveOwnID(reqCtx, ctxUser(ctx))
	if err != nil {
		return err
	}
	data := new(classes.ClassInput)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if _, err = s.classSvc.Create(reqCtx, teacherID, *data); err != nil {
		return err
	}
	s.addFlash(ctx, flashSuccess, "Class created.")
	return ctx.Redirect(http.StatusSeeOther, "/classes")
}

func (s *server) updateClass(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return classes.ErrNotFound
	}
	reqCtx := ctx.Request().Context()
	teacherID, err := s.profileSvc.ResolveOwnID(reqCtx, ctxUser(ctx))
	if err != nil {
		return err
	}
	data := new(classes.ClassInput)
	if err = ctx.Bind(data); err != nil {
		return err
	}
	if _, err = s.classSvc.Update(reqCtx, teacherID, id, *data); err != nil {
		return err
	}
	s.addFlash(ctx, flashSuccess, "Class updated.")
	return ctx.Redirect(http.StatusSeeOther, "/classes")
}

func (s *server) deleteClass(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return classes.ErrNotFound
	}
	reqCtx := ctx.Request().Context()
	teacherID, err := s.profileSvc.ResolveOwnID(reqCtx, ctxUser(ctx))
	if err != nil {
		return err
	}
	if err = s.classSvc.Delete(reqCtx, teacherID, id); err != nil {
		return err
	}
	s.addFlash(ctx, flashSuccess, "Class deleted.")
	return ctx.Redirect(http.StatusSeeOther, "/classes")
}
