package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/findtutor/core/user"
)

func (s *server) signInPage(ctx echo.Context) error {
	if _, ok := s.getContextUser(ctx); ok {
		return ctx.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return ctx.Render(http.StatusOK, "signin", s.newViewData(ctx, nil))
}

func (s *server) signIn(ctx echo.Context) error {
	data := new(user.SignIn)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	usr, err := s.userSvc.SignIn(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	if err = s.saveContextUser(ctx, usr); err != nil {
		return err
	}
	s.addFlash(ctx, flashSuccess, "Welcome back, "+usr.Name+"!")
	return ctx.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *server) signOut(ctx echo.Context) error {
	if err := s.clearSession(ctx); err != nil {
		return err
	}
	// per-user caches do not survive the session
	s.profileSvc.Invalidate()
	return ctx.Redirect(http.StatusSeeOther, "/signin")
}
