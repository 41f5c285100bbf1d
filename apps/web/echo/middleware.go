package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/findtutor/core/user"
)

const ctxUserKey = "ctxUser"

// ctxUser returns the user put in the context by requireAuth.
func ctxUser(ctx echo.Context) user.User {
	usr, _ := ctx.Get(ctxUserKey).(user.User)
	return usr
}

// requireAuth redirects anonymous visitors to the sign-in page and puts the
// session user in the request context for handlers downstream.
func (s *server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		usr, ok := s.getContextUser(ctx)
		if !ok {
			s.addFlash(ctx, flashWarning, "Please sign in first.")
			return ctx.Redirect(http.StatusSeeOther, "/signin")
		}
		ctx.Set(ctxUserKey, usr)
		return next(ctx)
	}
}

// requireRole guards role-specific actions; the role is fixed per account.
func (s *server) requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if usr := ctxUser(ctx); usr.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "this action is for "+role+"s only")
			}
			return next(ctx)
		}
	}
}
