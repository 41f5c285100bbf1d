package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/findtutor/core/profile"
)

func (s *server) ownProfilePage(ctx echo.Context) error {
	res, err := s.profileSvc.ResolveOwn(ctx.Request().Context(), ctxUser(ctx))
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "profile_edit", s.newViewData(ctx, res))
}

func (s *server) updateProfile(ctx echo.Context) error {
	usr := ctxUser(ctx)
	reqCtx := ctx.Request().Context()

	if usr.IsTeacher() {
		data := new(profile.UpdateTeacher)
		if err := ctx.Bind(data); err != nil {
			return err
		}
		if _, err := s.profileSvc.UpdateOwnTeacher(reqCtx, usr, *data); err != nil {
			return err
		}
	} else {
		data := new(profile.UpdateStudent)
		if err := ctx.Bind(data); err != nil {
			return err
		}
		if _, err := s.profileSvc.UpdateOwnStudent(reqCtx, usr, *data); err != nil {
			return err
		}
	}

	s.addFlash(ctx, flashSuccess, "Profile saved.")
	return ctx.Redirect(http.StatusSeeOther, "/profile")
}

func (s *server) uploadProfilePicture(ctx echo.Context) error {
	usr := ctxUser(ctx)

	fh, err := ctx.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "an image file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	url, err := s.profileSvc.SetProfilePicture(ctx.Request().Context(), usr, fh.Filename, f)
	if err != nil {
		return err
	}

	// keep the session identity in sync with the new picture
	usr.ProfilePicture = url
	if err = s.saveContextUser(ctx, usr); err != nil {
		return err
	}

	s.addFlash(ctx, flashSuccess, "Profile picture updated.")
	return ctx.Redirect(http.StatusSeeOther, "/profile")
}

func (s *server) profilePage(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return profile.ErrNotFound
	}
	res, err := s.profileSvc.Resolve(ctx.Request().Context(), id, ctxUser(ctx))
	if err != nil {
		return err
	}
	return ctx.Render(http.StatusOK, "profile", s.newViewData(ctx, res))
}
