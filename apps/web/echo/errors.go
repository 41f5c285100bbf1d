package echoweb

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/classes"
	"github.com/trezcool/findtutor/core/post"
	"github.com/trezcool/findtutor/core/profile"
	"github.com/trezcool/findtutor/core/request"
	"github.com/trezcool/findtutor/core/user"
	"github.com/trezcool/findtutor/storage/apiclient"
)

// httpErrorHandler is a custom echo.HTTPErrorHandler that renders errors as
// pages or flash banners instead of JSON. signalShutdown is triggered
// whenever a core.shutdown error is caught.
func (s *server) httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		code := origErr.Code
		if origErr.Internal != nil {
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				code = herr.Code
			}
		}
		s.renderError(ctx, code, messageOf(origErr.Message))

	case validator.ValidationErrors:
		msgs := make([]string, 0, len(origErr))
		for _, vErr := range origErr {
			msgs = append(msgs, vErr.Field()+": "+vErr.Translate(core.Translator))
		}
		s.flashAndRedirectBack(ctx, flashDanger, strings.Join(msgs, "; "))

	case *core.ValidationError:
		if origErr.Fields != nil {
			msgs := make([]string, 0, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				msgs = append(msgs, fErr.Field+": "+fErr.Error)
			}
			s.flashAndRedirectBack(ctx, flashDanger, strings.Join(msgs, "; "))
		} else {
			s.flashAndRedirectBack(ctx, flashDanger, origErr.Error())
		}

	default:
		if code, msg, ok := knownError(err); ok {
			if code == http.StatusNotFound {
				s.renderError(ctx, code, msg)
			} else {
				s.flashAndRedirectBack(ctx, flashWarning, msg)
			}
			return
		}

		msg := http.StatusText(http.StatusInternalServerError)
		if usr, ok := s.getContextUser(ctx); ok {
			s.logger.Error(msg, errors.Wrap(err, msg), usr)
		} else {
			s.logger.Error(msg, errors.Wrap(err, msg))
		}

		// shutting down...
		if core.IsShutdown(err) {
			s.signalShutdown()
		}
		s.renderError(ctx, http.StatusInternalServerError, msg)
	}
}

// knownError maps domain and API errors to a status and a user-facing message.
func knownError(err error) (int, string, bool) {
	cause := errors.Cause(err)
	switch cause {
	case user.ErrNotFound:
		return http.StatusNotFound, "no account found for this email and role", true
	case profile.ErrNotFound:
		return http.StatusNotFound, cause.Error(), true
	case request.ErrNotFound, classes.ErrNotFound, post.ErrNotFound:
		return http.StatusNotFound, cause.Error(), true
	case profile.ErrNotResolved, request.ErrInvalidTransition,
		request.ErrInvalidFilter, classes.ErrNotOwner:
		return http.StatusConflict, cause.Error(), true
	}
	if apiclient.IsNotFound(err) {
		return http.StatusNotFound, "not found", true
	}
	if apiErr, ok := cause.(*apiclient.Error); ok && apiErr.StatusCode < 500 {
		return apiErr.StatusCode, apiErr.Message, true
	}
	return 0, "", false
}

func (s *server) renderError(ctx echo.Context, code int, msg string) {
	var err error
	if ctx.Request().Method == http.MethodHead { // Issue #608
		err = ctx.NoContent(code)
	} else {
		err = ctx.Render(code, "error", s.newViewData(ctx, echo.Map{
			"Code":    code,
			"Message": msg,
		}))
	}
	if err != nil {
		ctx.Echo().Logger.Error(err)
	}
}

func (s *server) flashAndRedirectBack(ctx echo.Context, level, msg string) {
	s.addFlash(ctx, level, msg)
	target := ctx.Request().Referer()
	if target == "" {
		target = "/"
	}
	if err := ctx.Redirect(http.StatusSeeOther, target); err != nil {
		ctx.Echo().Logger.Error(err)
	}
}

func messageOf(m interface{}) string {
	if s, ok := m.(string); ok {
		return s
	}
	return http.StatusText(http.StatusInternalServerError)
}
