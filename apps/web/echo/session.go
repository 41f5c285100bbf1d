package echoweb

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/user"
)

const (
	sessionName    = "findtutor_session"
	sessionUserKey = "user"
	flashKey       = "_flash"
)

// flash severities map to bootstrap alert classes
const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashWarning = "warning"
)

type flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func NewSessionStore(conf *core.Config) sessions.Store {
	store := sessions.NewCookieStore([]byte(conf.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !conf.Debug,
	}
	return store
}

func (s *server) session(ctx echo.Context) *sessions.Session {
	// CookieStore.Get only errors on a tampered cookie; a fresh session
	// is still returned so we fall through with it
	sess, _ := s.store.Get(ctx.Request(), sessionName)
	return sess
}

// getContextUser returns the signed-in user, if any.
func (s *server) getContextUser(ctx echo.Context) (user.User, bool) {
	sess := s.session(ctx)
	raw, ok := sess.Values[sessionUserKey].(string)
	if !ok || raw == "" {
		return user.User{}, false
	}
	var usr user.User
	if err := json.Unmarshal([]byte(raw), &usr); err != nil {
		return user.User{}, false
	}
	return usr, usr.ID > 0
}

func (s *server) saveContextUser(ctx echo.Context, usr user.User) error {
	raw, err := json.Marshal(usr)
	if err != nil {
		return err
	}
	sess := s.session(ctx)
	sess.Values[sessionUserKey] = string(raw)
	return sess.Save(ctx.Request(), ctx.Response())
}

func (s *server) clearSession(ctx echo.Context) error {
	sess := s.session(ctx)
	sess.Options.MaxAge = -1
	delete(sess.Values, sessionUserKey)
	return sess.Save(ctx.Request(), ctx.Response())
}

func (s *server) addFlash(ctx echo.Context, level, message string) {
	sess := s.session(ctx)
	raw, err := json.Marshal(flash{Level: level, Message: message})
	if err != nil {
		return
	}
	sess.AddFlash(string(raw), flashKey)
	_ = sess.Save(ctx.Request(), ctx.Response())
}

// popFlashes drains pending flash messages for rendering.
func (s *server) popFlashes(ctx echo.Context) []flash {
	sess := s.session(ctx)
	raws := sess.Flashes(flashKey)
	if len(raws) == 0 {
		return nil
	}
	_ = sess.Save(ctx.Request(), ctx.Response())

	flashes := make([]flash, 0, len(raws))
	for _, r := range raws {
		str, ok := r.(string)
		if !ok {
			continue
		}
		var f flash
		if err := json.Unmarshal([]byte(str), &f); err == nil {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
