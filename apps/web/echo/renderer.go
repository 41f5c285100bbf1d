package echoweb

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/user"
)

// viewData is what every page template receives.
type viewData struct {
	AppName string
	User    user.User
	Authed  bool
	Flashes []flash
	Data    interface{}
}

func (s *server) newViewData(ctx echo.Context, data interface{}) viewData {
	usr, ok := s.getContextUser(ctx)
	return viewData{
		AppName: s.conf.AppName,
		User:    usr,
		Authed:  ok,
		Flashes: s.popFlashes(ctx),
		Data:    data,
	}
}

// renderer parses each page once against the shared layout and serves
// them from a cache.
type renderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

var tmplFuncs = template.FuncMap{
	"money": func(f float64) string { return fmt.Sprintf("LKR %.0f", f) },
	"date":  func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"title": strings.Title,
}

func newRenderer(conf *core.Config) (*renderer, error) {
	rp := filepath.Join(conf.WorkDir, "assets", "templates", "web")
	layout := filepath.Join(rp, "_layout.gohtml")

	fps, err := filepath.Glob(filepath.Join(rp, "*.gohtml"))
	if err != nil {
		return nil, errors.Wrap(err, "globbing templates")
	}

	r := &renderer{templates: make(map[string]*template.Template, len(fps))}
	for _, fp := range fps {
		fname := filepath.Base(fp)
		if strings.HasPrefix(fname, "_") {
			continue
		}
		name := strings.TrimSuffix(fname, ".gohtml")
		tmpl, err := template.New("_layout.gohtml").Funcs(tmplFuncs).ParseFiles(layout, fp)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing template %s", fname)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return tmpl.Execute(w, data)
}
