// Package echoweb serves the findtutor web UI: server-rendered pages over
// the domain services, with all durable state behind the remote REST API.
package echoweb

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/findtutor/core"
	"github.com/trezcool/findtutor/core/classes"
	"github.com/trezcool/findtutor/core/post"
	"github.com/trezcool/findtutor/core/profile"
	"github.com/trezcool/findtutor/core/request"
	"github.com/trezcool/findtutor/core/search"
	"github.com/trezcool/findtutor/core/user"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		SessionStore   sessions.Store
		UserSvc        *user.Service
		ProfileSvc     *profile.Service
		RequestSvc     *request.Service
		ClassSvc       *classes.Service
		PostSvc        *post.Service
		SearchSvc      *search.Service
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		ShutdownSignal() <-chan os.Signal
		Errors() <-chan error
	}

	server struct {
		conf   *core.Config
		logger core.Logger
		store  sessions.Store

		userSvc    *user.Service
		profileSvc *profile.Service
		requestSvc *request.Service
		classSvc   *classes.Service
		postSvc    *post.Service
		searchSvc  *search.Service

		app      *echo.Echo
		shutdown chan os.Signal
		errs     chan error
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		conf:       deps.Conf,
		logger:     deps.Logger,
		store:      deps.SessionStore,
		userSvc:    deps.UserSvc,
		profileSvc: deps.ProfileSvc,
		requestSvc: deps.RequestSvc,
		classSvc:   deps.ClassSvc,
		postSvc:    deps.PostSvc,
		searchSvc:  deps.SearchSvc,
		app:        echo.New(),
		shutdown:   make(chan os.Signal, 1),
		errs:       make(chan error, 1),
	}
	s.setup(deps.DisableReqLogs)
	return s
}

func (s *server) setup(disableReqLogs bool) {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !disableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = s.httpErrorHandler
	s.app.Debug = s.conf.Debug
	s.app.HideBanner = true

	r, err := newRenderer(s.conf)
	if err != nil {
		s.logger.Fatal("parsing page templates: "+err.Error(), err)
	}
	s.app.Renderer = r

	s.app.GET("/", s.home)
	s.app.GET("/signin", s.signInPage)
	s.app.POST("/signin", s.signIn)
	s.app.POST("/signout", s.signOut)

	g := s.app.Group("", s.requireAuth)
	g.GET("/dashboard", s.dashboard)

	g.GET("/profile", s.ownProfilePage)
	g.POST("/profile", s.updateProfile)
	g.POST("/profile/picture", s.uploadProfilePicture)
	g.GET("/profiles/:id", s.profilePage)

	g.GET("/teachers", s.searchTeachers)
	g.POST("/teachers/refresh", s.refreshTeachers)

	g.GET("/requests", s.listRequests)
	g.POST("/requests", s.createRequest, s.requireRole(user.RoleStudent))
	g.POST("/requests/:id/accept", s.acceptRequest, s.requireRole(user.RoleTeacher))
	g.POST("/requests/:id/decline", s.declineRequest, s.requireRole(user.RoleTeacher))
	g.POST("/requests/:id/cancel", s.cancelRequest, s.requireRole(user.RoleStudent))

	cg := g.Group("/classes", s.requireRole(user.RoleTeacher))
	cg.GET("", s.listClasses)
	cg.POST("", s.createClass)
	cg.POST("/:id", s.updateClass)
	cg.POST("/:id/delete", s.deleteClass)

	g.GET("/posts", s.listPosts)
	g.POST("/posts", s.createPost, s.requireRole(user.RoleStudent))
	g.POST("/posts/:id/respond", s.respondToPost, s.requireRole(user.RoleTeacher))
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Address()); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }
func (s *server) Close() error                       { return s.app.Close() }
func (s *server) ShutdownSignal() <-chan os.Signal   { return s.shutdown }
func (s *server) Errors() <-chan error               { return s.errs }

// signalShutdown triggers a graceful shutdown from within a request.
func (s *server) signalShutdown() { s.shutdown <- syscall.SIGTERM }

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	if _, ok := s.getContextUser(ctx); ok {
		return ctx.Redirect(http.StatusSeeOther, "/dashboard")
	}
	return ctx.Redirect(http.StatusSeeOther, "/signin")
}
