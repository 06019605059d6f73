package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/analytics"
	"github.com/eduverse/lms/core/assignment"
	"github.com/eduverse/lms/core/course"
	"github.com/eduverse/lms/core/live"
	"github.com/eduverse/lms/core/nav"
	"github.com/eduverse/lms/core/school"
	"github.com/eduverse/lms/core/user"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc       user.ServiceInterface
		SchoolSvc     *school.Service
		CourseSvc     *course.Service
		AssignmentSvc *assignment.Service
		LiveSvc       *live.Service
		AnalyticsSvc  *analytics.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		table    *nav.Table
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	table, err := nav.NewTable(nav.DefaultRoutes())
	if err != nil {
		deps.Logger.Fatal("building route table", err)
	}

	s := &server{
		deps:     deps,
		app:      echo.New(),
		table:    table,
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(sessionMiddleware(conf))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	registerNavAPI(s.app, s.table)
	registerScreens(s.app, s.table, &s.deps)

	v1 := s.app.Group("/v1")
	registerAuthAPI(v1, &s.deps)
	registerUserAPI(v1, &s.deps)
	registerSchoolAPI(v1, &s.deps)
	registerCourseAPI(v1, &s.deps)
	registerAssignmentAPI(v1, &s.deps)
	registerLiveAPI(v1, &s.deps)

	// any path outside the route table lands on the login route
	s.app.RouteNotFound("/*", func(ctx echo.Context) error {
		return ctx.Redirect(http.StatusSeeOther, nav.LoginPath)
	})
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Host); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
