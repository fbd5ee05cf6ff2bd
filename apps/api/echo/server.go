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
	"go.uber.org/dig"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/core/user"
)

type (
	ServerDeps struct {
		dig.In

		Conf       *core.Config
		Logger     core.Logger
		UserSvc    *user.Service
		ReportSvc  *report.Service
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		jwt      middleware.JWTConfig
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		jwt:      newJWTConfig(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Logger.SetLevel(log.INFO)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestID())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: conf.Server.AllowOrigins}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	if conf.Server.StaticDir != "" {
		s.app.Static("/", conf.Server.StaticDir)
	} else {
		s.app.GET("/", s.home)
	}

	jwt := middleware.JWTWithConfig(s.jwt)

	registerUserAPI(s.app, s.deps.UserSvc, s.deps.Conf, s.deps.Validate)
	registerReportAPI(s.app, []echo.MiddlewareFunc{jwt, ownerMiddleware}, s.deps.ReportSvc, s.deps.Validate)
}

// Start listens on the configured address. Failures are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signalled
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}
