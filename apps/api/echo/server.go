package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/academics"
	"github.com/escoladigital/secretaria/core/calendar"
	"github.com/escoladigital/secretaria/core/conduct"
	"github.com/escoladigital/secretaria/core/facility"
	"github.com/escoladigital/secretaria/core/library"
	"github.com/escoladigital/secretaria/core/planner"
	"github.com/escoladigital/secretaria/core/roster"
	"github.com/escoladigital/secretaria/core/staff"
	"github.com/escoladigital/secretaria/core/user"
)

type (
	// Deps carries everything the API server needs.
	Deps struct {
		UserSvc      *user.Service
		RosterSvc    *roster.Service
		StaffSvc     *staff.Service
		FacilitySvc  *facility.Service
		LibrarySvc   *library.Service
		ConductSvc   *conduct.Service
		AcademicsSvc *academics.Service
		PlannerSvc   *planner.Service
		CalendarSvc  *calendar.Service
	}

	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts   *Options
		deps   *Deps
		tokens tokenManager
		app    *echo.Echo

		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options, deps *Deps) Server {
	s := &server{
		opts:     opts,
		deps:     deps,
		tokens:   tokenManager{conf: opts.Conf},
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", s.home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(s.tokens.jwtConfig())

	s.registerAuthAPI(api, jwt)
	s.registerRosterAPI(api, jwt)
	s.registerStaffAPI(api, jwt)
	s.registerFacilityAPI(api, jwt)
	s.registerLibraryAPI(api, jwt)
	s.registerConductAPI(api, jwt)
	s.registerAcademicsAPI(api, jwt)
	s.registerPlannerAPI(api, jwt)
	s.registerCalendarAPI(api, jwt)
}

func (s *server) Start() error {
	errc := make(chan error, 1)
	go func() { errc <- s.app.Start(s.opts.Conf.Server.Address()) }()

	select {
	case err := <-errc:
		return err
	case <-s.shutdown:
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.Conf.Server.ShutdownTimeout)
		defer cancel()
		return s.Stop(ctx)
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// signalShutdown triggers a graceful stop from the error handler.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Bem-vindo à API da Secretaria Escolar!")
}
