package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/rogerbox/rogerbox/internal/app"
	"github.com/rogerbox/rogerbox/internal/auth"
	"github.com/rogerbox/rogerbox/internal/ports"
	"github.com/rogerbox/rogerbox/internal/telemetry"
)

// Services regroupe les cas d'usage exposés par l'API. Un champ nil désactive ses routes.
type Services struct {
	Auth        *app.AuthService
	Profile     *app.ProfileService
	Courses     *app.CourseService
	Progress    *app.ProgressService
	Weights     *app.WeightService
	Complements *app.ComplementService
	Daily       *app.DailyContentScheduler
	Banners     *app.BannerService
	Stats       *app.StatsService
	Uploads     *app.UploadService
}

type Server struct {
	logger  zerolog.Logger
	svc     Services
	issuer  *auth.Issuer
	policy  app.AuthorizationPolicy
	bus     ports.EventBus
	metrics *telemetry.Metrics
}

func NewServer(logger zerolog.Logger, svc Services, issuer *auth.Issuer, policy app.AuthorizationPolicy, bus ports.EventBus, metrics *telemetry.Metrics) *Server {
	return &Server{logger: logger, svc: svc, issuer: issuer, policy: policy, bus: bus, metrics: metrics}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/openapi.json", s.handleOpenAPI)

		// Le flux SSE reste ouvert : pas de timeout de requête dessus.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(defaultRequestTimeout))

			if s.svc.Auth != nil {
				NewAuthHandler(s.svc.Auth).Routes(r)
			}

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(s.issuer))
				s.memberRoutes(r)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Middleware(s.issuer))
			r.Use(RequireAdmin(s.policy))
			r.Get("/events", s.handleEvents)
			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(defaultRequestTimeout))
				s.adminRoutes(r)
			})
		})
	})

	return r
}

func (s *Server) memberRoutes(r chi.Router) {
	NewMeHandler(s.svc.Profile, s.svc.Progress, s.svc.Weights).Routes(r)
	if s.svc.Courses != nil {
		NewCoursesHandler(s.svc.Courses, s.svc.Progress, s.policy).Routes(r)
	}
	if s.svc.Progress != nil {
		NewLessonsHandler(s.svc.Progress).Routes(r)
	}
	if s.svc.Daily != nil {
		NewTodayHandler(s.svc.Daily).Routes(r)
	}
	if s.svc.Banners != nil {
		NewBannersHandler(s.svc.Banners).Routes(r)
	}
}

func (s *Server) adminRoutes(r chi.Router) {
	if s.svc.Complements != nil {
		NewComplementsAdminHandler(s.svc.Complements, s.svc.Daily).Routes(r)
	}
	if s.svc.Courses != nil {
		NewCoursesHandler(s.svc.Courses, s.svc.Progress, s.policy).AdminRoutes(r)
	}
	if s.svc.Banners != nil {
		NewBannersHandler(s.svc.Banners).AdminRoutes(r)
	}
	NewBackOfficeHandler(s.svc.Stats, s.svc.Uploads).Routes(r)
}
