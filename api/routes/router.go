package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smoralesdev/labtrack-backend/api/controllers"
	"github.com/smoralesdev/labtrack-backend/api/middleware"
	"github.com/smoralesdev/labtrack-backend/internal/auth"
	"github.com/smoralesdev/labtrack-backend/internal/events"
	"github.com/smoralesdev/labtrack-backend/internal/instruments"
	"github.com/smoralesdev/labtrack-backend/internal/reagents"
	"github.com/smoralesdev/labtrack-backend/internal/rooms"
	"github.com/smoralesdev/labtrack-backend/pkg/auth/session"
	"github.com/smoralesdev/labtrack-backend/pkg/config"
	"github.com/smoralesdev/labtrack-backend/pkg/db"
	"github.com/smoralesdev/labtrack-backend/pkg/enums"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
	"github.com/smoralesdev/labtrack-backend/pkg/metrics"
	"github.com/smoralesdev/labtrack-backend/pkg/redis"
)

// Services bundles the domain services the router exposes.
type Services struct {
	Auth        auth.Service
	Instruments instruments.Service
	Reagents    reagents.Service
	Rooms       rooms.Service
	Events      events.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Get("/ping", controllers.PublicPing())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessionChecker, logg)).
			Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Get("/ping", controllers.PrivatePing())

		supervisorOnly := middleware.RequireRole(logg, enums.StaffRoleAdmin, enums.StaffRoleDoctor)

		r.Route("/instruments", func(r chi.Router) {
			r.Get("/", controllers.InstrumentList(svcs.Instruments, logg))
			r.Post("/", controllers.InstrumentCreate(svcs.Instruments, logg))
			r.Get("/{instrumentId}", controllers.InstrumentGet(svcs.Instruments, logg))
			r.Put("/{instrumentId}", controllers.InstrumentUpdate(svcs.Instruments, logg))
			r.Delete("/{instrumentId}", controllers.InstrumentDelete(svcs.Instruments, logg))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.VendorList(svcs.Reagents, logg))
			r.Post("/", controllers.VendorCreate(svcs.Reagents, logg))
			r.Put("/{vendorId}", controllers.VendorUpdate(svcs.Reagents, logg))
			r.Delete("/{vendorId}", controllers.VendorDelete(svcs.Reagents, logg))
		})

		r.Route("/reagents", func(r chi.Router) {
			r.Get("/", controllers.ReagentList(svcs.Reagents, logg))
			r.Post("/", controllers.ReagentCreate(svcs.Reagents, logg))
			r.Get("/{reagentId}", controllers.ReagentGet(svcs.Reagents, logg))
			r.Put("/{reagentId}", controllers.ReagentUpdate(svcs.Reagents, logg))
			r.With(supervisorOnly).Delete("/{reagentId}", controllers.ReagentDelete(svcs.Reagents, logg))
		})

		r.Route("/supplies", func(r chi.Router) {
			r.Get("/", controllers.SupplyList(svcs.Reagents, logg))
			r.Post("/", controllers.SupplyCreate(svcs.Reagents, logg))
			r.Put("/{supplyId}", controllers.SupplyUpdate(svcs.Reagents, logg))
			r.Delete("/{supplyId}", controllers.SupplyDelete(svcs.Reagents, logg))
		})

		r.Route("/usages", func(r chi.Router) {
			r.Get("/", controllers.UsageList(svcs.Reagents, logg))
			r.Post("/", controllers.UsageCreate(svcs.Reagents, logg))
			r.Put("/{usageId}", controllers.UsageUpdate(svcs.Reagents, logg))
			r.Delete("/{usageId}", controllers.UsageDelete(svcs.Reagents, logg))
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", controllers.RoomList(svcs.Rooms, logg))
			r.Post("/", controllers.RoomCreate(svcs.Rooms, logg))
			r.Get("/{roomId}", controllers.RoomGet(svcs.Rooms, logg))
			r.Put("/{roomId}", controllers.RoomUpdate(svcs.Rooms, logg))
			r.With(supervisorOnly).Delete("/{roomId}", controllers.RoomDelete(svcs.Rooms, logg))

			r.Route("/{roomId}/patients", func(r chi.Router) {
				r.Get("/", controllers.RoomPatientList(svcs.Rooms, logg))
				r.Post("/", controllers.RoomPatientAdmit(svcs.Rooms, logg))
				r.Put("/{patientId}", controllers.RoomPatientUpdate(svcs.Rooms, logg))
				r.Delete("/{patientId}", controllers.RoomPatientDischarge(svcs.Rooms, logg))
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", controllers.EventList(svcs.Events, logg))
			r.Post("/", controllers.EventCreate(svcs.Events, logg))
		})
	})

	return r
}
