package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"crimedesk/config"
	"crimedesk/core/notify"
	"crimedesk/core/rbac"
	"crimedesk/core/remind"
	"crimedesk/core/scope"
	"crimedesk/core/stats"
	"crimedesk/core/store"
	"crimedesk/core/utils"
)

// Server owns the router, the stores, and the middleware chain.
type Server struct {
	cfg      *config.AppConfig
	logger   *utils.Logger
	policy   *rbac.Policy
	resolver *scope.Resolver

	users       store.UsersStore
	stations    store.StationsStore
	crimes      store.CrimesStore
	escalations store.EscalationsStore
	reminders   store.RemindersStore
	crimeTypes  store.CrimeTypesStore

	statsSvc *stats.Service
	checker  *remind.Checker
	mailer   notify.Mailer

	router chi.Router
}

type Deps struct {
	Config      *config.AppConfig
	Logger      *utils.Logger
	Policy      *rbac.Policy
	Resolver    *scope.Resolver
	Users       store.UsersStore
	Stations    store.StationsStore
	Crimes      store.CrimesStore
	Escalations store.EscalationsStore
	Reminders   store.RemindersStore
	CrimeTypes  store.CrimeTypesStore
	Stats       *stats.Service
	Checker     *remind.Checker
	Mailer      notify.Mailer
}

func NewServer(d Deps) *Server {
	s := &Server{
		cfg:         d.Config,
		logger:      d.Logger,
		policy:      d.Policy,
		resolver:    d.Resolver,
		users:       d.Users,
		stations:    d.Stations,
		crimes:      d.Crimes,
		escalations: d.Escalations,
		reminders:   d.Reminders,
		crimeTypes:  d.CrimeTypes,
		statsSvc:    d.Stats,
		checker:     d.Checker,
		mailer:      d.Mailer,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	h := s.newRouteHandlers()

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.jsonMiddleware)
	r.Use(s.loggingMiddleware)

	scoped := func(perm rbac.Permission, next http.HandlerFunc) http.HandlerFunc {
		return s.withIdentity(s.requirePermission(perm)(next))
	}

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.MethodFunc("GET", "/healthz", h.misc.Health)

		apiRouter.MethodFunc("GET", "/cases", scoped(rbac.PermCasesView, h.cases.List))
		apiRouter.MethodFunc("POST", "/cases", h.cases.Create)
		apiRouter.MethodFunc("GET", "/cases/{id:[0-9]+}", scoped(rbac.PermCasesView, h.cases.Get))

		apiRouter.MethodFunc("GET", "/escalations", scoped(rbac.PermEscalationsView, h.escalations.List))
		apiRouter.MethodFunc("POST", "/escalations", h.escalations.Create)
		apiRouter.MethodFunc("GET", "/escalations/filters", scoped(rbac.PermEscalationsView, h.misc.Filters))

		apiRouter.MethodFunc("GET", "/reminders", scoped(rbac.PermRemindersView, h.reminders.List))
		apiRouter.MethodFunc("POST", "/reminders", h.reminders.Create)
		apiRouter.MethodFunc("GET", "/reminders/filters", scoped(rbac.PermRemindersView, h.misc.Filters))
		apiRouter.MethodFunc("POST", "/reminders/check", h.reminders.Check)

		apiRouter.MethodFunc("GET", "/dashboard-stats", scoped(rbac.PermStatsView, h.dashboard.Stats))
		apiRouter.MethodFunc("GET", "/acp-performance", h.dashboard.ACPPerformance)

		apiRouter.MethodFunc("GET", "/crime-types", h.crimeTypesH.List)
		apiRouter.MethodFunc("POST", "/crime-types", h.crimeTypesH.Create)

		apiRouter.MethodFunc("GET", "/users", h.usersH.List)
		apiRouter.MethodFunc("POST", "/users", h.usersH.Create)
	})
	return r
}
