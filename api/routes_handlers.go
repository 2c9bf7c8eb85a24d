package api

import "crimedesk/api/handlers"

type routeHandlers struct {
	cases       *handlers.CasesHandler
	escalations *handlers.EscalationsHandler
	reminders   *handlers.RemindersHandler
	dashboard   *handlers.DashboardHandler
	crimeTypesH *handlers.CrimeTypesHandler
	usersH      *handlers.UsersHandler
	misc        *handlers.MiscHandler
}

func (s *Server) newRouteHandlers() routeHandlers {
	return routeHandlers{
		cases:       handlers.NewCasesHandler(s.crimes, s.users, s.stations, s.resolver, s.mailer, s.logger),
		escalations: handlers.NewEscalationsHandler(s.escalations, s.crimes, s.stations, s.resolver, s.logger),
		reminders:   handlers.NewRemindersHandler(s.reminders, s.crimes, s.stations, s.resolver, s.checker, s.logger),
		dashboard:   handlers.NewDashboardHandler(s.statsSvc, s.users, s.resolver, s.logger),
		crimeTypesH: handlers.NewCrimeTypesHandler(s.crimeTypes, s.logger),
		usersH:      handlers.NewUsersHandler(s.users, s.logger),
		misc:        handlers.NewMiscHandler(s.stations, s.users, s.logger),
	}
}
