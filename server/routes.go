package server

import (
	"net/http"

	"github.com/jrsteele09/homecare-session/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteTokenRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))

	// Collections: any role may read, only admins write
	registerCollection(s, RouteAppointments, s.records.Appointments)
	registerCollection(s, RouteNurses, s.records.Nurses)
	registerCollection(s, RoutePatients, s.records.Patients)
	registerCollection(s, RouteBillings, s.records.Billings)
	registerCollection(s, RouteReports, s.records.Reports)

	// Role views
	s.RegisterRouteHandler("GET "+RouteNursePatients, ChainMiddleware(s.NursePatientsHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin, users.RoleNurse))...))
	s.RegisterRouteHandler("GET "+RouteNurseReports, ChainMiddleware(s.NurseReportsHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin, users.RoleNurse))...))
	s.RegisterRouteHandler("GET "+RoutePatientReports, ChainMiddleware(s.PatientReportsHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RolePatient))...))
	s.RegisterRouteHandler("POST "+RouteCreateReport, ChainMiddleware(s.CreateReportHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin, users.RoleNurse))...))

	// Operational
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// CORS preflight for every path
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, s.APIMiddleware()...))
}
