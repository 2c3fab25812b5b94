package server

import "github.com/jrsteele09/homecare-session/resources"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin    = "/auth/login/{role}/"
	RouteTokenRefresh = "/auth/token/refresh/"

	// Collection Routes
	RouteAppointments = resources.PathAppointments
	RouteNurses       = resources.PathNurses
	RoutePatients     = resources.PathPatients
	RouteBillings     = resources.PathBillings
	RouteReports      = resources.PathReports

	// Role view Routes
	RouteNursePatients  = "/nurses/{id}/patients/"
	RouteNurseReports   = "/nurses/{id}/reports/"
	RoutePatientReports = resources.PathPatientReports
	RouteCreateReport   = resources.PathCreateReport

	// Operational Routes
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)
