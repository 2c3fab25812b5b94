package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/homecare-session/internal/config"
	"github.com/jrsteele09/homecare-session/internal/metrics"
	"github.com/jrsteele09/homecare-session/resources"
	"github.com/jrsteele09/homecare-session/server/recordrepo"
	"github.com/jrsteele09/homecare-session/token"
	"github.com/jrsteele09/homecare-session/token/refresh"
	"github.com/jrsteele09/homecare-session/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

// Repos holds all repository dependencies for the Server
type Repos struct {
	Users         users.UserRepo // Accounts that can log in
	RefreshTokens refresh.Repo   // Issued refresh tokens
}

// Records holds the in-memory tables behind the CRUD collections
type Records struct {
	Appointments recordrepo.Repo[resources.Appointment]
	Nurses       recordrepo.Repo[resources.Nurse]
	Patients     recordrepo.Repo[resources.Patient]
	Billings     recordrepo.Repo[resources.Billing]
	Reports      recordrepo.Repo[resources.Report]
}

// Server is the development implementation of the home-care API
type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	repos    Repos
	records  Records
	tokens   *token.Manager
	registry *prometheus.Registry
	metrics  *metrics.APIMetrics
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithRecords replaces the default in-memory record tables
func WithRecords(records Records) ServerOption {
	return func(s *Server) {
		s.records = records
	}
}

func New(cfg config.Config, repos Repos, options ...ServerOption) (*Server, error) {
	if repos.Users == nil {
		return nil, errors.New("[Server New] Users repo is required")
	}
	if repos.RefreshTokens == nil {
		return nil, errors.New("[Server New] RefreshTokens repo is required")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		repos:    repos,
		tokens:   token.NewManager(cfg, repos.Users, repos.RefreshTokens),
		registry: registry,
		metrics:  metrics.NewAPIMetrics(registry),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.records.Appointments == nil {
		s.records = s.newInMemoryRecords()
	}

	if err := s.SeedAccounts(context.Background(), cfg.GetSeedAccounts()); err != nil {
		return nil, fmt.Errorf("[Server New] failed to seed accounts: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Tokens exposes the token manager, mainly so tests can mint tokens for seeded users
func (s *Server) Tokens() *token.Manager {
	return s.tokens
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Debug().Msgf("[%s] %s", colourMethod(method), path)
	}
}
