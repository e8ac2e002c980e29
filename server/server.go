package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/jrsteele09/go-obras-server/auth"
	"github.com/jrsteele09/go-obras-server/directory"
	"github.com/jrsteele09/go-obras-server/internal/config"
	"github.com/jrsteele09/go-obras-server/sessions"
	"github.com/jrsteele09/go-obras-server/users"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the server cannot build from config alone.
type Deps struct {
	Users   users.Repo            // users collection in the document store
	Cookies *sessions.CookieStore // encrypted session cookie
}

type Server struct {
	env          string // Environment (e.g., "DEV", "PROD")
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	users        users.Repo
	loader       *directory.Loader
	auth         *auth.Service
	cookies      *sessions.CookieStore
	passwordMode users.PasswordMode
	cors         *cors.Cors
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Users == nil {
		return nil, fmt.Errorf("[Server New] users repo is required")
	}
	if deps.Cookies == nil {
		return nil, fmt.Errorf("[Server New] cookie store is required")
	}

	mode, err := users.ParsePasswordMode(cfg.GetPasswordMode())
	if err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	policy, err := directory.ParseDuplicatePolicy(cfg.GetDuplicatePolicy())
	if err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}

	loader := directory.NewLoader(deps.Users, policy)
	authService, err := auth.NewService(loader,
		auth.WithPasswordMode(mode),
		auth.WithSessionTTL(deps.Cookies.TTL()),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}

	s := &Server{
		env:          cfg.GetEnv(),
		mux:          http.NewServeMux(),
		config:       cfg,
		users:        deps.Users,
		loader:       loader,
		auth:         authService,
		cookies:      deps.Cookies,
		passwordMode: mode,
		cors:         newCors(cfg),
	}

	if cfg.GetBootstrapAdmin() {
		if err := s.InitialiseSystem(context.Background()); err != nil {
			return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
		}
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// newCors allows only the configured origins; an empty list allows none.
func newCors(cfg config.Config) *cors.Cors {
	origins := cfg.GetAllowedOrigins()
	return cors.New(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return origins.IsAllowedOrigin(origin) || origins.IsAllowedOrigin("*")
		},
		AllowedMethods:   cfg.GetAllowedMethods(),
		AllowedHeaders:   cfg.GetAllowedHeaders(),
		AllowCredentials: true,
		MaxAge:           86400,
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDev {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colourMethod(method), path, Red+error+ResetColor)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if colour, ok := methodColors[method]; ok {
		return colour + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
