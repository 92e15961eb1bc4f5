package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storegate/auth-server/auth"
	"github.com/storegate/auth-server/internal/config"
	"github.com/storegate/auth-server/products"
	"github.com/storegate/auth-server/roles"
	"github.com/storegate/auth-server/token"
	"github.com/storegate/auth-server/users"
)

// Deps holds the collaborators the server routes against.
type Deps struct {
	Authenticator *auth.Authenticator
	Gates         *auth.Gates
	Codec         *token.Codec
	Resolver      *roles.Resolver
	Users         users.UserRepo
	Products      products.Repo
}

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config
	deps   Deps
	log    zerolog.Logger
}

func New(cfg config.Config, deps Deps, log zerolog.Logger) (*Server, error) {
	if deps.Authenticator == nil {
		return nil, fmt.Errorf("[Server New] authenticator is required")
	}
	if deps.Gates == nil {
		return nil, fmt.Errorf("[Server New] gates are required")
	}
	if deps.Codec == nil {
		return nil, fmt.Errorf("[Server New] token codec is required")
	}
	if deps.Resolver == nil {
		return nil, fmt.Errorf("[Server New] role resolver is required")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("[Server New] user repo is required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("[Server New] product repo is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		deps:   deps,
		log:    log,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	s.log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
