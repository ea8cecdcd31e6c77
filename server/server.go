// Package server assembles the ltsd HTTP server: it connects a persistence
// store, wires the API's chi router with authentication middleware, and
// exposes Server for starting and stopping the listener.
package server

import (
	"context"
	"net/http"

	"github.com/dekarrin/ltsc/server/api"
	"github.com/dekarrin/ltsc/server/dao"
	"github.com/dekarrin/ltsc/server/middle"
	"github.com/dekarrin/ltsc/server/tunas"
	"github.com/go-chi/chi/v5"
)

// Server is a running (or ready-to-run) ltsd server. Create one with New.
type Server struct {
	db  dao.Store
	srv *http.Server
}

// New creates a Server from cfg. It connects to the configured persistence
// store and assembles the full routing tree, but does not start listening;
// call ListenAndServe for that.
func New(cfg Config, addr string) (*Server, error) {
	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	backend := api.API{
		Backend:     tunas.Service{DB: db},
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	router := chi.NewRouter()
	router.Use(middle.DontPanic())

	router.Route(api.PathPrefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middle.OptionalAuth(db.Users(), backend.Secret, backend.UnauthDelay, dao.User{}))
			r.Get("/info", backend.HTTPGetInfo())
			r.Post("/login", backend.HTTPCreateLogin())
		})

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(db.Users(), backend.Secret, backend.UnauthDelay, dao.User{}))

			r.Delete("/login/{id}", backend.HTTPDeleteLogin())
			r.Post("/tokens", backend.HTTPCreateToken())

			r.Get("/users", backend.HTTPGetAllUsers())
			r.Post("/users", backend.HTTPCreateUser())
			r.Get("/users/{id}", backend.HTTPGetUser())
			r.Patch("/users/{id}", backend.HTTPUpdateUser())
			r.Put("/users/{id}", backend.HTTPReplaceUser())
			r.Delete("/users/{id}", backend.HTTPDeleteUser())

			r.Post("/compiles", backend.HTTPCreateCompile())
			r.Get("/compiles", backend.HTTPGetAllCompiles())
			r.Get("/compiles/{id}", backend.HTTPGetCompile())
			r.Delete("/compiles/{id}", backend.HTTPDeleteCompile())
		})
	})

	return &Server{
		db:  db,
		srv: &http.Server{Addr: addr, Handler: router},
	}, nil
}

// Store returns the persistence store the server was connected to in New.
func (s *Server) Store() dao.Store {
	return s.db
}

// ListenAndServe starts the server and blocks until it is shut down or an
// error occurs.
func (s *Server) ListenAndServe() error {
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server and closes its persistence store.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}
