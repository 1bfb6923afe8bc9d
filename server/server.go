// Package server assembles the compile service's HTTP API: configuration,
// persistence, auth middleware, and routing.
package server

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ziolkown/cb-5/server/api"
	"github.com/ziolkown/cb-5/server/dao"
	mw "github.com/ziolkown/cb-5/server/middle"
)

// Server is the compile service's HTTP front end.
type Server struct {
	router chi.Router
	db     dao.Store
}

// New builds a Server from cfg, connecting to its configured persistence
// layer. Call cfg.FillDefaults() first if cfg may have zero-valued fields.
func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	a := api.API{
		Store:             db,
		Secret:            cfg.TokenSecret,
		AdminUser:         cfg.AdminUser,
		AdminPasswordHash: cfg.AdminPasswordHash,
		UnauthDelay:       cfg.UnauthDelay(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(mw.DontPanic())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Post("/login", a.HTTPCreateLogin())

		r.Group(func(r chi.Router) {
			r.Use(mw.OptionalAuth(cfg.TokenSecret, cfg.UnauthDelay()))
			r.Get("/info", a.HTTPGetInfo())
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAuth(cfg.TokenSecret, cfg.UnauthDelay()))
			r.Post("/compile", a.HTTPCreateCompile())
			r.Get("/compile/{jobID}", a.HTTPGetCompile())
		})
	})

	return &Server{router: r, db: db}, nil
}

// Handler returns the Server's http.Handler, suitable for http.ListenAndServe
// or as a test target.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server on addr, blocking until ctx is
// cancelled or the server errors.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("compile service listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Close releases the Server's persistence layer.
func (s *Server) Close() error {
	return s.db.Close()
}
