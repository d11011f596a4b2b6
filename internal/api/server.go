// Package api is the HTTP surface over the organizer service. Handlers do
// no work of their own: they decode, call the service and map errors to
// status codes.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"organizer/internal/config"
	"organizer/internal/logging"
	"organizer/internal/organizer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server owns the router and the listener.
type Server struct {
	svc    *organizer.Service
	cfg    config.ServerConfig
	router *gin.Engine
}

// New builds the router for svc.
func New(svc *organizer.Service, cfg config.ServerConfig) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{svc: svc, cfg: cfg, router: gin.New()}
	s.router.Use(gin.Recovery(), requestContext(), observe())
	if cfg.Debug {
		s.router.Use(gin.Logger())
	}
	s.routes()
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	log := logging.Get(logging.CategoryAPI)
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", s.cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
