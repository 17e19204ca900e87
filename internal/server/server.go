package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/unon-ymous/Pay-page/internal/asset"
	"github.com/unon-ymous/Pay-page/internal/config"
	"github.com/unon-ymous/Pay-page/internal/store"
)

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	store        *store.Store
	assets       *asset.Store
	clock        clockwork.Clock
	startTime    time.Time
	pageTemplate *template.Template
}

func NewServer(cfg *config.Config, st *store.Store, assets *asset.Store, clock clockwork.Clock) (*Server, error) {
	// Parse templates once at startup
	pageTmpl, err := template.ParseFiles("web/templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:         e,
		config:       cfg,
		store:        st,
		assets:       assets,
		clock:        clock,
		startTime:    clock.Now(),
		pageTemplate: pageTmpl,
	}

	// Register routes
	srv.registerRoutes()

	return srv, nil
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
