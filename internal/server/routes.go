package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Payment page (dynamic, never cached)
	s.echo.GET("/", s.handlePage)

	// QR asset is mutable, so it is served no-store; the rest of the static
	// files go through Echo's static mount.
	s.echo.GET("/qr.png", s.handleQR)
	s.echo.Static("/static", "web/static")
}
