package server

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/unon-ymous/Pay-page/internal/metrics"
)

func (s *Server) handlePage(c echo.Context) error {
	rec := s.store.Get()

	data := map[string]any{
		"DisplayName":      rec.DisplayName,
		"Identifier":       rec.Identifier,
		"IdentifierValid":  rec.IdentifierValid,
		"CarouselImages":   rec.CarouselImages,
		"InstructionLines": rec.InstructionLines,
		"HasQR":            s.assets.Exists(),
		"PayLink":          payLink(rec.Identifier, rec.DisplayName),
	}

	// The record can change between requests, intermediaries must not cache.
	c.Response().Header().Set("Cache-Control", "no-store")
	metrics.PageRendersTotal.Inc()
	return renderTemplate(c, s.pageTemplate, data)
}

func (s *Server) handleQR(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-store")
	if !s.assets.Exists() {
		return c.File("web/static/qr-placeholder.svg")
	}
	return c.File(s.assets.Path())
}

// payLink builds the payment-app deep link offered when the identifier is
// valid. Typed template.URL because html/template would otherwise reject the
// upi:// scheme in href context.
func payLink(identifier, displayName string) template.URL {
	return template.URL(fmt.Sprintf("upi://pay?pa=%s&pn=%s",
		url.QueryEscape(identifier), url.QueryEscape(displayName)))
}

// renderTemplate renders a template to a buffer first to prevent partial HTML
// from being sent if template execution fails.
func renderTemplate(c echo.Context, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		return c.String(http.StatusInternalServerError, "Failed to render page")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
