// Package server implements the HTTP server using Echo framework.
//
// Routes: the payment page (no-store), the QR asset, a static mount, health
// endpoints and /metrics. The page path is pure read + format: it never
// mutates anything and stays up even when the chat component is down.
package server
