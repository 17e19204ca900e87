package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Page Metrics
var (
	// PageRendersTotal tracks payment page renders
	PageRendersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "page_renders_total",
			Help: "Total payment page renders",
		},
	)
)

// Chat Metrics
var (
	// ChatUpdatesTotal tracks inbound chat updates by result
	ChatUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_updates_total",
			Help: "Total inbound chat updates by result (processed/unauthorized/ignored/error)",
		},
		[]string{"result"},
	)

	// ChatRepliesTotal tracks outbound replies by status
	ChatRepliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Total outbound chat replies by status (ok/error)",
		},
		[]string{"status"},
	)

	// ImageFetchFailures tracks failed QR image downloads
	ImageFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_fetch_failures_total",
			Help: "Total failed QR image downloads from the chat transport",
		},
	)
)

// Store Metrics
var (
	// StoreSavesTotal tracks config record writes by status
	StoreSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_saves_total",
			Help: "Total config record file writes by status (ok/error)",
		},
		[]string{"status"},
	)

	// AssetOpsTotal tracks QR asset operations by op
	AssetOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_operations_total",
			Help: "Total QR asset operations by op (put/remove)",
		},
		[]string{"op"},
	)
)
