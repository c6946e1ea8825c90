package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookDeliveries counts received webhook deliveries by resource and
	// outcome (ok, invalid_signature, duplicate, write_failed).
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopify_webhook_deliveries_total",
		Help: "Webhook deliveries received from Shopify",
	}, []string{"resource", "result"})

	// BackfillRuns counts backfill executions by outcome.
	BackfillRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopify_backfill_runs_total",
		Help: "Backfill runs by outcome",
	}, []string{"result"})

	// BackfillRecords counts records upserted during backfill by resource.
	BackfillRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopify_backfill_records_total",
		Help: "Records upserted into the document store during backfill",
	}, []string{"resource"})
)
