// Package metrics provides Prometheus metrics for the Dahlia service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CascadeDeletes tracks cascade delete operations by entity kind
	CascadeDeletes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "catalog",
			Name:      "cascade_deletes_total",
			Help:      "Total number of cascade delete operations by entity kind",
		},
		[]string{"entity_kind"},
	)

	// BulkItems tracks bulk operation items by policy and outcome
	BulkItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "catalog",
			Name:      "bulk_items_total",
			Help:      "Total number of bulk operation items by policy and outcome",
		},
		[]string{"policy", "outcome"},
	)

	// AuditRecordsWritten tracks audit records persisted by the recorder
	AuditRecordsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "audit",
			Name:      "records_written_total",
			Help:      "Total number of audit records persisted",
		},
	)

	// AuditRecordsDropped tracks audit records dropped by reason
	AuditRecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "audit",
			Name:      "records_dropped_total",
			Help:      "Total number of audit records dropped by reason",
		},
		[]string{"reason"},
	)

	// AuditRecordsExpired tracks audit records removed by the retention sweeper
	AuditRecordsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "audit",
			Name:      "records_expired_total",
			Help:      "Total number of expired audit records removed",
		},
	)

	// KafkaMessagesPublished tracks Kafka messages published
	KafkaMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dahlia",
			Subsystem: "kafka",
			Name:      "messages_published_total",
			Help:      "Total number of messages published to Kafka",
		},
		[]string{"topic", "status"},
	)
)
