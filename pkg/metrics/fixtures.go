package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fixture generation and delivery metrics
var (
	FixturesGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fixtures_generated_total",
		Help: "Total number of fake records generated",
	}, []string{"kind"}) // "contact", "conversation", "member", "interaction"

	FixturesSkippedConversationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixtures_skipped_conversations_total",
		Help: "Total number of multi-member conversations skipped for having no members",
	})

	FixturesBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fixtures_batch_duration_seconds",
		Help:    "Time taken by batch operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"step"}) // "generate", "persist", "cache", "snapshot"

	FixturesNotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fixtures_notifications_total",
		Help: "Total number of push payloads processed",
	}, []string{"outcome"}) // "shown", "suppressed"

	FixturesWebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fixtures_ws_clients",
		Help: "Current number of connected notification feed clients",
	})
)

const (
	KindContact      = "contact"
	KindConversation = "conversation"
	KindMember       = "member"
	KindInteraction  = "interaction"
)
