package services

import "github.com/prometheus/client_golang/prometheus"

var (
	achievementUnlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievement_tiers_unlocked_total",
			Help: "Achievement tiers unlocked during reconciliation",
		},
		[]string{"type"},
	)

	achievementRevocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievement_tiers_revoked_total",
			Help: "Achievement tiers revoked during reconciliation",
		},
		[]string{"type"},
	)

	reconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "achievement_reconcile_duration_seconds",
			Help:    "Time spent loading activity and reconciling achievements",
			Buckets: prometheus.DefBuckets,
		},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Outgoing emails by result",
		},
		[]string{"result"},
	)

	onlineUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "presence_online_users",
			Help: "Distinct users connected to the presence hub",
		},
	)
)

func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(achievementUnlocks, achievementRevocations, reconcileDuration, emailsSent, onlineUsers)
}
