package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_connections_live",
			Help: "Currently open websocket connections",
		},
	)

	RoomsLive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_rooms_live",
			Help: "Rooms currently held in memory",
		},
	)

	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Messages accepted by the hub",
		},
		[]string{"kind"}, // "user" or "system"
	)

	EvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_room_evictions_total",
			Help: "Idle rooms evicted",
		},
	)

	NotificationsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_notifications_delivered_total",
			Help: "Notifications delivered to live sessions",
		},
	)

	SignalsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_signals_relayed_total",
			Help: "Call-setup signals relayed between room members",
		},
		[]string{"kind"}, // "offer", "answer", "candidate"
	)

	DroppedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_dropped_events_total",
			Help: "Inbound events dropped before reaching room state",
		},
		[]string{"reason"},
	)
)
